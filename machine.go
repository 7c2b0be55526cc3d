package tdd

import (
	"fmt"
	"strings"
)

// State is the processing state of one in-flight stream. It is a plain value
// with no shared references, so Apply never changes the caller's copy.
type State struct {
	// Prose is the full assistant text reconstructed so far. It only grows.
	Prose string
	// InCode reports whether a code region is open.
	InCode bool
	// Language is the tag of the open code region. Meaningful only while
	// InCode is set.
	Language string
	// Code is the accumulated body of the open code region.
	Code string
	// Terminal is set once a done or error record has been applied.
	Terminal bool
}

// Apply computes the state that follows rec and the events the transition
// emits. Records applied after a terminal record are ignored.
//
// Tokens inside a code region are line-normalized before they reach the code
// buffer: a fragment without a newline gets one appended. This re-linearizes
// streamed fragments into lines but is not a byte-exact reconstruction when
// the upstream tokenizer splits a line across fragments.
func Apply(s State, rec Record) (State, []Event) {
	if s.Terminal {
		return s, nil
	}

	switch r := rec.(type) {
	case RecordStart:
		return s, nil

	case RecordToken:
		if s.InCode {
			s.Code += codeLine(r.Text)
		}
		s.Prose += r.Text
		return s, []Event{EventProseUpdate{Text: s.Prose}}

	case RecordCodeStart:
		var events []Event
		if s.InCode {
			// A nested start closes the previous region first.
			s, events = closeCode(s)
		}
		s.InCode = true
		s.Language = r.Language
		s.Code = ""
		return s, events

	case RecordCodeEnd:
		if !s.InCode {
			return s, nil
		}
		return closeCode(s)

	case RecordError:
		s.Terminal = true
		msg := "Error: " + r.Message
		if s.Prose != "" {
			msg = "\n\n" + msg
		}
		s.Prose += msg
		return s, []Event{
			EventProseUpdate{Text: s.Prose},
			EventStreamTerminated{Err: &StreamError{Message: r.Message, Code: r.Code}},
		}

	case RecordDone:
		s.Terminal = true
		return s, []Event{EventStreamTerminated{FinishReason: r.FinishReason}}

	default:
		s.Terminal = true
		return s, []Event{EventStreamTerminated{Err: fmt.Errorf("%w: %T", ErrUnhandledRecord, rec)}}
	}
}

// ApplyAll folds recs over s with Apply and returns the final state together
// with every emitted event, in order.
func ApplyAll(s State, recs ...Record) (State, []Event) {
	var events []Event
	for _, rec := range recs {
		var evts []Event
		s, evts = Apply(s, rec)
		events = append(events, evts...)
	}
	return s, events
}

func closeCode(s State) (State, []Event) {
	var events []Event
	if s.Code != "" {
		events = append(events, EventCodeBlockComplete{Code: s.Code, Language: s.Language})
	}
	s.Code = ""
	s.InCode = false
	return s, events
}

func codeLine(fragment string) string {
	if strings.Contains(fragment, "\n") {
		return fragment
	}
	return fragment + "\n"
}
