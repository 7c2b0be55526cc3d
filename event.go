package tdd

// Event is a sealed interface representing an output of the protocol state
// machine, consumed by a Sink.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventProseUpdate carries the full assistant text accumulated so far.
// Each update replaces the previous one.
type EventProseUpdate struct {
	Text string
}

func (EventProseUpdate) event() {}

// EventCodeBlockComplete carries a finished, non-empty code region.
type EventCodeBlockComplete struct {
	Code     string
	Language string
}

func (EventCodeBlockComplete) event() {}

// EventStreamTerminated is emitted exactly once, when the stream reaches a
// terminal record. Err is nil for a normal completion.
type EventStreamTerminated struct {
	FinishReason FinishReason
	Err          error
}

func (EventStreamTerminated) event() {}

// Interface compliance checks.
var (
	_ Event = EventProseUpdate{}
	_ Event = EventCodeBlockComplete{}
	_ Event = EventStreamTerminated{}
)

// Sink receives the incremental results of a turn.
type Sink interface {
	// OnProseUpdate replaces the in-progress assistant message with text.
	OnProseUpdate(text string)
	// OnCodeBlockComplete hands a completed code block to the code store.
	OnCodeBlockComplete(code, language string)
}

// Dispatch routes evt to the matching Sink method. Termination events carry
// no sink payload and are ignored here.
func Dispatch(sink Sink, evt Event) {
	switch e := evt.(type) {
	case EventProseUpdate:
		sink.OnProseUpdate(e.Text)
	case EventCodeBlockComplete:
		sink.OnCodeBlockComplete(e.Code, e.Language)
	case EventStreamTerminated:
	}
}
