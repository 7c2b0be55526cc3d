// Package wire splits a streamed chat response body into protocol records.
//
// Two framings are supported: newline-delimited JSON, and Server-Sent Events
// whose data payloads carry one JSON record per event.
package wire

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/tdd"
)

// Framing selects how records are delimited in the byte stream.
type Framing int

const (
	// FramingNDJSON is one JSON object per line.
	FramingNDJSON Framing = iota
	// FramingSSE is one JSON object per event, in "data:" lines.
	FramingSSE
)

// ParseFraming maps a configuration value to a Framing.
func ParseFraming(s string) (Framing, error) {
	switch s {
	case tdd.FramingNDJSON, "":
		return FramingNDJSON, nil
	case tdd.FramingSSE:
		return FramingSSE, nil
	default:
		return 0, fmt.Errorf("wire: unknown framing %q: %w", s, tdd.ErrValidation)
	}
}

func (f Framing) String() string {
	switch f {
	case FramingNDJSON:
		return tdd.FramingNDJSON
	case FramingSSE:
		return tdd.FramingSSE
	default:
		return fmt.Sprintf("Framing(%d)", int(f))
	}
}

// sseDone is the sentinel payload some servers send before closing.
var sseDone = []byte("[DONE]")

// Decoder turns arbitrarily split chunks into complete segments. Bytes that
// do not yet form a complete segment are carried over to the next Feed.
//
// Decoder is not safe for concurrent use.
type Decoder struct {
	framing Framing
	line    []byte   // incomplete trailing line
	data    [][]byte // SSE data lines of the current event
}

// NewDecoder creates a Decoder for the given framing.
func NewDecoder(f Framing) *Decoder {
	return &Decoder{framing: f}
}

// Feed appends chunk to the carry-over and returns every segment completed
// by it. Returned slices do not alias chunk.
func (d *Decoder) Feed(chunk []byte) [][]byte {
	var out [][]byte
	d.line = append(d.line, chunk...)
	for {
		i := bytes.IndexByte(d.line, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(d.line[:i], []byte("\r"))
		if seg := d.handleLine(line); seg != nil {
			out = append(out, seg)
		}
		d.line = d.line[i+1:]
	}
	// Compact so the carry-over does not pin consumed bytes.
	d.line = append([]byte(nil), d.line...)
	return out
}

// Flush returns the segment left in the carry-over at end of stream, or nil
// if there is none, and resets the decoder.
func (d *Decoder) Flush() []byte {
	var seg []byte
	line := bytes.TrimSuffix(d.line, []byte("\r"))
	switch d.framing {
	case FramingSSE:
		if len(line) > 0 {
			d.handleLine(line)
		}
		seg = d.event()
	default:
		seg = d.handleLine(line)
	}
	d.line = nil
	d.data = nil
	return seg
}

// Pending reports whether the decoder holds bytes of an incomplete segment.
func (d *Decoder) Pending() bool {
	return len(bytes.TrimSpace(d.line)) > 0 || len(d.data) > 0
}

func (d *Decoder) handleLine(line []byte) []byte {
	if d.framing != FramingSSE {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			return nil
		}
		return bytes.Clone(line)
	}

	switch {
	case len(line) == 0:
		return d.event()
	case line[0] == ':':
		// comment
	default:
		field, value, found := bytes.Cut(line, []byte(":"))
		if !found || string(field) != "data" {
			return nil
		}
		value = bytes.TrimPrefix(value, []byte(" "))
		d.data = append(d.data, bytes.Clone(value))
	}
	return nil
}

// event dispatches the buffered SSE event.
func (d *Decoder) event() []byte {
	if len(d.data) == 0 {
		return nil
	}
	payload := bytes.Join(d.data, []byte("\n"))
	d.data = nil
	if bytes.Equal(bytes.TrimSpace(payload), sseDone) {
		return nil
	}
	return payload
}
