package tdd

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNetwork indicates the request could not be sent, the connection
	// dropped, or the server answered with a non-success status.
	ErrNetwork = errors.New("network error")

	// ErrProtocol indicates a success response that cannot be consumed:
	// a missing body, or a stream that ended without a terminal record.
	ErrProtocol = errors.New("protocol error")

	// ErrStream is the target of errors.Is for a *StreamError.
	ErrStream = errors.New("stream error")

	// ErrTurnInProgress indicates a submit while a stream is still active.
	ErrTurnInProgress = errors.New("turn in progress")

	// ErrNoTurn indicates a turn operation outside of an active turn.
	ErrNoTurn = errors.New("no turn in progress")

	// ErrUnhandledRecord indicates a record variant the state machine does
	// not know how to apply.
	ErrUnhandledRecord = errors.New("unhandled record")

	// ErrIdleTimeout indicates the stream produced no record within the
	// configured idle timeout.
	ErrIdleTimeout = errors.New("stream idle timeout")

	// ErrStreamClosed indicates an operation on a closed record stream.
	ErrStreamClosed = errors.New("stream closed")
)

// ApologyMessage is shown as the assistant reply when a turn fails before
// any server record could be consumed.
const ApologyMessage = "Sorry, I couldn't reach the assistant. Please try again."

// StreamError is an explicit error record reported by the server.
type StreamError struct {
	Message string
	Code    string
}

func (e *StreamError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("stream error: %s", e.Message)
	}
	return fmt.Sprintf("stream error (%s): %s", e.Code, e.Message)
}

// Unwrap returns ErrStream so callers can match any server-reported failure.
func (e *StreamError) Unwrap() error {
	return ErrStream
}
