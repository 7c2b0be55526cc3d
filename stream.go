package tdd

import "context"

// RecordStream uses a pull-based iterator pattern over protocol records.
// Cancellation flows through the context passed to Transport.Chat.
//
// Next returns io.EOF once the underlying body is exhausted. Records that
// follow a terminal record are still returned; it is the state machine that
// ignores them. Close releases the underlying connection and is safe to call
// more than once.
type RecordStream interface {
	Next() (Record, error)
	Close() error
}

// Transport opens one streamed chat response per call.
type Transport interface {
	Chat(ctx context.Context, req ChatRequest) (RecordStream, error)
}
