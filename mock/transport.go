// Package mock provides test doubles for tdd interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/tdd"
)

// Interface compliance checks.
var (
	_ tdd.Transport = (*Transport)(nil)
	_ tdd.Executor  = (*Executor)(nil)
)

// Transport is a test double for tdd.Transport.
// Set ChatFn before calling Chat.
type Transport struct {
	ChatFn func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error)
}

// Chat delegates to ChatFn.
func (t *Transport) Chat(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
	return t.ChatFn(ctx, req)
}

// Executor is a test double for tdd.Executor.
// Set ExecuteFn before calling Execute.
type Executor struct {
	ExecuteFn func(ctx context.Context, req tdd.ExecutionRequest) (tdd.ExecutionResult, error)
}

// Execute delegates to ExecuteFn.
func (e *Executor) Execute(ctx context.Context, req tdd.ExecutionRequest) (tdd.ExecutionResult, error) {
	return e.ExecuteFn(ctx, req)
}
