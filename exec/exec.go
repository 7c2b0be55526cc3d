// Package exec shapes the output of remote test runs for display: it strips
// terminal escapes the test runners emit and keeps only the tail of long
// output.
package exec

import (
	"context"
	"fmt"

	"github.com/fwojciec/tdd"
)

// Default output limits.
const (
	DefaultMaxLines = 2000
	DefaultMaxBytes = 50 * 1024
)

// Interface compliance check.
var _ tdd.Executor = (*Executor)(nil)

// Executor wraps another tdd.Executor and cleans up its output.
type Executor struct {
	next     tdd.Executor
	maxLines int
	maxBytes int
}

// Option configures an [Executor].
type Option func(*Executor)

// WithLimits sets the tail limits applied to stdout and stderr.
func WithLimits(maxLines, maxBytes int) Option {
	return func(e *Executor) {
		e.maxLines = maxLines
		e.maxBytes = maxBytes
	}
}

// New wraps next.
func New(next tdd.Executor, opts ...Option) *Executor {
	e := &Executor{
		next:     next,
		maxLines: DefaultMaxLines,
		maxBytes: DefaultMaxBytes,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute runs req on the wrapped executor and shapes the result.
func (e *Executor) Execute(ctx context.Context, req tdd.ExecutionRequest) (tdd.ExecutionResult, error) {
	res, err := e.next.Execute(ctx, req)
	if err != nil {
		return tdd.ExecutionResult{}, err
	}
	return Shape(res, e.maxLines, e.maxBytes), nil
}

// Shape sanitizes every text field of res and tail-truncates stdout and
// stderr. A truncated stream starts with a one-line notice.
func Shape(res tdd.ExecutionResult, maxLines, maxBytes int) tdd.ExecutionResult {
	res.Stdout = shapeStream(res.Stdout, maxLines, maxBytes)
	res.Stderr = shapeStream(res.Stderr, maxLines, maxBytes)
	res.Error = Sanitize(res.Error)
	return res
}

func shapeStream(s string, maxLines, maxBytes int) string {
	t := TruncateTail(Sanitize(s), maxLines, maxBytes)
	if !t.Truncated {
		return t.Content
	}
	return fmt.Sprintf("[output truncated: last %d of %d lines]\n%s", t.OutputLines, t.TotalLines, t.Content)
}
