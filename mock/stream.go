package mock

import (
	"io"

	"github.com/fwojciec/tdd"
)

// Interface compliance check.
var _ tdd.RecordStream = (*RecordStream)(nil)

// RecordStream is a test double for tdd.RecordStream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// because callers commonly defer Close.
type RecordStream struct {
	NextFn  func() (tdd.Record, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *RecordStream) Next() (tdd.Record, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *RecordStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Records returns a RecordStream that yields recs in order and then io.EOF.
func Records(recs ...tdd.Record) *RecordStream {
	i := 0
	return &RecordStream{
		NextFn: func() (tdd.Record, error) {
			if i >= len(recs) {
				return nil, io.EOF
			}
			rec := recs[i]
			i++
			return rec, nil
		},
	}
}
