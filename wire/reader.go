package wire

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/tdd"
	"github.com/fwojciec/tdd/json"
)

const readBufferSize = 4096

// Interface compliance check.
var _ tdd.RecordStream = (*Reader)(nil)

// Reader decodes protocol records from a streamed body. Segments that fail
// to parse are logged and skipped; they never end the stream.
type Reader struct {
	src     io.Reader
	dec     *Decoder
	logger  *slog.Logger
	buf     []byte
	pending [][]byte
	eof     bool
	closed  bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger that receives dropped-segment warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = l
	}
}

// NewReader creates a Reader over src. If src is an io.Closer, Close closes
// it.
func NewReader(src io.Reader, f Framing, opts ...Option) *Reader {
	r := &Reader{
		src:    src,
		dec:    NewDecoder(f),
		logger: slog.New(slog.DiscardHandler),
		buf:    make([]byte, readBufferSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next record. It returns io.EOF once the body is
// exhausted, and an error wrapping tdd.ErrNetwork if reading fails.
func (r *Reader) Next() (tdd.Record, error) {
	if r.closed {
		return nil, tdd.ErrStreamClosed
	}
	for {
		for len(r.pending) > 0 {
			seg := r.pending[0]
			r.pending = r.pending[1:]
			rec, err := json.UnmarshalRecord(seg)
			if err != nil {
				r.logger.Warn("dropping malformed record", "err", err, "segment", string(seg))
				continue
			}
			return rec, nil
		}
		if r.eof {
			return nil, io.EOF
		}
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
}

func (r *Reader) fill() error {
	n, err := r.src.Read(r.buf)
	if n > 0 {
		r.pending = append(r.pending, r.dec.Feed(r.buf[:n])...)
	}
	switch {
	case errors.Is(err, io.EOF):
		r.eof = true
		if tail := r.dec.Flush(); tail != nil {
			if _, perr := json.UnmarshalRecord(tail); perr != nil {
				r.logger.Warn("dropping incomplete trailing segment", "err", perr, "segment", string(tail))
				return nil
			}
			r.pending = append(r.pending, tail)
		}
		return nil
	case err != nil:
		return fmt.Errorf("wire: read body: %w: %w", tdd.ErrNetwork, err)
	}
	return nil
}

// Close releases the underlying body.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
