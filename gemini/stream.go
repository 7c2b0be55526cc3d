package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/fwojciec/tdd"
	"google.golang.org/genai"
)

// stream implements [tdd.RecordStream] by wrapping the genai SDK's streaming
// iterator.
type stream struct {
	ctx     context.Context
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	logger  *slog.Logger
	fence   fenceTracker
	pending []tdd.Record
	started bool
	done    bool
	closed  bool
}

// Interface compliance check.
var _ tdd.RecordStream = (*stream)(nil)

// NewStreamFromIter wraps a genai response iterator as a record stream.
// Exported for testing.
func NewStreamFromIter(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) tdd.RecordStream {
	return newStream(ctx, seq, slog.New(slog.DiscardHandler))
}

func newStream(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error], logger *slog.Logger) *stream {
	next, stop := iter.Pull2(seq)
	return &stream{
		ctx:    ctx,
		pull:   next,
		stop:   stop,
		logger: logger,
	}
}

// Next returns the next record. A stream that ends without a finish reason
// returns io.EOF without a done record.
func (s *stream) Next() (tdd.Record, error) {
	if s.closed {
		return nil, tdd.ErrStreamClosed
	}
	for {
		if len(s.pending) > 0 {
			rec := s.pending[0]
			s.pending = s.pending[1:]
			return rec, nil
		}
		if s.done {
			return nil, io.EOF
		}

		resp, err, ok := s.pull()
		switch {
		case !ok:
			s.done = true
			s.pending = append(s.pending, s.fence.flush()...)
		case err != nil:
			s.done = true
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("gemini: %w", ctxErr)
			}
			s.pending = append(s.pending, s.fence.flush()...)
			s.pending = append(s.pending, tdd.RecordError{Message: err.Error(), Code: "provider_error"})
		default:
			s.handle(resp)
		}
	}
}

func (s *stream) handle(resp *genai.GenerateContentResponse) {
	if !s.started {
		s.started = true
		s.pending = append(s.pending, tdd.RecordStart{Usage: convertUsage(resp.UsageMetadata)})
	}
	if len(resp.Candidates) == 0 {
		return
	}
	cand := resp.Candidates[0]
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought || p.Text == "" {
				continue
			}
			s.pending = append(s.pending, s.fence.feed(p.Text)...)
		}
	}
	if cand.FinishReason == "" || cand.FinishReason == genai.FinishReasonUnspecified {
		return
	}
	s.done = true
	s.pending = append(s.pending, s.fence.flush()...)
	s.pending = append(s.pending, s.finish(cand.FinishReason))
}

// finish maps a Gemini finish reason to the terminal record.
func (s *stream) finish(reason genai.FinishReason) tdd.Record {
	switch reason {
	case genai.FinishReasonStop:
		return tdd.RecordDone{FinishReason: tdd.FinishStop}
	case genai.FinishReasonMaxTokens:
		return tdd.RecordDone{FinishReason: tdd.FinishLength}
	case genai.FinishReasonMalformedFunctionCall:
		return tdd.RecordDone{FinishReason: tdd.FinishFunctionCall}
	default:
		s.logger.Warn("gemini stopped generation", "finish_reason", string(reason))
		return tdd.RecordError{
			Message: fmt.Sprintf("generation stopped: %s", reason),
			Code:    strings.ToLower(string(reason)),
		}
	}
}

func convertUsage(u *genai.GenerateContentResponseUsageMetadata) *tdd.Usage {
	if u == nil {
		return nil
	}
	return &tdd.Usage{
		PromptTokens:     int(u.PromptTokenCount),
		CompletionTokens: int(u.CandidatesTokenCount),
		TotalTokens:      int(u.TotalTokenCount),
	}
}

// Close stops the underlying iterator.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stop()
	return nil
}
