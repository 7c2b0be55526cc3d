package tdd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Chat runs single chat turns against a Transport, folding the record stream
// through Apply and delivering the resulting events to a Sink.
type Chat struct {
	transport   Transport
	logger      *slog.Logger
	idleTimeout time.Duration
}

// Option configures a Chat.
type Option func(*Chat)

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chat) {
		c.logger = l
	}
}

// WithIdleTimeout ends a turn when no record arrives for d. Zero disables
// the watchdog.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Chat) {
		c.idleTimeout = d
	}
}

// NewChat creates a Chat over the given transport.
func NewChat(transport Transport, opts ...Option) *Chat {
	c := &Chat{
		transport: transport,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onEvent func(Event)
}

// WithEventHandler sets a callback that receives every event of the run,
// including the terminal one. If nil or not set, events only reach the sink.
func WithEventHandler(h func(Event)) RunOption {
	return func(c *runConfig) {
		c.onEvent = h
	}
}

// Run performs one turn. It returns the final protocol state and a non-nil
// error when the turn did not end with a done record.
func (c *Chat) Run(ctx context.Context, req ChatRequest, sink Sink, opts ...RunOption) (State, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := req.Validate(); err != nil {
		return State{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var idle atomic.Bool
	touch := func() {}
	if c.idleTimeout > 0 {
		t := time.AfterFunc(c.idleTimeout, func() {
			idle.Store(true)
			cancel()
		})
		defer t.Stop()
		touch = func() { t.Reset(c.idleTimeout) }
	}

	stream, err := c.transport.Chat(ctx, req)
	if err != nil {
		if idle.Load() {
			err = ErrIdleTimeout
		}
		c.logger.Error("chat request failed", "err", err)
		sink.OnProseUpdate(ApologyMessage)
		c.emit(&cfg, EventStreamTerminated{Err: err})
		return State{}, fmt.Errorf("chat: %w", err)
	}
	defer stream.Close()

	var s State
	for {
		rec, err := stream.Next()
		if err != nil {
			return c.interrupted(s, err, idle.Load(), sink, &cfg)
		}
		touch()

		var evts []Event
		s, evts = Apply(s, rec)
		for _, evt := range evts {
			Dispatch(sink, evt)
			c.emit(&cfg, evt)
			if t, ok := evt.(EventStreamTerminated); ok {
				return s, c.terminated(t)
			}
		}
	}
}

// interrupted ends a turn whose stream stopped before a terminal record.
func (c *Chat) interrupted(s State, err error, idle bool, sink Sink, cfg *runConfig) (State, error) {
	if idle {
		c.logger.Warn("chat stream idle", "timeout", c.idleTimeout)
		s, evts := Apply(s, RecordError{Message: "stream idle timeout", Code: "idle_timeout"})
		for _, evt := range evts {
			Dispatch(sink, evt)
			c.emit(cfg, evt)
		}
		return s, fmt.Errorf("chat: %w", ErrIdleTimeout)
	}

	if errors.Is(err, io.EOF) {
		err = fmt.Errorf("stream ended without done record: %w", ErrProtocol)
	} else if s.Prose == "" {
		sink.OnProseUpdate(ApologyMessage)
	}
	c.logger.Error("chat stream interrupted", "err", err, "prose_len", len(s.Prose))
	s.Terminal = true
	c.emit(cfg, EventStreamTerminated{Err: err})
	return s, fmt.Errorf("chat: %w", err)
}

func (c *Chat) terminated(t EventStreamTerminated) error {
	if t.Err != nil {
		c.logger.Warn("chat stream error", "err", t.Err)
		return fmt.Errorf("chat: %w", t.Err)
	}
	if t.FinishReason != FinishStop {
		c.logger.Warn("chat finished early", "finish_reason", string(t.FinishReason))
	}
	return nil
}

func (c *Chat) emit(cfg *runConfig, evt Event) {
	if cfg.onEvent != nil {
		cfg.onEvent(evt)
	}
}
