package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/tdd"
	"github.com/fwojciec/tdd/api"
	"github.com/fwojciec/tdd/exec"
	"github.com/fwojciec/tdd/gemini"
	"github.com/fwojciec/tdd/wire"
)

// deps are the collaborators built from a Config.
type deps struct {
	transport tdd.Transport
	executor  tdd.Executor
	logger    *slog.Logger
	closeLog  func() error
}

// newDeps builds the transport, executor and logger. Tests always run
// through the assistant server, whichever transport serves chat.
func newDeps(ctx context.Context, cfg tdd.Config, debug bool) (*deps, error) {
	logger, closeLog, err := newLogger(cfg, debug, os.Getenv("TDD_DEBUG"))
	if err != nil {
		return nil, err
	}
	client, err := newAPIClient(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	transport, err := newTransport(ctx, cfg, client, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	return &deps{
		transport: transport,
		executor:  exec.New(client),
		logger:    logger,
		closeLog:  closeLog,
	}, nil
}

func newAPIClient(cfg tdd.Config, logger *slog.Logger) (*api.Client, error) {
	framing, err := wire.ParseFraming(cfg.Framing)
	if err != nil {
		return nil, err
	}
	return api.New(
		api.WithBaseURL(cfg.BaseURL),
		api.WithFraming(framing),
		api.WithLogger(logger),
	), nil
}

// newTransport selects the chat transport named by cfg.Provider.
func newTransport(ctx context.Context, cfg tdd.Config, client *api.Client, logger *slog.Logger) (tdd.Transport, error) {
	switch cfg.Provider {
	case tdd.ProviderAPI, "":
		return client, nil
	case tdd.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use the config file or environment variable)")
		}
		opts := []gemini.Option{gemini.WithLogger(logger)}
		if cfg.Gemini.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Gemini.Model))
		}
		c, err := gemini.New(ctx, cfg.Gemini.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"api\" or \"gemini\"", cfg.Provider)
	}
}

// newLogger returns a JSON logger writing to the log file when debugging is
// enabled, and a discarding logger otherwise.
func newLogger(cfg tdd.Config, debug bool, envDebug string) (*slog.Logger, func() error, error) {
	nop := func() error { return nil }
	if !debug && envDebug != "1" {
		return slog.New(slog.DiscardHandler), nop, nil
	}
	path := cfg.LogPath
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, nil, fmt.Errorf("log path: %w", err)
		}
		path = filepath.Join(dir, "tdd", "tdd.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return jsonLogger(f), f.Close, nil
}

func jsonLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newChat builds the per-turn runner over the transport.
func newChat(cfg tdd.Config, d *deps) *tdd.Chat {
	return tdd.NewChat(d.transport,
		tdd.WithLogger(d.logger),
		tdd.WithIdleTimeout(cfg.IdleTimeout),
	)
}
