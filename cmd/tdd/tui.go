package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/tdd"
	bt "github.com/fwojciec/tdd/bubbletea"
	"github.com/fwojciec/tdd/chroma"
	"github.com/fwojciec/tdd/goldmark"
	"golang.org/x/term"
)

var errNotTerminal = errors.New("interactive mode needs a terminal: use \"tdd ask\" or \"tdd run\" instead")

func runTUI(ctx context.Context, opts *options, stdin io.Reader) error {
	if !isTerminal(stdin) {
		return errNotTerminal
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	d, err := newDeps(ctx, cfg, opts.debug)
	if err != nil {
		return err
	}
	defer d.closeLog()

	conv := tdd.NewConversation()
	if err := conv.SetLanguage(cfg.Language); err != nil {
		return err
	}
	theme := tdd.DefaultTheme()
	hl := chroma.New()
	model := bt.New(chatFunc(newChat(cfg, d)), conv, theme,
		bt.WithExecutor(d.executor),
		bt.WithMarkdown(goldmark.New(theme, goldmark.WithHighlighter(hl))),
		bt.WithHighlighter(hl),
	)
	d.logger.Info("tui started", "provider", cfg.Provider, "base_url", cfg.BaseURL, "language", string(cfg.Language))
	return bt.Run(ctx, model)
}

// chatFunc adapts a Chat to the TUI's turn runner.
func chatFunc(c *tdd.Chat) bt.ChatFunc {
	return func(ctx context.Context, req tdd.ChatRequest, sink tdd.Sink, onEvent func(tdd.Event)) error {
		_, err := c.Run(ctx, req, sink, tdd.WithEventHandler(onEvent))
		return err
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
