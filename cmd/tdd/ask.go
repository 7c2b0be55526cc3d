package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/tdd"
	"github.com/fwojciec/tdd/chroma"
	"github.com/fwojciec/tdd/goldmark"
	"github.com/spf13/cobra"
)

// Render modes for the ask command.
const (
	renderAuto     = "auto"
	renderRaw      = "raw"
	renderMarkdown = "markdown"
)

const defaultRenderWidth = 80

func newAskCmd(opts *options) *cobra.Command {
	var (
		render   string
		codeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "ask PROMPT...",
		Short: "Send one prompt and stream the reply to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			d, err := newDeps(cmd.Context(), cfg, opts.debug)
			if err != nil {
				return err
			}
			defer d.closeLog()
			return ask(cmd.Context(), newChat(cfg, d), cfg.Language, strings.Join(args, " "), askOptions{
				render:   render,
				codeOnly: codeOnly,
				out:      cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVar(&render, "render", renderAuto, "Output rendering: auto, raw, markdown")
	cmd.Flags().BoolVar(&codeOnly, "code", false, "Print only the last completed code block")
	return cmd
}

type askOptions struct {
	render   string
	codeOnly bool
	out      io.Writer
}

// ask runs one turn for prompt and writes the reply to o.out.
func ask(ctx context.Context, chat *tdd.Chat, lang tdd.Language, prompt string, o askOptions) error {
	width, tty := terminalWidth(o.out)
	markdown := false
	switch o.render {
	case renderAuto:
		markdown = tty
	case renderMarkdown:
		markdown = true
	case renderRaw:
	default:
		return fmt.Errorf("unknown render mode %q: %w", o.render, tdd.ErrValidation)
	}
	if !tty {
		width = defaultRenderWidth
	}

	conv := tdd.NewConversation()
	if err := conv.SetLanguage(lang); err != nil {
		return err
	}
	req, err := conv.Submit(prompt)
	if err != nil {
		return err
	}

	p := &printer{out: o.out, stream: !markdown && !o.codeOnly}
	_, runErr := chat.Run(ctx, req, p)
	_ = conv.EndTurn()

	switch {
	case o.codeOnly:
		if p.code != "" {
			fmt.Fprint(o.out, withNewline(p.code))
		}
	case markdown:
		theme := tdd.DefaultTheme()
		r := goldmark.New(theme, goldmark.WithHighlighter(chroma.New()))
		fmt.Fprint(o.out, withNewline(r.Render(p.text, width)))
	default:
		p.finish()
	}
	return runErr
}

// printer is a Sink that streams prose to out as it grows and remembers the
// last completed code block.
type printer struct {
	out    io.Writer
	stream bool

	text    string
	printed string
	code    string
}

func (p *printer) OnProseUpdate(text string) {
	p.text = text
	if !p.stream {
		return
	}
	if strings.HasPrefix(text, p.printed) {
		fmt.Fprint(p.out, text[len(p.printed):])
	} else {
		// Replaced rather than extended.
		fmt.Fprint(p.out, "\n"+text)
	}
	p.printed = text
}

func (p *printer) OnCodeBlockComplete(code, _ string) {
	p.code = code
}

func (p *printer) finish() {
	if p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
		fmt.Fprintln(p.out)
	}
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
