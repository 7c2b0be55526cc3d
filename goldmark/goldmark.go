// Package goldmark renders assistant prose (markdown) to ANSI-styled
// terminal output, using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tdd"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const defaultWidth = 80

// Highlighter colors the body of fenced code blocks.
type Highlighter interface {
	Highlight(code, language string) string
}

// Renderer renders markdown. It is safe for concurrent use.
type Renderer struct {
	parser    parser.Parser
	highlight Highlighter

	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithHighlighter sets the syntax highlighter for fenced code blocks.
// Without one, code is printed as is.
func WithHighlighter(h Highlighter) Option {
	return func(r *Renderer) { r.highlight = h }
}

// New creates a Renderer styled with theme.
func New(theme tdd.Theme, opts ...Option) *Renderer {
	r := &Renderer{
		parser:    goldmark.DefaultParser(),
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render parses source and returns styled output. Paragraphs and list items
// are word-wrapped to width; code blocks are not reflowed.
func (r *Renderer) Render(source string, width int) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	src := []byte(source)
	w := &writer{r: r, src: src, width: width}
	w.blocks(r.parser.Parse(text.NewReader(src)))
	return strings.TrimRight(w.out.String(), "\n")
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
