package goldmark

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark/ast"
)

// writer holds the state of one Render call.
type writer struct {
	r     *Renderer
	src   []byte
	width int
	out   strings.Builder
}

func (w *writer) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
		if n.NextSibling() != nil && !isHTML(n) {
			w.out.WriteByte('\n')
		}
	}
}

func isHTML(n ast.Node) bool {
	_, ok := n.(*ast.HTMLBlock)
	return ok
}

func (w *writer) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.wrapped(w.inline(n), lipgloss.NewStyle())
	case *ast.Heading:
		w.wrapped(w.inline(n), w.r.heading)
	case *ast.FencedCodeBlock:
		lang := string(n.Language(w.src))
		if lang != "" {
			w.out.WriteString(w.r.muted.Render(lang) + "\n")
		}
		w.code(w.lines(n), lang)
	case *ast.CodeBlock:
		w.code(w.lines(n), "")
	case *ast.List:
		w.list(n, 0)
	case *ast.ThematicBreak:
		w.out.WriteString(w.r.muted.Render(strings.Repeat("─", min(w.width, 40))) + "\n")
	case *ast.HTMLBlock:
		w.out.WriteString(w.lines(n))
	default:
		w.blocks(n)
	}
}

func (w *writer) wrapped(s string, style lipgloss.Style) {
	w.out.WriteString(ansi.Wrap(style.Render(s), w.width, ""))
	w.out.WriteByte('\n')
}

func (w *writer) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(w.src))
	}
	return b.String()
}

// code writes a code block behind a gutter, highlighted when a highlighter
// is configured.
func (w *writer) code(body, lang string) {
	if w.r.highlight != nil {
		body = w.r.highlight.Highlight(body, lang)
	}
	gutter := w.r.muted.Render("│") + " "
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		w.out.WriteString(gutter + line + "\n")
	}
}

func (w *writer) list(l *ast.List, depth int) {
	n := l.Start
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}
		var text strings.Builder
		for ic := c.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.List:
				w.item(depth, &marker, text.String())
				text.Reset()
				w.list(in, depth+1)
			case *ast.Paragraph, *ast.TextBlock:
				text.WriteString(w.inline(in))
			default:
				sub := &writer{r: w.r, src: w.src, width: w.width}
				sub.block(in)
				text.WriteString(strings.TrimRight(sub.out.String(), "\n"))
			}
		}
		w.item(depth, &marker, text.String())
	}
}

// item writes one list entry. After the first line of an item the marker is
// blanked so continuation text aligns under it.
func (w *writer) item(depth int, marker *string, text string) {
	if text == "" {
		return
	}
	prefix := strings.Repeat("  ", depth) + *marker
	wrapped := ansi.Wrap(text, max(w.width-len(prefix), 10), "")
	pad := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			w.out.WriteString(prefix + line + "\n")
			continue
		}
		w.out.WriteString(pad + line + "\n")
	}
	*marker = strings.Repeat(" ", len(*marker))
}

func (w *writer) inline(parent ast.Node) string {
	var b strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.span(n, &b)
	}
	return b.String()
}

func (w *writer) span(n ast.Node, b *strings.Builder) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(w.src))
		switch {
		case n.HardLineBreak():
			b.WriteByte('\n')
		case n.SoftLineBreak():
			b.WriteByte(' ')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			b.WriteString(w.r.italic.Render(w.inline(n)))
		} else {
			b.WriteString(w.r.bold.Render(w.inline(n)))
		}
	case *ast.CodeSpan:
		b.WriteString(w.r.bold.Render(w.inline(n)))
	case *ast.Link:
		b.WriteString(w.r.underline.Render(w.inline(n)))
		b.WriteString(" " + w.r.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		b.WriteString(w.r.underline.Render(string(n.URL(w.src))))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.src))
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, b)
		}
	}
}
