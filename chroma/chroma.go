// Package chroma highlights generated code for terminal display using
// alecthomas/chroma.
package chroma

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fwojciec/tdd"
)

const (
	defaultStyle     = "monokai"
	defaultFormatter = "terminal16"
)

// lexerNames maps editor languages to chroma lexer names.
var lexerNames = map[tdd.Language]string{
	tdd.LanguageTypeScript: "typescript",
	tdd.LanguageJavaScript: "javascript",
	tdd.LanguagePython:     "python",
	tdd.LanguageJava:       "java",
	tdd.LanguageCSharp:     "csharp",
}

// Highlighter renders source code with ANSI color escapes.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// Option configures a [Highlighter].
type Option func(*Highlighter)

// WithStyle selects a chroma style by name. Unknown names keep the default.
func WithStyle(name string) Option {
	return func(h *Highlighter) {
		if s, ok := styles.Registry[name]; ok {
			h.style = s
		}
	}
}

// WithFormatter selects a chroma formatter by name, e.g. "terminal256".
// Unknown names keep the default.
func WithFormatter(name string) Option {
	return func(h *Highlighter) {
		if f, ok := formatters.Registry[name]; ok {
			h.formatter = f
		}
	}
}

// New creates a Highlighter. The default formatter uses the 16 ANSI colors
// so output follows the terminal palette.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		style:     styles.Get(defaultStyle),
		formatter: formatters.Get(defaultFormatter),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Highlight returns code with syntax colors. language may be an editor
// language identifier or any fence tag; when no lexer matches, the lexer is
// guessed from the code. On failure code is returned unchanged.
func (h *Highlighter) Highlight(code, language string) string {
	if code == "" {
		return code
	}
	it, err := lexerFor(code, language).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return code
	}
	return b.String()
}

func lexerFor(code, language string) chroma.Lexer {
	name := language
	if l, ok := tdd.LanguageForFence(language); ok {
		name = lexerNames[l]
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
