package tdd

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language is an editor and execution language supported by the code
// endpoint. The set is closed.
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python-3.12"
	LanguageJava       Language = "java"
	LanguageCSharp     Language = "csharp"
)

// DefaultLanguage is the editor language of a new conversation.
const DefaultLanguage = LanguageTypeScript

// Languages returns the supported languages in selector order.
func Languages() []Language {
	return []Language{
		LanguageTypeScript,
		LanguageJavaScript,
		LanguagePython,
		LanguageJava,
		LanguageCSharp,
	}
}

// fenceLanguages maps lowercased code-fence tags to editor languages.
var fenceLanguages = map[string]Language{
	"ts":          LanguageTypeScript,
	"tsx":         LanguageTypeScript,
	"typescript":  LanguageTypeScript,
	"js":          LanguageJavaScript,
	"jsx":         LanguageJavaScript,
	"javascript":  LanguageJavaScript,
	"node":        LanguageJavaScript,
	"py":          LanguagePython,
	"python":      LanguagePython,
	"python3":     LanguagePython,
	"python-3.12": LanguagePython,
	"java":        LanguageJava,
	"cs":          LanguageCSharp,
	"c#":          LanguageCSharp,
	"csharp":      LanguageCSharp,
}

// LanguageForFence maps a free-form code-fence tag to a supported language.
// The second result is false for tags outside the table.
func LanguageForFence(tag string) (Language, bool) {
	l, ok := fenceLanguages[strings.ToLower(strings.TrimSpace(tag))]
	return l, ok
}

// ParseLanguage parses a language name from configuration or flags. It
// accepts the identifiers themselves and every fence tag LanguageForFence
// knows.
func ParseLanguage(s string) (Language, error) {
	if l, ok := LanguageForFence(s); ok {
		return l, nil
	}
	return "", fmt.Errorf("unsupported language %q: %w", s, ErrValidation)
}

var extLanguages = map[string]Language{
	".ts":   LanguageTypeScript,
	".tsx":  LanguageTypeScript,
	".js":   LanguageJavaScript,
	".jsx":  LanguageJavaScript,
	".mjs":  LanguageJavaScript,
	".py":   LanguagePython,
	".java": LanguageJava,
	".cs":   LanguageCSharp,
}

// LanguageForPath infers the language of a source file from its extension.
func LanguageForPath(path string) (Language, bool) {
	l, ok := extLanguages[strings.ToLower(filepath.Ext(path))]
	return l, ok
}

// Label returns the human-readable name shown in the language selector.
func (l Language) Label() string {
	switch l {
	case LanguageTypeScript:
		return "TypeScript"
	case LanguageJavaScript:
		return "JavaScript"
	case LanguagePython:
		return "Python"
	case LanguageJava:
		return "Java"
	case LanguageCSharp:
		return "C#"
	default:
		return string(l)
	}
}

// Placeholder returns the initial editor content for l.
func (l Language) Placeholder() string {
	if l == LanguagePython {
		return "# Write your Python code here\n"
	}
	return fmt.Sprintf("// Write your %s code here\n", l.Label())
}

// Validate reports whether l is a supported language.
func (l Language) Validate() error {
	for _, known := range Languages() {
		if l == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported language %q: %w", string(l), ErrValidation)
}
