package bubbletea

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const tabWidth = 4

// hardWrap breaks every line of s at width display columns, without regard
// for word boundaries. Grapheme clusters are never split.
func hardWrap(s string, width int) string {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	if width <= 0 {
		return s
	}
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		col := 0
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			cluster := g.Str()
			w := runewidth.StringWidth(cluster)
			if col > 0 && col+w > width {
				b.WriteByte('\n')
				col = 0
			}
			b.WriteString(cluster)
			col += w
		}
	}
	return b.String()
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n <= 0 || len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// head keeps the first n lines of s.
func head(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n <= 0 || len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

// truncateLabel shortens a tab label to width columns.
func truncateLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
