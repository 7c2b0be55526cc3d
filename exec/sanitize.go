package exec

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape codes and control characters from test runner
// output. Tabs and newlines survive; CRLF becomes LF. A lone CR rewinds to
// the start of the line and the following text overwrites it, the way
// progress bars render in a terminal.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(ansi.Strip(s), "\r\n", "\n")

	var out strings.Builder
	out.Grow(len(s))
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(overwrite(line))
	}
	return out.String()
}

// overwrite renders one line, applying carriage returns and dropping other
// control characters.
func overwrite(line string) string {
	var buf []rune
	col := 0
	for _, r := range line {
		switch {
		case r == '\r':
			col = 0
		case r == '\t' || r > 0x1F:
			if col < len(buf) {
				buf[col] = r
			} else {
				buf = append(buf, r)
			}
			col++
		}
	}
	return string(buf)
}
