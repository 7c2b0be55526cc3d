package bubbletea

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a prompt behind a "> " marker. Wrapped lines hang
// under the text, not the marker.
type UserMessageBlock struct {
	text   string
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	const indent = "  "
	body := ansi.Wrap(b.text, max(width-len(indent), 1), "")
	lines := strings.Split(body, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = b.styles.UserMsg.Render("> ") + lines[i]
			continue
		}
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}
