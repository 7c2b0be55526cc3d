package bubbletea

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/tdd"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed turn below the conversation, followed by a
// hint when the failure has a known remedy.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) View(width int) string {
	w := max(width, 1)
	out := b.styles.Error.Render(ansi.Wrap(fmt.Sprintf("Error: %v", b.err), w, ""))
	if hint := errorHint(b.err); hint != "" {
		out += "\n" + b.styles.Muted.Render(ansi.Wrap(hint, w, ""))
	}
	return out
}

func errorHint(err error) string {
	var se *tdd.StreamError
	switch {
	case errors.Is(err, tdd.ErrIdleTimeout):
		return "The assistant stopped responding. Send the message again to retry."
	case errors.Is(err, tdd.ErrNetwork):
		return "Check that the assistant server is running."
	case errors.As(err, &se) && se.Code != "":
		return "Server error code: " + se.Code
	case errors.Is(err, tdd.ErrProtocol):
		return "The reply ended early and may be incomplete."
	}
	return ""
}
