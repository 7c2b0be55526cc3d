package bubbletea

// MessageBlock is a renderable element in the chat pane.
// View takes a width parameter so the root model controls layout and blocks
// are testable in isolation.
type MessageBlock interface {
	View(width int) string
}
