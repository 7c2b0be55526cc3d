package bubbletea

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// HardWrap exports hardWrap for testing.
func HardWrap(s string, width int) string {
	return hardWrap(s, width)
}

// Tail exports tail for testing.
func Tail(s string, n int) string {
	return tail(s, n)
}

// TruncateLabel exports truncateLabel for testing.
func TruncateLabel(s string, width int) string {
	return truncateLabel(s, width)
}
