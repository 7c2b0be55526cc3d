package bubbletea

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the TUI key bindings.
type KeyMap struct {
	Send        key.Binding
	Quit        key.Binding
	NextPane    key.Binding
	PrevPane    key.Binding
	RunTests    key.Binding
	Clear       key.Binding
	Language    key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	QuickSubmit key.Binding // generated-code panel only
	Version1    key.Binding // generated-code panel only
	Version2    key.Binding
	Version3    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextPane:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
		RunTests:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run tests")),
		Clear:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Language:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "language")),
		ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
		QuickSubmit: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		Version1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1-3", "version")),
		Version2:    key.NewBinding(key.WithKeys("2")),
		Version3:    key.NewBinding(key.WithKeys("3")),
	}
}

func hint(bindings ...key.Binding) string {
	var s string
	for i, b := range bindings {
		if i > 0 {
			s += ", "
		}
		h := b.Help()
		s += h.Key + " " + h.Desc
	}
	return s
}
