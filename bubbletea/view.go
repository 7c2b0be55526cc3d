package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tdd"
)

// layout holds pane dimensions for a terminal size. The chat pane takes two
// fifths of the width; the right-hand column stacks a tab row, the panel,
// an output header and the output.
type layout struct {
	chatW, chatH   int
	panelW, panelH int
	editorH        int
	outputH        int
}

func newLayout(width, height int) layout {
	body := max(height-1, 4) // status line
	chatW := max(width*2/5, 10)
	panelW := max(width-chatW-1, 10) // separator column
	outputH := max((body-2)/3, 1)
	return layout{
		chatW:   chatW,
		chatH:   body - 1, // input line
		panelW:  panelW,
		panelH:  body,
		editorH: max(body-2-outputH, 1),
		outputH: outputH,
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	l := newLayout(m.width, m.height)

	left := m.Viewport.View() + "\n" + m.Input.View()
	right := strings.Join([]string{
		m.panelTabs(l.panelW),
		m.panelBody(l),
		m.outputHeader(),
		m.outputView(l),
	}, "\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		box(left, l.chatW, l.panelH),
		m.separator(l.panelH),
		box(right, l.panelW, l.panelH),
	)
	return body + "\n" + m.statusLine()
}

func box(s string, w, h int) string {
	return lipgloss.NewStyle().Width(w).MaxWidth(w).Height(h).MaxHeight(h).Render(s)
}

func (m Model) separator(h int) string {
	return m.styles.Border.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))
}

func (m Model) panelTabs(width int) string {
	panes := []Pane{PaneGenerated, PaneCode, PaneTests}
	labelW := width/len(panes) - 1
	labels := make([]string, len(panes))
	for i, p := range panes {
		label := truncateLabel(p.String(), labelW)
		if p == m.panel {
			labels[i] = m.styles.ActiveTab.Render(label)
		} else {
			labels[i] = m.styles.Tab.Render(label)
		}
	}
	return strings.Join(labels, " ")
}

func (m Model) panelBody(l layout) string {
	var s string
	switch m.panel {
	case PaneCode:
		s = m.Code.View()
	case PaneTests:
		s = m.Tests.View()
	default:
		s = m.generatedView(l)
	}
	return box(s, l.panelW, l.editorH)
}

// generatedView shows the version selector over the active slot.
func (m Model) generatedView(l layout) string {
	active := m.conv.Version()
	versions := make([]string, 0, 3)
	for _, id := range tdd.Slots() {
		style := m.styles.Tab
		if id == active {
			style = m.styles.ActiveTab
		}
		versions = append(versions, style.Render(string(id)))
	}

	code, lang := m.conv.Code(), string(m.conv.Language())
	if slot, ok := m.conv.Slot(active); ok && slot.Language != "" {
		lang = slot.Language
	}
	if m.hl != nil {
		code = m.hl.Highlight(code, lang)
	}
	return strings.Join(versions, " ") + "\n" + head(strings.TrimRight(code, "\n"), l.editorH-1)
}

func (m Model) outputHeader() string {
	if m.executing {
		return m.styles.Accent.Render("Output") + m.styles.Muted.Render(" running")
	}
	return m.styles.Accent.Render("Output")
}

func (m Model) outputView(l layout) string {
	out := tail(hardWrap(m.conv.Output(), l.panelW), l.outputH)
	switch {
	case m.executing || !m.ran:
		return m.styles.Muted.Render(out)
	case m.failed:
		return m.styles.Error.Render(out)
	default:
		return m.styles.Success.Render(out)
	}
}

func (m Model) statusLine() string {
	lang := m.conv.Language().Label() + " " + string(m.conv.Version())
	if m.Running() {
		return m.styles.Muted.Render(lang + " | Generating... (ctrl+c to stop)")
	}
	var keys string
	switch m.pane {
	case PaneChat:
		keys = hint(m.keys.Send, m.keys.NextPane, m.keys.RunTests, m.keys.Quit)
	case PaneGenerated:
		keys = hint(m.keys.Version1, m.keys.QuickSubmit, m.keys.Language, m.keys.NextPane)
	default:
		keys = hint(m.keys.RunTests, m.keys.Clear, m.keys.Language, m.keys.NextPane)
	}
	return m.styles.Muted.Render(lang + " | " + keys)
}
