package bubbletea

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tdd"
)

var _ tea.Model = Model{}

// Pane identifies the focused area of the screen.
type Pane int

const (
	PaneChat Pane = iota
	PaneGenerated
	PaneCode
	PaneTests

	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneChat:
		return "Chat"
	case PaneGenerated:
		return "Generated"
	case PaneCode:
		return "Code"
	case PaneTests:
		return "Tests"
	default:
		return "Unknown"
	}
}

// Model is the Bubble Tea model for the tdd TUI.
type Model struct {
	// Input is the chat input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable chat history. Exported for test access.
	Viewport viewport.Model
	// Code and Tests are the implementation and test editors.
	Code  textarea.Model
	Tests textarea.Model

	chat   ChatFunc
	exec   tdd.Executor
	conv   *tdd.Conversation
	md     Markdown
	hl     Highlighter
	keys   KeyMap
	styles Styles

	pane  Pane
	panel Pane // right-hand panel on display

	// assistant caches rendered prose per message ID.
	assistant map[string]*AssistantTextBlock

	cancel  context.CancelFunc
	eventCh chan tdd.Event
	doneCh  chan error

	executing bool
	ran       bool
	failed    bool

	err           error
	width, height int
	ready         bool
}

// Option configures a Model.
type Option func(*Model)

// WithExecutor enables test runs.
func WithExecutor(e tdd.Executor) Option {
	return func(m *Model) { m.exec = e }
}

// WithMarkdown renders assistant prose through md.
func WithMarkdown(md Markdown) Option {
	return func(m *Model) { m.md = md }
}

// WithHighlighter colors the generated-code panel.
func WithHighlighter(h Highlighter) Option {
	return func(m *Model) { m.hl = h }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// New creates a TUI Model over conv. Turns are run with chat.
func New(chat ChatFunc, conv *tdd.Conversation, theme tdd.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe a feature or paste a failing test..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:     ti,
		Code:      newEditor(),
		Tests:     newEditor(),
		chat:      chat,
		conv:      conv,
		keys:      DefaultKeyMap(),
		styles:    NewStyles(theme),
		pane:      PaneChat,
		panel:     PaneGenerated,
		assistant: make(map[string]*AssistantTextBlock),
	}
	for _, o := range opts {
		o(&m)
	}
	m.syncEditors()
	return m
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Blur()
	return ta
}

// Running returns whether a chat turn is in flight.
func (m Model) Running() bool { return m.conv.Streaming() }

// Executing returns whether a test run is in flight.
func (m Model) Executing() bool { return m.executing }

// Err returns the error of the last turn, if any.
func (m Model) Err() error { return m.err }

// Pane returns the focused pane.
func (m Model) Pane() Pane { return m.pane }

// Conversation returns the underlying store.
func (m Model) Conversation() *tdd.Conversation { return m.conv }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		tdd.Dispatch(m.conv, msg.Event)
		if _, ok := msg.Event.(tdd.EventCodeBlockComplete); ok {
			m.syncEditors()
		}
		m.refreshChat()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case TurnDoneMsg:
		// ErrNoTurn only when no turn was started; nothing to finish then.
		_ = m.conv.EndTurn()
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.refreshChat()
		cmd := m.focusPane()
		return m, cmd

	case ExecDoneMsg:
		m.executing = false
		m.ran = true
		if msg.Err != nil {
			m.conv.SetExecutionError(msg.Err)
			m.failed = true
		} else {
			m.conv.SetExecutionResult(msg.Result)
			m.failed = msg.Result.Failed()
		}
		return m, nil
	}

	// Blink ticks go to the focused component; mouse wheel to the viewport.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	switch m.pane {
	case PaneChat:
		m.Input, cmd = m.Input.Update(msg)
	case PaneCode:
		m.Code, cmd = m.Code.Update(msg)
	case PaneTests:
		m.Tests, cmd = m.Tests.Update(msg)
	default:
		cmd = nil
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.Running() {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextPane):
		m.setPane((m.pane + 1) % paneCount)
		cmd := m.focusPane()
		return m, cmd

	case key.Matches(msg, m.keys.PrevPane):
		m.setPane((m.pane + paneCount - 1) % paneCount)
		cmd := m.focusPane()
		return m, cmd

	case key.Matches(msg, m.keys.RunTests):
		return m.runTests()

	case key.Matches(msg, m.keys.Clear):
		m.conv.Clear()
		m.ran = false
		m.syncEditors()
		return m, nil

	case key.Matches(msg, m.keys.Language):
		m.cycleLanguage()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.pane {
	case PaneChat:
		if m.Running() {
			return m, nil
		}
		if key.Matches(msg, m.keys.Send) {
			if strings.TrimSpace(m.Input.Value()) == "" {
				return m, nil
			}
			return m.submit(m.Input.Value())
		}
		m.Input, cmd = m.Input.Update(msg)

	case PaneGenerated:
		switch {
		case key.Matches(msg, m.keys.QuickSubmit):
			if m.Running() {
				return m, nil
			}
			return m.submit("Submit")
		case key.Matches(msg, m.keys.Version1):
			m.setVersion(tdd.SlotV1)
		case key.Matches(msg, m.keys.Version2):
			m.setVersion(tdd.SlotV2)
		case key.Matches(msg, m.keys.Version3):
			m.setVersion(tdd.SlotV3)
		}

	case PaneCode:
		m.Code, cmd = m.Code.Update(msg)
		if v := m.Code.Value(); v != m.conv.Code() {
			m.conv.SetCode(v)
		}

	case PaneTests:
		m.Tests, cmd = m.Tests.Update(msg)
		m.conv.SetTestCode(m.Tests.Value())
	}
	return m, cmd
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	req, err := m.conv.Submit(text)
	if err != nil {
		m.err = err
		m.refreshChat()
		return m, nil
	}
	m.Input.SetValue("")
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan tdd.Event, 256)
	m.doneCh = make(chan error, 1)
	m.refreshChat()

	return m, tea.Batch(
		startChat(m.chat, ctx, req, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) runTests() (tea.Model, tea.Cmd) {
	if m.exec == nil || m.executing {
		return m, nil
	}
	req := m.conv.ExecutionRequest()
	m.executing = true
	return m, runTests(m.exec, req)
}

func (m *Model) cycleLanguage() {
	langs := tdd.Languages()
	next := langs[(slices.Index(langs, m.conv.Language())+1)%len(langs)]
	if err := m.conv.SetLanguage(next); err != nil {
		m.err = err
		return
	}
	m.syncEditors()
}

func (m *Model) setVersion(id tdd.SlotID) {
	if err := m.conv.SetVersion(id); err != nil {
		m.err = err
		return
	}
	m.syncEditors()
}

func (m *Model) setPane(p Pane) {
	m.pane = p
	if p != PaneChat {
		m.panel = p
	}
}

func (m *Model) focusPane() tea.Cmd {
	m.Input.Blur()
	m.Code.Blur()
	m.Tests.Blur()
	switch m.pane {
	case PaneChat:
		return m.Input.Focus()
	case PaneCode:
		return m.Code.Focus()
	case PaneTests:
		return m.Tests.Focus()
	}
	return nil
}

// syncEditors loads the conversation's code into the editors.
func (m *Model) syncEditors() {
	if m.Code.Value() != m.conv.Code() {
		m.Code.SetValue(m.conv.Code())
	}
	if m.Tests.Value() != m.conv.TestCode() {
		m.Tests.SetValue(m.conv.TestCode())
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	l := newLayout(width, height)
	if !m.ready {
		m.Viewport = viewport.New(l.chatW, l.chatH)
		m.ready = true
	} else {
		m.Viewport.Width = l.chatW
		m.Viewport.Height = l.chatH
	}
	m.Input.Width = l.chatW
	m.Code.SetWidth(l.panelW)
	m.Code.SetHeight(l.editorH)
	m.Tests.SetWidth(l.panelW)
	m.Tests.SetHeight(l.editorH)
	m.refreshChat()
}

func (m *Model) refreshChat() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
}

func (m *Model) renderContent() string {
	w := m.Viewport.Width
	var parts []string
	for _, msg := range m.conv.Messages() {
		switch msg.Role {
		case tdd.RoleUser:
			parts = append(parts, NewUserMessageBlock(msg.Content, m.styles).View(w))
		case tdd.RoleAssistant:
			b, ok := m.assistant[msg.ID]
			if !ok {
				b = NewAssistantTextBlock(m.md)
				m.assistant[msg.ID] = b
			}
			b.SetText(msg.Content)
			parts = append(parts, b.View(w))
		}
	}
	if m.err != nil {
		parts = append(parts, NewErrorBlock(m.err, m.styles).View(w))
	}
	return strings.Join(parts, "\n\n")
}
