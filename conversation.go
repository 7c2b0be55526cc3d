package tdd

import (
	"context"
	"fmt"
	"strings"

	"github.com/looplab/fsm"
)

// Turn lifecycle states and events.
const (
	turnIdle      = "idle"
	turnStreaming = "streaming"

	eventSubmit = "submit"
	eventFinish = "finish"
)

// OutputPlaceholder is shown in the output panel before any run.
const OutputPlaceholder = "No output yet"

// RunningOutput is shown in the output panel while tests execute.
const RunningOutput = "Running tests..."

// Interface compliance check.
var _ Sink = (*Conversation)(nil)

// Conversation is the UI store: chat history, generated-code slots, the test
// buffer, the editor language and the output panel text. At most one turn
// streams at a time.
//
// Conversation has a single writer and is not safe for concurrent use.
type Conversation struct {
	messages  []Message
	assistant int // index of this turn's assistant message, -1 = none yet

	slots    map[SlotID]CodeSlot
	version  SlotID
	language Language
	testCode string
	output   string

	turn *fsm.FSM
}

// NewConversation creates an empty conversation editing slot v1 in the
// default language.
func NewConversation() *Conversation {
	return &Conversation{
		assistant: -1,
		slots:     make(map[SlotID]CodeSlot),
		version:   SlotV1,
		language:  DefaultLanguage,
		turn: fsm.NewFSM(
			turnIdle,
			fsm.Events{
				{Name: eventSubmit, Src: []string{turnIdle}, Dst: turnStreaming},
				{Name: eventFinish, Src: []string{turnStreaming}, Dst: turnIdle},
			},
			fsm.Callbacks{},
		),
	}
}

// Messages returns a copy of the chat history.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Streaming reports whether a turn is in flight.
func (c *Conversation) Streaming() bool {
	return c.turn.Current() == turnStreaming
}

// Submit appends a user message and starts a turn. It returns the request
// to send, or ErrTurnInProgress while another turn is streaming.
func (c *Conversation) Submit(text string) (ChatRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatRequest{}, fmt.Errorf("empty message: %w", ErrValidation)
	}
	if err := c.turn.Event(context.Background(), eventSubmit); err != nil {
		return ChatRequest{}, ErrTurnInProgress
	}
	c.messages = append(c.messages, NewMessage(RoleUser, text))
	c.assistant = -1
	return c.Request(), nil
}

// EndTurn marks the in-flight turn as finished.
func (c *Conversation) EndTurn() error {
	if err := c.turn.Event(context.Background(), eventFinish); err != nil {
		return ErrNoTurn
	}
	c.assistant = -1
	return nil
}

// Request builds a chat request from the current history and editor
// language.
func (c *Conversation) Request() ChatRequest {
	return ChatRequest{
		Messages: c.Messages(),
		Language: c.language,
	}
}

// OnProseUpdate implements Sink. The first call of a turn creates the
// assistant message; later calls replace its content.
func (c *Conversation) OnProseUpdate(text string) {
	if c.assistant >= 0 {
		c.messages[c.assistant].Content = text
		return
	}
	c.messages = append(c.messages, NewMessage(RoleAssistant, text))
	c.assistant = len(c.messages) - 1
}

// OnCodeBlockComplete implements Sink. The block overwrites the active slot.
// A fence tag that maps to a supported language switches the editor to it.
func (c *Conversation) OnCodeBlockComplete(code, language string) {
	c.slots[c.version] = CodeSlot{Code: code, Language: language}
	if l, ok := LanguageForFence(language); ok {
		c.language = l
	}
}

// Version returns the active slot.
func (c *Conversation) Version() SlotID { return c.version }

// SetVersion switches the active slot.
func (c *Conversation) SetVersion(id SlotID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.version = id
	return nil
}

// Slot returns the content of slot id and whether it holds code.
func (c *Conversation) Slot(id SlotID) (CodeSlot, bool) {
	s, ok := c.slots[id]
	return s, ok && s.Code != ""
}

// Language returns the editor language.
func (c *Conversation) Language() Language { return c.language }

// SetLanguage switches the editor language and resets the active slot to
// the language placeholder.
func (c *Conversation) SetLanguage(l Language) error {
	if err := l.Validate(); err != nil {
		return err
	}
	c.language = l
	delete(c.slots, c.version)
	return nil
}

// Code returns the implementation code of the active slot, or the language
// placeholder when the slot is empty.
func (c *Conversation) Code() string {
	if s, ok := c.Slot(c.version); ok {
		return s.Code
	}
	return c.language.Placeholder()
}

// SetCode stores an edit of the active slot.
func (c *Conversation) SetCode(code string) {
	s := c.slots[c.version]
	s.Code = code
	c.slots[c.version] = s
}

// TestCode returns the test buffer.
func (c *Conversation) TestCode() string { return c.testCode }

// SetTestCode stores an edit of the test buffer.
func (c *Conversation) SetTestCode(code string) { c.testCode = code }

// Clear resets the active slot to the placeholder and empties the output.
func (c *Conversation) Clear() {
	delete(c.slots, c.version)
	c.output = ""
}

// Output returns the output panel text.
func (c *Conversation) Output() string {
	if c.output == "" {
		return OutputPlaceholder
	}
	return c.output
}

// ExecutionRequest builds the request for a test run from the active slot
// and the test buffer, and marks the output panel as running.
func (c *Conversation) ExecutionRequest() ExecutionRequest {
	c.output = RunningOutput
	return ExecutionRequest{
		Language:           c.language,
		ImplementationCode: c.Code(),
		TestCode:           c.testCode,
	}
}

// SetExecutionResult shows the outcome of a test run in the output panel.
func (c *Conversation) SetExecutionResult(r ExecutionResult) {
	c.output = r.Output()
}

// SetExecutionError shows an infrastructure failure of a test run.
func (c *Conversation) SetExecutionError(err error) {
	c.output = "Error: " + err.Error()
}
