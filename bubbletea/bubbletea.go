// Package bubbletea provides a Bubble Tea TUI for the tdd assistant: a chat
// pane on the left and the code workspace (generated code, implementation
// and test editors, test output) on the right.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tdd"
)

// ChatFunc runs one chat turn. Sink receives prose and code updates and
// onEvent receives every event, including the final termination. The
// function blocks until the turn ends or ctx is cancelled.
type ChatFunc func(ctx context.Context, req tdd.ChatRequest, sink tdd.Sink, onEvent func(tdd.Event)) error

// Markdown renders assistant prose for a given width.
type Markdown interface {
	Render(source string, width int) string
}

// Highlighter colors generated code.
type Highlighter interface {
	Highlight(code, language string) string
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a turn event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event tdd.Event
}

// TurnDoneMsg signals that the chat turn has completed.
type TurnDoneMsg struct {
	Err error
}

// ExecDoneMsg carries the outcome of a test run.
type ExecDoneMsg struct {
	Result tdd.ExecutionResult
	Err    error
}

// forwardSink turns sink calls into events so the conversation is only
// touched from the Bubble Tea loop.
type forwardSink func(tdd.Event)

func (f forwardSink) OnProseUpdate(text string) {
	f(tdd.EventProseUpdate{Text: text})
}

func (f forwardSink) OnCodeBlockComplete(code, language string) {
	f(tdd.EventCodeBlockComplete{Code: code, Language: language})
}

// startChat runs the turn in a goroutine and signals completion.
func startChat(run ChatFunc, ctx context.Context, req tdd.ChatRequest, eventCh chan<- tdd.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		send := func(e tdd.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		}
		// Prose and code reach the model through the sink; the handler
		// only adds the termination event.
		err := run(ctx, req, forwardSink(send), func(e tdd.Event) {
			if t, ok := e.(tdd.EventStreamTerminated); ok {
				send(t)
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns TurnDoneMsg.
func listenForEvent(ch <-chan tdd.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return TurnDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}

func runTests(exec tdd.Executor, req tdd.ExecutionRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := exec.Execute(context.Background(), req)
		return ExecDoneMsg{Result: res, Err: err}
	}
}
