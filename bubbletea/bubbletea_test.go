package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tdd"
	bt "github.com/fwojciec/tdd/bubbletea"
	"github.com/fwojciec/tdd/mock"
	"github.com/stretchr/testify/require"
)

// initModel creates a model over a fresh conversation and sends a
// WindowSizeMsg to initialize the layout.
func initModel(t *testing.T, chat bt.ChatFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, chat, 100, 30, opts...)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, chat bt.ChatFunc, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(chat, tdd.NewConversation(), tdd.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// nopChat is a chat function that ends every turn immediately.
func nopChat(context.Context, tdd.ChatRequest, tdd.Sink, func(tdd.Event)) error {
	return nil
}

// chatWith runs each turn through a real tdd.Chat replaying recs.
func chatWith(recs ...tdd.Record) bt.ChatFunc {
	chat := tdd.NewChat(&mock.Transport{
		ChatFn: func(context.Context, tdd.ChatRequest) (tdd.RecordStream, error) {
			return mock.Records(recs...), nil
		},
	})
	return chatFunc(chat)
}

func chatFunc(chat *tdd.Chat) bt.ChatFunc {
	return func(ctx context.Context, req tdd.ChatRequest, sink tdd.Sink, onEvent func(tdd.Event)) error {
		_, err := chat.Run(ctx, req, sink, tdd.WithEventHandler(onEvent))
		return err
	}
}

func pythonTurn() []tdd.Record {
	return []tdd.Record{
		tdd.RecordStart{},
		tdd.RecordToken{Text: "Here is the test. "},
		tdd.RecordCodeStart{Language: "python"},
		tdd.RecordToken{Text: "def test_add():\n", InCode: true, Language: "python"},
		tdd.RecordToken{Text: "    assert add(1, 2) == 3\n", InCode: true, Language: "python"},
		tdd.RecordCodeEnd{},
		tdd.RecordToken{Text: " All done."},
		tdd.RecordDone{FinishReason: tdd.FinishStop},
	}
}
