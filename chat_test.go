package tdd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/tdd"
	"github.com/fwojciec/tdd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRequest(text string) tdd.ChatRequest {
	return tdd.ChatRequest{
		Messages: []tdd.Message{tdd.NewMessage(tdd.RoleUser, text)},
		Language: tdd.LanguagePython,
	}
}

func transportOf(recs ...tdd.Record) *mock.Transport {
	return &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			return mock.Records(recs...), nil
		},
	}
}

func TestChat_Run_PythonScenario(t *testing.T) {
	t.Parallel()

	conv := tdd.NewConversation()
	req, err := conv.Submit("write f")
	require.NoError(t, err)

	var events []tdd.Event
	s, err := tdd.NewChat(transportOf(pythonTurn()...)).Run(
		context.Background(), req, conv,
		tdd.WithEventHandler(func(e tdd.Event) { events = append(events, e) }),
	)
	require.NoError(t, err)
	require.NoError(t, conv.EndTurn())

	assert.True(t, s.Terminal)
	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, tdd.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Heredef f():\n  return 1\n Done.", msgs[1].Content)

	slot, ok := conv.Slot(tdd.SlotV1)
	require.True(t, ok)
	assert.Equal(t, tdd.CodeSlot{Code: "def f():\n  return 1\n", Language: "python"}, slot)
	assert.Equal(t, tdd.LanguagePython, conv.Language())

	require.NotEmpty(t, events)
	assert.Equal(t, tdd.EventStreamTerminated{FinishReason: tdd.FinishStop}, events[len(events)-1])
}

func TestChat_Run_ForwardsRequest(t *testing.T) {
	t.Parallel()

	var got tdd.ChatRequest
	tr := &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			got = req
			return mock.Records(tdd.RecordDone{FinishReason: tdd.FinishStop}), nil
		},
	}
	req := userRequest("hi")
	_, err := tdd.NewChat(tr).Run(context.Background(), req, &mock.Sink{})
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestChat_Run_InvalidRequest(t *testing.T) {
	t.Parallel()

	_, err := tdd.NewChat(&mock.Transport{}).Run(context.Background(), tdd.ChatRequest{}, &mock.Sink{})
	assert.ErrorIs(t, err, tdd.ErrValidation)
}

func TestChat_Run_TransportErrorShowsApology(t *testing.T) {
	t.Parallel()

	tr := &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			return nil, tdd.ErrNetwork
		},
	}
	var prose []string
	sink := &mock.Sink{OnProseUpdateFn: func(text string) { prose = append(prose, text) }}

	_, err := tdd.NewChat(tr).Run(context.Background(), userRequest("hi"), sink)

	assert.ErrorIs(t, err, tdd.ErrNetwork)
	assert.Equal(t, []string{tdd.ApologyMessage}, prose)
}

func TestChat_Run_ErrorRecord(t *testing.T) {
	t.Parallel()

	var prose string
	sink := &mock.Sink{OnProseUpdateFn: func(text string) { prose = text }}

	_, err := tdd.NewChat(transportOf(
		tdd.RecordToken{Text: "Working"},
		tdd.RecordError{Message: "model overloaded", Code: "overloaded"},
		tdd.RecordToken{Text: " more"},
	)).Run(context.Background(), userRequest("hi"), sink)

	var se *tdd.StreamError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "overloaded", se.Code)
	assert.Equal(t, "Working\n\nError: model overloaded", prose)
}

func TestChat_Run_EOFWithoutDone(t *testing.T) {
	t.Parallel()

	var prose string
	sink := &mock.Sink{OnProseUpdateFn: func(text string) { prose = text }}
	var last tdd.Event

	s, err := tdd.NewChat(transportOf(tdd.RecordToken{Text: "partial"})).Run(
		context.Background(), userRequest("hi"), sink,
		tdd.WithEventHandler(func(e tdd.Event) { last = e }),
	)

	assert.ErrorIs(t, err, tdd.ErrProtocol)
	assert.True(t, s.Terminal)
	assert.Equal(t, "partial", prose)
	term, ok := last.(tdd.EventStreamTerminated)
	require.True(t, ok)
	assert.ErrorIs(t, term.Err, tdd.ErrProtocol)
}

func TestChat_Run_MidStreamFailureKeepsProse(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("connection reset")
	calls := 0
	tr := &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			return &mock.RecordStream{NextFn: func() (tdd.Record, error) {
				calls++
				if calls == 1 {
					return tdd.RecordToken{Text: "half"}, nil
				}
				return nil, wantErr
			}}, nil
		},
	}
	var prose []string
	sink := &mock.Sink{OnProseUpdateFn: func(text string) { prose = append(prose, text) }}

	_, err := tdd.NewChat(tr).Run(context.Background(), userRequest("hi"), sink)

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, []string{"half"}, prose)
}

func TestChat_Run_ClosesStream(t *testing.T) {
	t.Parallel()

	closed := false
	tr := &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			s := mock.Records(tdd.RecordDone{FinishReason: tdd.FinishStop})
			s.CloseFn = func() error {
				closed = true
				return nil
			}
			return s, nil
		},
	}
	_, err := tdd.NewChat(tr).Run(context.Background(), userRequest("hi"), &mock.Sink{})
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestChat_Run_NonStopFinishIsNotAnError(t *testing.T) {
	t.Parallel()

	s, err := tdd.NewChat(transportOf(
		tdd.RecordToken{Text: "cut"},
		tdd.RecordDone{FinishReason: tdd.FinishLength},
	)).Run(context.Background(), userRequest("hi"), &mock.Sink{})

	require.NoError(t, err)
	assert.Equal(t, "cut", s.Prose)
}

func TestChat_Run_IdleTimeout(t *testing.T) {
	t.Parallel()

	tr := &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			sent := false
			return &mock.RecordStream{NextFn: func() (tdd.Record, error) {
				if !sent {
					sent = true
					return tdd.RecordToken{Text: "thinking"}, nil
				}
				<-ctx.Done()
				return nil, ctx.Err()
			}}, nil
		},
	}
	var prose string
	sink := &mock.Sink{OnProseUpdateFn: func(text string) { prose = text }}

	s, err := tdd.NewChat(tr, tdd.WithIdleTimeout(20*time.Millisecond)).Run(
		context.Background(), userRequest("hi"), sink,
	)

	assert.ErrorIs(t, err, tdd.ErrIdleTimeout)
	assert.True(t, s.Terminal)
	assert.Equal(t, "thinking\n\nError: stream idle timeout", prose)
}

func TestChat_Run_CallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	tr := &mock.Transport{
		ChatFn: func(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
			return &mock.RecordStream{NextFn: func() (tdd.Record, error) {
				cancel()
				<-ctx.Done()
				return nil, ctx.Err()
			}}, nil
		},
	}

	_, err := tdd.NewChat(tr).Run(ctx, userRequest("hi"), &mock.Sink{})
	assert.ErrorIs(t, err, context.Canceled)
}
