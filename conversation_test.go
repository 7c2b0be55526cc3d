package tdd_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/tdd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_Defaults(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()

	assert.Equal(t, tdd.SlotV1, c.Version())
	assert.Equal(t, tdd.DefaultLanguage, c.Language())
	assert.Equal(t, "// Write your TypeScript code here\n", c.Code())
	assert.Equal(t, tdd.OutputPlaceholder, c.Output())
	assert.False(t, c.Streaming())
	assert.Empty(t, c.Messages())
}

func TestConversation_Submit(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	req, err := c.Submit("  write a fizzbuzz  ")
	require.NoError(t, err)

	assert.True(t, c.Streaming())
	require.Len(t, req.Messages, 1)
	assert.Equal(t, tdd.RoleUser, req.Messages[0].Role)
	assert.Equal(t, "write a fizzbuzz", req.Messages[0].Content)
	assert.NotEmpty(t, req.Messages[0].ID)
	assert.Equal(t, tdd.LanguageTypeScript, req.Language)
}

func TestConversation_SubmitRejectsEmpty(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	_, err := c.Submit("   ")

	assert.ErrorIs(t, err, tdd.ErrValidation)
	assert.False(t, c.Streaming())
}

func TestConversation_SingleFlight(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	_, err := c.Submit("first")
	require.NoError(t, err)

	_, err = c.Submit("second")
	assert.True(t, errors.Is(err, tdd.ErrTurnInProgress))
	assert.Len(t, c.Messages(), 1)

	require.NoError(t, c.EndTurn())
	_, err = c.Submit("second")
	assert.NoError(t, err)
}

func TestConversation_EndTurnWithoutTurn(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	assert.ErrorIs(t, c.EndTurn(), tdd.ErrNoTurn)
}

func TestConversation_OnProseUpdateReplacesWithinTurn(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	_, err := c.Submit("hi")
	require.NoError(t, err)

	c.OnProseUpdate("He")
	c.OnProseUpdate("Hello")
	c.OnProseUpdate("Hello there")

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, tdd.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hello there", msgs[1].Content)
}

func TestConversation_NewTurnGetsNewAssistantMessage(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	_, err := c.Submit("one")
	require.NoError(t, err)
	c.OnProseUpdate("first answer")
	require.NoError(t, c.EndTurn())

	req, err := c.Submit("two")
	require.NoError(t, err)
	c.OnProseUpdate("second answer")

	msgs := c.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "first answer", msgs[1].Content)
	assert.Equal(t, "second answer", msgs[3].Content)
	assert.Len(t, req.Messages, 3)
}

func TestConversation_CodeBlockOverwritesActiveSlot(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	c.OnCodeBlockComplete("a = 1\n", "python")
	c.OnCodeBlockComplete("a = 2\n", "python")

	slot, ok := c.Slot(tdd.SlotV1)
	require.True(t, ok)
	assert.Equal(t, tdd.CodeSlot{Code: "a = 2\n", Language: "python"}, slot)
	assert.Equal(t, "a = 2\n", c.Code())
	assert.Equal(t, tdd.LanguagePython, c.Language())

	_, ok = c.Slot(tdd.SlotV2)
	assert.False(t, ok)
}

func TestConversation_UnknownFenceKeepsLanguage(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	c.OnCodeBlockComplete("fn main() {}\n", "rust")

	assert.Equal(t, tdd.LanguageTypeScript, c.Language())
	slot, ok := c.Slot(tdd.SlotV1)
	require.True(t, ok)
	assert.Equal(t, "rust", slot.Language)
}

func TestConversation_VersionSlots(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	c.OnCodeBlockComplete("v1 code\n", "ts")
	require.NoError(t, c.SetVersion(tdd.SlotV2))
	c.OnCodeBlockComplete("v2 code\n", "ts")

	assert.Equal(t, "v2 code\n", c.Code())
	require.NoError(t, c.SetVersion(tdd.SlotV1))
	assert.Equal(t, "v1 code\n", c.Code())

	assert.ErrorIs(t, c.SetVersion("v9"), tdd.ErrValidation)
	assert.Equal(t, tdd.SlotV1, c.Version())
}

func TestConversation_SetLanguageResetsToPlaceholder(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	c.SetCode("console.log(1)\n")
	require.NoError(t, c.SetLanguage(tdd.LanguagePython))

	assert.Equal(t, "# Write your Python code here\n", c.Code())
	assert.ErrorIs(t, c.SetLanguage("cobol"), tdd.ErrValidation)
	assert.Equal(t, tdd.LanguagePython, c.Language())
}

func TestConversation_Clear(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	c.SetCode("let x = 1;\n")
	c.SetExecutionResult(tdd.ExecutionResult{Stdout: "ok"})
	c.Clear()

	assert.Equal(t, tdd.LanguageTypeScript.Placeholder(), c.Code())
	assert.Equal(t, tdd.OutputPlaceholder, c.Output())
}

func TestConversation_ExecutionFlow(t *testing.T) {
	t.Parallel()

	c := tdd.NewConversation()
	c.SetCode("export const f = () => 1;\n")
	c.SetTestCode("test('f', () => expect(f()).toBe(1));\n")

	req := c.ExecutionRequest()
	assert.Equal(t, tdd.ExecutionRequest{
		Language:           tdd.LanguageTypeScript,
		ImplementationCode: "export const f = () => 1;\n",
		TestCode:           "test('f', () => expect(f()).toBe(1));\n",
	}, req)
	assert.Equal(t, tdd.RunningOutput, c.Output())

	c.SetExecutionResult(tdd.ExecutionResult{ExitCode: 0, Stdout: "3 passed"})
	assert.Equal(t, "3 passed", c.Output())

	c.SetExecutionResult(tdd.ExecutionResult{ExitCode: 1, Stderr: "AssertionError"})
	assert.Equal(t, "Error: AssertionError", c.Output())

	c.SetExecutionError(errors.New("network error"))
	assert.Equal(t, "Error: network error", c.Output())
}
