package tdd_test

import (
	"testing"

	"github.com/fwojciec/tdd"
	"github.com/stretchr/testify/assert"
)

func TestExecutionResult_Output(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result tdd.ExecutionResult
		want   string
		failed bool
	}{
		{"passing run shows stdout", tdd.ExecutionResult{Stdout: "3 passed"}, "3 passed", false},
		{"failing run shows stderr", tdd.ExecutionResult{ExitCode: 1, Stderr: "AssertionError"}, "Error: AssertionError", true},
		{"error field wins over stderr", tdd.ExecutionResult{ExitCode: 1, Stderr: "trace", Error: "compile failed"}, "Error: compile failed", true},
		{"error field with zero exit", tdd.ExecutionResult{Error: "timeout"}, "Error: timeout", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.Output())
			assert.Equal(t, tt.failed, tt.result.Failed())
		})
	}
}

func TestExecutionRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, tdd.ExecutionRequest{Language: tdd.LanguageJava, TestCode: "x"}.Validate())
	assert.ErrorIs(t, tdd.ExecutionRequest{Language: tdd.LanguageJava}.Validate(), tdd.ErrValidation)
	assert.ErrorIs(t, tdd.ExecutionRequest{Language: "go", TestCode: "x"}.Validate(), tdd.ErrValidation)
}
