package tdd

import (
	"context"
	"fmt"
)

// ExecutionRequest asks the code endpoint to run test code against an
// implementation.
type ExecutionRequest struct {
	Language           Language
	ImplementationCode string
	TestCode           string
}

// Validate checks universal constraints on ExecutionRequest.
func (r ExecutionRequest) Validate() error {
	if err := r.Language.Validate(); err != nil {
		return err
	}
	if r.ImplementationCode == "" && r.TestCode == "" {
		return fmt.Errorf("nothing to execute: %w", ErrValidation)
	}
	return nil
}

// ExecutionResult is the outcome reported by the code endpoint. A failed run
// is a result, not an error: see Failed.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Error    string
}

// Failed reports whether the tests failed: a non-zero exit code or an error
// field.
func (r ExecutionResult) Failed() bool {
	return r.ExitCode != 0 || r.Error != ""
}

// Output returns the text shown in the output panel: stdout on success,
// "Error: " followed by the error field (or stderr) on failure.
func (r ExecutionResult) Output() string {
	if !r.Failed() {
		return r.Stdout
	}
	if r.Error != "" {
		return "Error: " + r.Error
	}
	return "Error: " + r.Stderr
}

// Executor runs code remotely. Execute returns error for infrastructure
// failures only; test failures are reported through ExecutionResult.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (ExecutionResult, error)
}
