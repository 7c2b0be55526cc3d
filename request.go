package tdd

import "fmt"

// ChatRequest is the body of a chat call: the prior conversation and an
// optional editor language hint.
type ChatRequest struct {
	Messages []Message
	Language Language // empty = no hint
}

// Validate checks universal constraints on ChatRequest.
func (r ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages must not be empty: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if err := ValidateMessage(m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	if r.Language != "" {
		if err := r.Language.Validate(); err != nil {
			return err
		}
	}
	return nil
}
