package tdd

import "fmt"

// ValidateMessage checks that a message has a known role. Assistant messages
// may be empty (a turn that produced no prose); user and system messages may
// not.
func ValidateMessage(msg Message) error {
	if err := msg.Role.Validate(); err != nil {
		return err
	}
	if msg.Content == "" && msg.Role != RoleAssistant {
		return fmt.Errorf("%s message has empty content: %w", msg.Role, ErrValidation)
	}
	return nil
}
