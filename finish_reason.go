package tdd

// FinishReason indicates why the assistant stopped generating.
type FinishReason string

const (
	FinishStop         FinishReason = "stop"
	FinishLength       FinishReason = "length"
	FinishFunctionCall FinishReason = "function_call"
	FinishUserAbort    FinishReason = "user_abort"
)

// Known reports whether f is one of the finish reasons the chat endpoint
// documents.
func (f FinishReason) Known() bool {
	switch f {
	case FinishStop, FinishLength, FinishFunctionCall, FinishUserAbort:
		return true
	default:
		return false
	}
}
