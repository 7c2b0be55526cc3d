package tdd

// Usage carries the optional token counters reported by a start record.
// Zero means the server did not report the counter.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
