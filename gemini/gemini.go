// Package gemini implements [tdd.Transport] directly against the Google
// Gemini API, for use without the assistant server.
//
// It wraps the google.golang.org/genai SDK. Streaming uses the SDK's
// iter.Seq2 iterator, wrapped into the pull-based [tdd.RecordStream]
// interface. Markdown code fences in the model output are turned into
// code_start and code_end records, so the rest of the client sees the same
// protocol the server speaks.
package gemini

const (
	defaultModel     = "gemini-2.5-pro"
	defaultMaxTokens = 16384
)

// systemPrompt frames the model as a test-driven development assistant.
const systemPrompt = `You are a test-driven development assistant.
Help the user write tests first and then the implementation that makes them pass.
Put every code sample in a fenced code block tagged with its language.
Keep implementation and test code in separate blocks.`
