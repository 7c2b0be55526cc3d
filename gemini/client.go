package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/tdd"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ tdd.Transport = (*Client)(nil)

// Client implements [tdd.Transport] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-pro.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger for finish-reason diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Chat sends a streaming request to the Gemini API and returns a
// [tdd.RecordStream] of protocol records.
func (c *Client) Chat(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	contents := ConvertMessages(req.Messages)
	config := BuildConfig(req)

	seq := c.client.Models.GenerateContentStream(ctx, c.model, contents, config)
	return newStream(ctx, seq, c.logger), nil
}

// BuildConfig returns the generation config for req: the assistant system
// prompt, any system messages of the conversation and the language hint.
// Exported for testing.
func BuildConfig(req tdd.ChatRequest) *genai.GenerateContentConfig {
	parts := []*genai.Part{{Text: systemPrompt}}
	for _, m := range req.Messages {
		if m.Role == tdd.RoleSystem {
			parts = append(parts, &genai.Part{Text: m.Content})
		}
	}
	if req.Language != "" {
		parts = append(parts, &genai.Part{
			Text: fmt.Sprintf("The user's editor language is %s. Write code in %s unless asked otherwise.",
				req.Language.Label(), req.Language.Label()),
		})
	}
	return &genai.GenerateContentConfig{
		MaxOutputTokens:   defaultMaxTokens,
		SystemInstruction: &genai.Content{Parts: parts},
	}
}

// ConvertMessages converts tdd Messages to genai Contents. System messages
// go into the system instruction instead (see BuildConfig); empty messages
// are skipped.
// Exported for testing.
func ConvertMessages(msgs []tdd.Message) []*genai.Content {
	var result []*genai.Content
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch m.Role {
		case tdd.RoleUser:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		case tdd.RoleAssistant:
			result = append(result, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	return result
}
