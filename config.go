package tdd

import (
	"fmt"
	"net/url"
	"time"
)

// Providers selectable in Config.Provider.
const (
	ProviderAPI    = "api"
	ProviderGemini = "gemini"
)

// Framings selectable in Config.Framing.
const (
	FramingNDJSON = "ndjson"
	FramingSSE    = "sse"
)

// DefaultBaseURL is the assistant server the client talks to when nothing
// else is configured.
const DefaultBaseURL = "http://localhost:8000"

// Config holds the client configuration.
type Config struct {
	BaseURL     string
	Framing     string
	Language    Language
	IdleTimeout time.Duration
	Provider    string
	Gemini      GeminiConfig
	LogPath     string
}

// GeminiConfig configures the direct Gemini transport.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Framing:  FramingNDJSON,
		Language: DefaultLanguage,
		Provider: ProviderAPI,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, ErrValidation)
	}
	switch c.Framing {
	case FramingNDJSON, FramingSSE:
	default:
		return fmt.Errorf("unknown framing %q: %w", c.Framing, ErrValidation)
	}
	if err := c.Language.Validate(); err != nil {
		return err
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("negative idle timeout: %w", ErrValidation)
	}
	switch c.Provider {
	case ProviderAPI:
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini provider requires an API key: %w", ErrValidation)
		}
	default:
		return fmt.Errorf("unknown provider %q: %w", c.Provider, ErrValidation)
	}
	return nil
}
