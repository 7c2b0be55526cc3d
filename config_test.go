package tdd_test

import (
	"testing"
	"time"

	"github.com/fwojciec/tdd"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := tdd.DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, tdd.FramingNDJSON, cfg.Framing)
	assert.Zero(t, cfg.IdleTimeout)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*tdd.Config)
		ok     bool
	}{
		{"sse framing", func(c *tdd.Config) { c.Framing = tdd.FramingSSE }, true},
		{"idle timeout", func(c *tdd.Config) { c.IdleTimeout = 30 * time.Second }, true},
		{"gemini with key", func(c *tdd.Config) { c.Provider = tdd.ProviderGemini; c.Gemini.APIKey = "k" }, true},
		{"relative base url", func(c *tdd.Config) { c.BaseURL = "/api" }, false},
		{"unknown framing", func(c *tdd.Config) { c.Framing = "xml" }, false},
		{"unknown language", func(c *tdd.Config) { c.Language = "go" }, false},
		{"negative idle timeout", func(c *tdd.Config) { c.IdleTimeout = -time.Second }, false},
		{"gemini without key", func(c *tdd.Config) { c.Provider = tdd.ProviderGemini }, false},
		{"unknown provider", func(c *tdd.Config) { c.Provider = "openai" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tdd.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tdd.ErrValidation)
		})
	}
}
