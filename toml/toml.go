// Package toml loads the tdd configuration file using BurntSushi/toml.
package toml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/tdd"
)

// Environment variables that override the file.
const (
	EnvBaseURL     = "TDD_BASE_URL"
	EnvFraming     = "TDD_FRAMING"
	EnvLanguage    = "TDD_LANGUAGE"
	EnvProvider    = "TDD_PROVIDER"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvGeminiModel = "TDD_GEMINI_MODEL"
)

// file mirrors the on-disk layout.
type file struct {
	BaseURL     string     `toml:"base_url,omitempty"`
	Framing     string     `toml:"framing,omitempty"`
	Language    string     `toml:"language,omitempty"`
	IdleTimeout string     `toml:"idle_timeout,omitempty"`
	Provider    string     `toml:"provider,omitempty"`
	LogPath     string     `toml:"log_path,omitempty"`
	Gemini      geminiFile `toml:"gemini"`
}

type geminiFile struct {
	APIKey string `toml:"api_key,omitempty"`
	Model  string `toml:"model,omitempty"`
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("toml: %w", err)
	}
	return filepath.Join(dir, "tdd", "config.toml"), nil
}

// Load returns the default configuration overlaid with the file at path and
// the environment, validated. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (tdd.Config, error) {
	cfg := tdd.DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return tdd.Config{}, err
		}
		path = p
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := Decode(f, &cfg); err != nil {
			return tdd.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return tdd.Config{}, fmt.Errorf("toml: %w", err)
	}

	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return tdd.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return tdd.Config{}, fmt.Errorf("toml: %w", err)
	}
	return cfg, nil
}

// Decode overlays the TOML document read from r onto cfg. Keys that are
// absent leave cfg unchanged; unknown keys are an error.
func Decode(r io.Reader, cfg *tdd.Config) error {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return fmt.Errorf("toml: unknown keys %s: %w", strings.Join(keys, ", "), tdd.ErrValidation)
	}

	setString(&cfg.BaseURL, f.BaseURL)
	setString(&cfg.Framing, f.Framing)
	setString(&cfg.Provider, f.Provider)
	setString(&cfg.LogPath, f.LogPath)
	setString(&cfg.Gemini.APIKey, f.Gemini.APIKey)
	setString(&cfg.Gemini.Model, f.Gemini.Model)
	if f.Language != "" {
		l, err := tdd.ParseLanguage(f.Language)
		if err != nil {
			return fmt.Errorf("toml: %w", err)
		}
		cfg.Language = l
	}
	if f.IdleTimeout != "" {
		d, err := time.ParseDuration(f.IdleTimeout)
		if err != nil {
			return fmt.Errorf("toml: idle_timeout: %w: %w", err, tdd.ErrValidation)
		}
		cfg.IdleTimeout = d
	}
	return nil
}

// ApplyEnv overrides cfg with the non-empty environment variables returned
// by getenv.
func ApplyEnv(cfg *tdd.Config, getenv func(string) string) error {
	setString(&cfg.BaseURL, getenv(EnvBaseURL))
	setString(&cfg.Framing, getenv(EnvFraming))
	setString(&cfg.Provider, getenv(EnvProvider))
	setString(&cfg.Gemini.APIKey, getenv(EnvGeminiKey))
	setString(&cfg.Gemini.Model, getenv(EnvGeminiModel))
	if v := getenv(EnvLanguage); v != "" {
		l, err := tdd.ParseLanguage(v)
		if err != nil {
			return fmt.Errorf("toml: %s: %w", EnvLanguage, err)
		}
		cfg.Language = l
	}
	return nil
}

// Encode writes cfg as TOML. The Gemini API key is never written.
func Encode(w io.Writer, cfg tdd.Config) error {
	f := file{
		BaseURL:  cfg.BaseURL,
		Framing:  cfg.Framing,
		Language: string(cfg.Language),
		Provider: cfg.Provider,
		LogPath:  cfg.LogPath,
		Gemini:   geminiFile{Model: cfg.Gemini.Model},
	}
	if cfg.IdleTimeout > 0 {
		f.IdleTimeout = cfg.IdleTimeout.String()
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
