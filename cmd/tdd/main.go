// Command tdd is a terminal client for a streaming test-driven development
// assistant.
//
// Usage:
//
//	tdd [flags]                          interactive TUI
//	tdd ask [flags] PROMPT...            stream one turn to stdout
//	tdd run --impl GLOB --test GLOB      run tests on the server
//	tdd config                           print the effective configuration
//
// Global flags:
//
//	--config string     Config file (default: $XDG_CONFIG_HOME/tdd/config.toml)
//	--base-url string   Assistant server URL
//	--provider string   Transport: api, gemini
//	--language string   Editor language (typescript, javascript, python, java, csharp)
//	--framing string    Chat stream framing: ndjson, sse
//	--debug             Write JSON logs to the log file (also TDD_DEBUG=1)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fwojciec/tdd"
	"github.com/fwojciec/tdd/toml"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tdd: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// options holds the global flags.
type options struct {
	configPath string
	baseURL    string
	provider   string
	language   string
	framing    string
	debug      bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "tdd",
		Short:         "Test-driven development with a streaming assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, cmd.InOrStdin())
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file")
	flags.StringVar(&opts.baseURL, "base-url", "", "Assistant server URL")
	flags.StringVar(&opts.provider, "provider", "", "Transport: api, gemini")
	flags.StringVar(&opts.language, "language", "", "Editor language")
	flags.StringVar(&opts.framing, "framing", "", "Chat stream framing: ndjson, sse")
	flags.BoolVar(&opts.debug, "debug", false, "Write JSON logs to the log file")

	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// loadConfig reads the config file and environment, then applies the flags.
func (o *options) loadConfig() (tdd.Config, error) {
	cfg, err := toml.Load(o.configPath)
	if err != nil {
		return tdd.Config{}, err
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.framing != "" {
		cfg.Framing = o.framing
	}
	if o.language != "" {
		l, err := tdd.ParseLanguage(o.language)
		if err != nil {
			return tdd.Config{}, err
		}
		cfg.Language = l
	}
	if err := cfg.Validate(); err != nil {
		return tdd.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return toml.Encode(cmd.OutOrStdout(), cfg)
		},
	}
}
