package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tdd"
	"github.com/fwojciec/tdd/fs"
	"github.com/spf13/cobra"
)

// errTestsFailed is returned by a single run whose tests failed.
var errTestsFailed = errors.New("tests failed")

type runOptions struct {
	impl     []string
	tests    []string
	language string
	dir      string
	watch    bool
}

func newRunCmd(opts *options) *cobra.Command {
	var ro runOptions
	cmd := &cobra.Command{
		Use:   "run --impl GLOB --test GLOB",
		Short: "Run local tests against local code on the assistant server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			d, err := newDeps(cmd.Context(), cfg, opts.debug)
			if err != nil {
				return err
			}
			defer d.closeLog()
			r := &runner{
				exec:     d.executor,
				dir:      ro.dir,
				impl:     ro.impl,
				tests:    ro.tests,
				fallback: cfg.Language,
				out:      cmd.OutOrStdout(),
				logger:   d.logger,
			}
			if ro.language != "" {
				l, err := tdd.ParseLanguage(ro.language)
				if err != nil {
					return err
				}
				r.language = l
			}
			if ro.watch {
				return r.watch(cmd.Context())
			}
			return r.once(cmd.Context())
		},
	}
	cmd.Flags().StringArrayVar(&ro.impl, "impl", nil, "Implementation file glob (repeatable)")
	cmd.Flags().StringArrayVar(&ro.tests, "test", nil, "Test file glob (repeatable)")
	cmd.Flags().StringVar(&ro.language, "lang", "", "Language (default: from file extensions)")
	cmd.Flags().StringVar(&ro.dir, "dir", ".", "Root directory for globs")
	cmd.Flags().BoolVar(&ro.watch, "watch", false, "Re-run whenever a matching file changes")
	return cmd
}

// runner executes collected sources through an Executor.
type runner struct {
	exec     tdd.Executor
	dir      string
	impl     []string
	tests    []string
	language tdd.Language // explicit; empty = detect
	fallback tdd.Language
	out      io.Writer
	logger   *slog.Logger
}

// request collects sources and resolves the language: the explicit flag
// first, then file extensions, then the configured default.
func (r *runner) request() (tdd.ExecutionRequest, error) {
	impl, err := fs.Collect(r.dir, r.impl...)
	if err != nil {
		return tdd.ExecutionRequest{}, fmt.Errorf("implementation: %w", err)
	}
	tests, err := fs.Collect(r.dir, r.tests...)
	if err != nil {
		return tdd.ExecutionRequest{}, fmt.Errorf("tests: %w", err)
	}
	lang := r.language
	if lang == "" {
		if l, ok := impl.Language(); ok {
			lang = l
		} else if l, ok := tests.Language(); ok {
			lang = l
		} else {
			lang = r.fallback
		}
	}
	req := tdd.ExecutionRequest{
		Language:           lang,
		ImplementationCode: impl.Content,
		TestCode:           tests.Content,
	}
	return req, req.Validate()
}

// execute performs one run and prints its output.
func (r *runner) execute(ctx context.Context) (tdd.ExecutionResult, error) {
	req, err := r.request()
	if err != nil {
		return tdd.ExecutionResult{}, err
	}
	r.logger.Debug("execute", "language", string(req.Language))
	res, err := r.exec.Execute(ctx, req)
	if err != nil {
		return tdd.ExecutionResult{}, err
	}
	fmt.Fprint(r.out, withNewline(res.Output()))
	return res, nil
}

func (r *runner) once(ctx context.Context) error {
	res, err := r.execute(ctx)
	if err != nil {
		return err
	}
	if res.Failed() {
		return errTestsFailed
	}
	return nil
}

// watch runs once, then again after every relevant change until ctx is
// cancelled. Run errors are printed, not returned.
func (r *runner) watch(ctx context.Context) error {
	patterns := append(append([]string{}, r.impl...), r.tests...)
	w, err := fs.NewWatcher(r.dir, patterns, fs.WithLogger(r.logger))
	if err != nil {
		return err
	}
	r.report(ctx, nil)
	return w.Run(ctx, func(paths []string) {
		r.report(ctx, paths)
	})
}

func (r *runner) report(ctx context.Context, changed []string) {
	fmt.Fprintf(r.out, "=== %s", time.Now().Format(time.TimeOnly))
	if len(changed) > 0 {
		fmt.Fprintf(r.out, " (%d changed)", len(changed))
	}
	fmt.Fprintln(r.out)
	res, err := r.execute(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(r.out, "Error: %v\n", err)
	case res.Failed():
		fmt.Fprintln(r.out, "FAIL")
	default:
		fmt.Fprintln(r.out, "PASS")
	}
}
