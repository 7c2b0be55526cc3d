// Package fs collects source files for test runs and watches them for
// changes.
package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/tdd"
)

// ErrNoMatch is returned when no file matches the given patterns.
var ErrNoMatch = errors.New("fs: no files match")

// Source is the content of every file matching a set of patterns.
type Source struct {
	Paths   []string // relative to the root, sorted
	Content string
}

// Language returns the editor language of the first path with a known
// extension.
func (s Source) Language() (tdd.Language, bool) {
	for _, p := range s.Paths {
		if l, ok := tdd.LanguageForPath(p); ok {
			return l, true
		}
	}
	return "", false
}

// Collect reads every regular file under root matching one of patterns.
// Patterns use doublestar syntax relative to root. Contents are joined in
// path order, separated by a blank line.
func Collect(root string, patterns ...string) (Source, error) {
	if err := validate(patterns); err != nil {
		return Source{}, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return Source{}, fmt.Errorf("fs: %w", err)
	}
	if !info.IsDir() {
		return Source{}, fmt.Errorf("fs: %s is not a directory: %w", root, tdd.ErrValidation)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		err := doublestar.GlobWalk(fsys, filepath.ToSlash(pattern), func(path string, d iofs.DirEntry) error {
			if d.IsDir() || seen[path] {
				return nil
			}
			seen[path] = true
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return Source{}, fmt.Errorf("fs: matching %q: %w", pattern, err)
		}
	}
	if len(paths) == 0 {
		return Source{}, fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(patterns, ", "))
	}
	slices.Sort(paths)

	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		b, err := iofs.ReadFile(fsys, p)
		if err != nil {
			return Source{}, fmt.Errorf("fs: %w", err)
		}
		parts = append(parts, strings.TrimRight(string(b), "\n")+"\n")
	}

	src := Source{Content: strings.Join(parts, "\n")}
	for _, p := range paths {
		src.Paths = append(src.Paths, filepath.FromSlash(p))
	}
	return src, nil
}

func validate(patterns []string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("fs: no patterns: %w", tdd.ErrValidation)
	}
	for _, p := range patterns {
		if p == "" || !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("fs: invalid glob pattern %q: %w", p, tdd.ErrValidation)
		}
	}
	return nil
}

// match reports whether the slash-separated relative path matches one of
// patterns.
func match(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(p), rel); ok {
			return true
		}
	}
	return false
}
