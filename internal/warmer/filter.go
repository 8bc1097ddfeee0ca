package warmer

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter decides which entries are left out of a walk.
type PathFilter interface {
	// Excludes returns true if the entry at the given absolute path must be
	// neither probed nor descended into.
	Excludes(absPath string) bool
}

// GlobFilter implements PathFilter using doublestar patterns matched against
// slash-separated absolute paths. Matching is case-sensitive.
type GlobFilter struct {
	patterns []string
}

// NewGlobFilter creates a GlobFilter from exclude patterns such as "/proc"
// or "/**/node_modules". Returns an error naming the first invalid pattern.
func NewGlobFilter(patterns ...string) (*GlobFilter, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	return &GlobFilter{patterns: append([]string(nil), patterns...)}, nil
}

// Excludes reports whether any pattern matches absPath.
func (f *GlobFilter) Excludes(absPath string) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}

	path := filepath.ToSlash(absPath)

	for _, pattern := range f.patterns {
		// Patterns were validated up front, so Match cannot fail here.
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}

	return false
}

// Patterns returns the exclude patterns.
func (f *GlobFilter) Patterns() []string {
	if f == nil {
		return nil
	}

	return append([]string(nil), f.patterns...)
}
