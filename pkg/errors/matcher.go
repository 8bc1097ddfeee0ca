package errors

import "strings"

// PatternMatcher matches error messages to kinds using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) Kind
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		patterns: []kindPatterns{
			{
				kind: KindPermissionDenied,
				patterns: []string{
					"permission denied",
					"access denied",
					"operation not permitted",
				},
			},
			{
				kind: KindRaceRemoved,
				patterns: []string{
					"no such file or directory",
					"not a directory",
					"stale file handle",
					"too many levels of symbolic links",
				},
			},
		},
	}
}

type kindPatterns struct {
	kind     Kind
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	patterns []kindPatterns
}

// Match returns the kind based on pattern matching, KindOtherIO when nothing matches.
func (m *patternMatcher) Match(errorMsg string) Kind {
	lowerMsg := strings.ToLower(errorMsg)

	for _, group := range m.patterns {
		for _, pattern := range group.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return group.kind
			}
		}
	}

	return KindOtherIO
}
