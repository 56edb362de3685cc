package archive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"templater/internal/debug"
)

// MatchesPattern checks if a relative file path matches an ignore pattern.
// Patterns use unix glob syntax, including '**' for recursive directory
// matching and '*' for single-segment wildcards. A pattern with no path
// separator is additionally matched against the base name, so "*.txt"
// ignores "dir/file.txt" as well as "file.txt".
// Matching is case sensitive (host filesystem convention on Linux).
func MatchesPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	// Invalid patterns never match; they were validated when the
	// ignore list was built.
	if ok, err := doublestar.Match(pattern, path); err == nil && ok {
		return true
	}

	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}

	return false
}

// IsIgnored checks if a relative path matches any of the active ignore patterns.
func IsIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchesPattern(path, pattern) {
			debug.Debug("[archive] Ignoring path: %s (matched pattern: %s)", path, pattern)
			return true
		}
	}
	return false
}

// ValidatePatterns checks every ignore pattern for valid glob syntax.
// Returns the first invalid pattern found.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("invalid ignore pattern: %q", pattern)
		}
	}
	return nil
}
