// Package match decides which repository paths look like zone files.
// Patterns are shell globs applied to the path's base name, so nested
// layouts like zones/external/db.example.com are picked up the same as
// top-level files.
package match

import (
	"fmt"
	"path"
)

// DefaultPatterns covers the common zone file naming conventions:
// db.<zone>, <zone>.db, <zone>.zone, reverse zones, and RPZ feeds.
var DefaultPatterns = []string{"db.*", "*.db", "*.zone", "*.rev", "*.rpz", "*.rpz.*"}

// Matcher filters repository paths down to zone file candidates.
type Matcher struct {
	patterns []string
}

// New builds a Matcher, rejecting malformed glob patterns up front so a
// bad config fails at startup instead of silently matching nothing.
func New(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if _, err := path.Match(p, "probe"); err != nil {
			return nil, fmt.Errorf("zone file pattern %q: %w", p, err)
		}
	}
	return &Matcher{patterns: patterns}, nil
}

// Default returns a Matcher over DefaultPatterns.
func Default() *Matcher {
	m, err := New(nil)
	if err != nil {
		panic(err) // DefaultPatterns are static and valid
	}
	return m
}

// Match reports whether the path's base name matches any pattern.
func (m *Matcher) Match(p string) bool {
	base := path.Base(p)
	for _, pat := range m.patterns {
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// Filter returns the matching paths, preserving input order.
func (m *Matcher) Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if m.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Patterns returns the active pattern set.
func (m *Matcher) Patterns() []string {
	return m.patterns
}
