package treediff

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/changeminer/internal/git"
)

// Filter selects which paths take part in a diff. A nil Filter accepts
// every path.
type Filter struct {
	include  []string
	exclude  []string
	suffixes []string
}

// NewFilter validates the glob patterns and builds a Filter.
// Exclude patterns win over include patterns. When suffixes are given, a path
// must also end in one of them.
func NewFilter(include, exclude, suffixes []string) (*Filter, error) {
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	var sfx []string
	for _, s := range suffixes {
		if s = strings.TrimSpace(s); s != "" {
			sfx = append(sfx, s)
		}
	}

	if len(include) == 0 && len(exclude) == 0 && len(sfx) == 0 {
		return nil, nil
	}
	return &Filter{include: include, exclude: exclude, suffixes: sfx}, nil
}

// Match reports whether path passes the filter.
func (f *Filter) Match(path string) bool {
	if f == nil {
		return true
	}

	// Normalize path separators
	path = strings.ReplaceAll(path, "\\", "/")

	if len(f.suffixes) > 0 && !hasAnySuffix(path, f.suffixes) {
		return false
	}

	// Check exclude patterns first
	for _, pattern := range f.exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}

	// If no include patterns, accept all
	if len(f.include) == 0 {
		return true
	}

	for _, pattern := range f.include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// Apply returns the entries of t that pass the filter. t is returned as is
// when the filter is nil.
func (f *Filter) Apply(t git.TreeSnapshot) git.TreeSnapshot {
	if f == nil {
		return t
	}
	out := make(git.TreeSnapshot, len(t))
	for p, e := range t {
		if f.Match(p) {
			out[p] = e
		}
	}
	return out
}

func hasAnySuffix(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
