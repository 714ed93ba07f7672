package linediff

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrNotText is returned for content that looks binary.
	ErrNotText = errors.New("content is not text")

	// ErrTooLarge is returned when an input exceeds the line-count ceiling.
	ErrTooLarge = errors.New("content exceeds line limit")
)

// binarySniffLen is how many leading bytes are inspected for a NUL byte,
// the same window git uses.
const binarySniffLen = 8000

// IsText reports whether content looks like text.
func IsText(content []byte) bool {
	n := min(len(content), binarySniffLen)
	return bytes.IndexByte(content[:n], 0) == -1
}

// SplitLines decodes content into lines. Line terminators ("\n" or "\r\n")
// are not part of the lines, and a trailing terminator does not produce an
// empty final line. A lone "\r" is line content.
func SplitLines(content []byte) ([]string, error) {
	if !IsText(content) {
		return nil, ErrNotText
	}
	if len(content) == 0 {
		return nil, nil
	}

	s := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// Whitespace selects how whitespace participates in line comparison.
type Whitespace int

const (
	WhitespaceExact Whitespace = iota
	WhitespaceIgnoreTrailing
	WhitespaceIgnoreAll
)

// String returns the flag spelling of the mode.
func (w Whitespace) String() string {
	switch w {
	case WhitespaceExact:
		return "exact"
	case WhitespaceIgnoreTrailing:
		return "ignore-trailing"
	case WhitespaceIgnoreAll:
		return "ignore-all"
	default:
		return "unknown"
	}
}

// ParseWhitespace parses a whitespace mode name.
func ParseWhitespace(s string) (Whitespace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "default":
		return WhitespaceExact, nil
	case "ignore-trailing", "trailing":
		return WhitespaceIgnoreTrailing, nil
	case "ignore-all", "all":
		return WhitespaceIgnoreAll, nil
	default:
		return WhitespaceExact, fmt.Errorf("invalid whitespace mode %q (expected exact, ignore-trailing, ignore-all)", s)
	}
}

// Key returns the comparison key of line under mode w.
func (w Whitespace) Key(line string) string {
	switch w {
	case WhitespaceIgnoreTrailing:
		return strings.TrimRightFunc(line, unicode.IsSpace)
	case WhitespaceIgnoreAll:
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)
	default:
		return line
	}
}

// Interner assigns small integer ids to comparison keys so that sequences
// can be compared by id. An Interner may be shared across several sequences
// that need to be compared with each other.
type Interner struct {
	ws  Whitespace
	ids map[string]int
}

// NewInterner creates an interner comparing lines under mode ws.
func NewInterner(ws Whitespace) *Interner {
	return &Interner{ws: ws, ids: make(map[string]int)}
}

// Intern maps lines to their ids.
func (in *Interner) Intern(lines []string) []int {
	out := make([]int, len(lines))
	for i, line := range lines {
		key := in.ws.Key(line)
		id, ok := in.ids[key]
		if !ok {
			id = len(in.ids)
			in.ids[key] = id
		}
		out[i] = id
	}
	return out
}
