package linediff

import "fmt"

// Kind classifies a span of an edit script.
type Kind int

const (
	Equal Kind = iota
	Insert
	Delete
	Replace
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Edit is a span of an edit script. Ranges are half-open and 0-based:
// old lines [OldStart, OldEnd) correspond to new lines [NewStart, NewEnd).
type Edit struct {
	Kind     Kind
	OldStart int
	OldEnd   int
	NewStart int
	NewEnd   int
}

// OldLen returns the number of old lines covered.
func (e Edit) OldLen() int { return e.OldEnd - e.OldStart }

// NewLen returns the number of new lines covered.
func (e Edit) NewLen() int { return e.NewEnd - e.NewStart }

func (e Edit) String() string {
	return fmt.Sprintf("%s old[%d,%d) new[%d,%d)", e.Kind, e.OldStart, e.OldEnd, e.NewStart, e.NewEnd)
}

// changeKind classifies a non-equal span by which sides it covers.
func changeKind(oldLen, newLen int) Kind {
	switch {
	case oldLen == 0:
		return Insert
	case newLen == 0:
		return Delete
	default:
		return Replace
	}
}

// Script is a complete edit script: its spans, Equal ones included, cover
// both sequences from start to end.
type Script struct {
	spans  []Edit
	oldLen int
	newLen int
}

// Spans returns every span of the script, including Equal spans.
func (s Script) Spans() []Edit {
	return s.spans
}

// Edits returns the non-equal spans.
func (s Script) Edits() []Edit {
	edits := make([]Edit, 0, len(s.spans))
	for _, e := range s.spans {
		if e.Kind != Equal {
			edits = append(edits, e)
		}
	}
	return edits
}

// OldLen returns the length of the old sequence.
func (s Script) OldLen() int { return s.oldLen }

// NewLen returns the length of the new sequence.
func (s Script) NewLen() int { return s.newLen }

// Validate checks that the spans tile [0,OldLen) and [0,NewLen) without gaps
// or overlaps, that every span's kind agrees with its ranges, and that the
// script is maximal: no two adjacent spans of which both are Equal or both
// are non-equal.
func (s Script) Validate() error {
	x, y := 0, 0
	for i, e := range s.spans {
		if e.OldStart != x || e.NewStart != y {
			return fmt.Errorf("span %d (%s) starts at (%d,%d), expected (%d,%d)", i, e, e.OldStart, e.NewStart, x, y)
		}
		if e.OldEnd < e.OldStart || e.NewEnd < e.NewStart {
			return fmt.Errorf("span %d (%s) has a negative range", i, e)
		}
		if e.OldLen() == 0 && e.NewLen() == 0 {
			return fmt.Errorf("span %d (%s) is empty", i, e)
		}

		switch e.Kind {
		case Equal:
			if e.OldLen() != e.NewLen() {
				return fmt.Errorf("span %d (%s) is equal with unequal lengths", i, e)
			}
		default:
			if want := changeKind(e.OldLen(), e.NewLen()); e.Kind != want {
				return fmt.Errorf("span %d (%s) should be %s", i, e, want)
			}
		}

		if i > 0 {
			prevEqual := s.spans[i-1].Kind == Equal
			if prevEqual == (e.Kind == Equal) {
				return fmt.Errorf("span %d (%s) is not coalesced with span %d (%s)", i, e, i-1, s.spans[i-1])
			}
		}

		x, y = e.OldEnd, e.NewEnd
	}

	if x != s.oldLen || y != s.newLen {
		return fmt.Errorf("spans end at (%d,%d), expected (%d,%d)", x, y, s.oldLen, s.newLen)
	}
	return nil
}

// scriptBuilder turns an ascending sequence of matched runs into a maximal
// script of alternating Equal and non-equal spans.
type scriptBuilder struct {
	spans []Edit
	x, y  int
}

// match records that old[x:x+n] equals new[y:y+n]. Runs must be added in
// ascending order.
func (b *scriptBuilder) match(x, y, n int) {
	if n <= 0 {
		return
	}
	b.gap(x, y)
	if last := len(b.spans) - 1; last >= 0 && b.spans[last].Kind == Equal {
		b.spans[last].OldEnd += n
		b.spans[last].NewEnd += n
	} else {
		b.spans = append(b.spans, Edit{Kind: Equal, OldStart: x, OldEnd: x + n, NewStart: y, NewEnd: y + n})
	}
	b.x, b.y = x+n, y+n
}

// gap emits the non-equal span between the last match and (x, y).
func (b *scriptBuilder) gap(x, y int) {
	if x == b.x && y == b.y {
		return
	}
	b.spans = append(b.spans, Edit{
		Kind:     changeKind(x-b.x, y-b.y),
		OldStart: b.x,
		OldEnd:   x,
		NewStart: b.y,
		NewEnd:   y,
	})
	b.x, b.y = x, y
}

func (b *scriptBuilder) finish(oldLen, newLen int) Script {
	b.gap(oldLen, newLen)
	return Script{spans: b.spans, oldLen: oldLen, newLen: newLen}
}
