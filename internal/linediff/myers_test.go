package linediff

import (
	"errors"
	"strings"
	"testing"
)

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func mustCompute(t *testing.T, oldLines, newLines []string) Script {
	t.Helper()
	s, err := Compute(oldLines, newLines, DefaultOptions())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v (spans %v)", err, s.Spans())
	}
	return s
}

func TestCompute_Examples(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []Edit
	}{
		{
			name: "SingleReplace",
			old:  "a,b,c",
			new:  "a,x,c",
			want: []Edit{{Kind: Replace, OldStart: 1, OldEnd: 2, NewStart: 1, NewEnd: 2}},
		},
		{
			name: "Identical",
			old:  "a,b,c",
			new:  "a,b,c",
			want: nil,
		},
		{
			name: "BothEmpty",
			old:  "",
			new:  "",
			want: nil,
		},
		{
			name: "EmptyOld",
			old:  "",
			new:  "a,b,c",
			want: []Edit{{Kind: Insert, OldStart: 0, OldEnd: 0, NewStart: 0, NewEnd: 3}},
		},
		{
			name: "EmptyNew",
			old:  "a,b",
			new:  "",
			want: []Edit{{Kind: Delete, OldStart: 0, OldEnd: 2, NewStart: 0, NewEnd: 0}},
		},
		{
			name: "InsertMiddle",
			old:  "a,c",
			new:  "a,b,c",
			want: []Edit{{Kind: Insert, OldStart: 1, OldEnd: 1, NewStart: 1, NewEnd: 2}},
		},
		{
			name: "DeleteTail",
			old:  "a,b,c",
			new:  "a",
			want: []Edit{{Kind: Delete, OldStart: 1, OldEnd: 3, NewStart: 1, NewEnd: 1}},
		},
		{
			name: "InsertHead",
			old:  "b,c",
			new:  "a,b,c",
			want: []Edit{{Kind: Insert, OldStart: 0, OldEnd: 0, NewStart: 0, NewEnd: 1}},
		},
		{
			name: "TwoSeparateEdits",
			old:  "a,b,c,d,e",
			new:  "a,B,c,d,e,f",
			want: []Edit{
				{Kind: Replace, OldStart: 1, OldEnd: 2, NewStart: 1, NewEnd: 2},
				{Kind: Insert, OldStart: 5, OldEnd: 5, NewStart: 5, NewEnd: 6},
			},
		},
		{
			name: "CompletelyDifferent",
			old:  "a,b",
			new:  "x,y,z",
			want: []Edit{{Kind: Replace, OldStart: 0, OldEnd: 2, NewStart: 0, NewEnd: 3}},
		},
		{
			name: "BlockReplacedByLargerBlock",
			old:  "h,1,2,t",
			new:  "h,x,y,z,t",
			want: []Edit{{Kind: Replace, OldStart: 1, OldEnd: 3, NewStart: 1, NewEnd: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustCompute(t, lines(tt.old), lines(tt.new))
			got := s.Edits()
			if len(got) != len(tt.want) {
				t.Fatalf("Edits() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Edits()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompute_RepeatedLinesAreDeterministic(t *testing.T) {
	before := lines("x,a,x,a,x")
	after := lines("a,x,a,x,a,x,a")

	first := mustCompute(t, before, after)
	for i := 0; i < 10; i++ {
		again := mustCompute(t, before, after)
		if len(again.Spans()) != len(first.Spans()) {
			t.Fatalf("run %d: %v, first run %v", i, again.Spans(), first.Spans())
		}
		for j := range first.Spans() {
			if again.Spans()[j] != first.Spans()[j] {
				t.Fatalf("run %d: %v, first run %v", i, again.Spans(), first.Spans())
			}
		}
	}
}

func TestCompute_PrefixMatchedFirst(t *testing.T) {
	// Both "a" lines of old could match the single "a" of new; the leading
	// one is kept.
	s := mustCompute(t, lines("a,a"), lines("a"))
	want := []Edit{{Kind: Delete, OldStart: 1, OldEnd: 2, NewStart: 1, NewEnd: 1}}
	got := s.Edits()
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("Edits() = %v, want %v", got, want)
	}
}

func TestCompute_MatchesKeptEarly(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []Edit
	}{
		{
			// The old "a" pairs with the first "a" of new, not the last.
			name: "RepeatedTargetLine",
			old:  "x,a",
			new:  "a,y,a",
			want: []Edit{
				{Kind: Delete, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 0},
				{Kind: Equal, OldStart: 1, OldEnd: 2, NewStart: 0, NewEnd: 1},
				{Kind: Insert, OldStart: 2, OldEnd: 2, NewStart: 1, NewEnd: 3},
			},
		},
		{
			name: "SwappedLines",
			old:  "a,b",
			new:  "b,a",
			want: []Edit{
				{Kind: Delete, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 0},
				{Kind: Equal, OldStart: 1, OldEnd: 2, NewStart: 0, NewEnd: 1},
				{Kind: Insert, OldStart: 2, OldEnd: 2, NewStart: 1, NewEnd: 2},
			},
		},
		{
			name: "CommonSuffixNotPreferred",
			old:  "a,b,a",
			new:  "a",
			want: []Edit{
				{Kind: Equal, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 1},
				{Kind: Delete, OldStart: 1, OldEnd: 3, NewStart: 1, NewEnd: 1},
			},
		},
		{
			name: "RepeatedBlock",
			old:  "q,a,b",
			new:  "a,b,z,a,b",
			want: []Edit{
				{Kind: Delete, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 0},
				{Kind: Equal, OldStart: 1, OldEnd: 3, NewStart: 0, NewEnd: 2},
				{Kind: Insert, OldStart: 3, OldEnd: 3, NewStart: 2, NewEnd: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCompute(t, lines(tt.old), lines(tt.new)).Spans()
			if len(got) != len(tt.want) {
				t.Fatalf("Spans() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Spans()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompute_Whitespace(t *testing.T) {
	before := []string{"func main() {", "\treturn", "}"}
	after := []string{"func main()  {", "\treturn   ", "}"}

	tests := []struct {
		mode      Whitespace
		wantEdits int
	}{
		{mode: WhitespaceExact, wantEdits: 1},
		{mode: WhitespaceIgnoreTrailing, wantEdits: 1},
		{mode: WhitespaceIgnoreAll, wantEdits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Whitespace = tt.mode
			s, err := Compute(before, after, opts)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if got := len(s.Edits()); got != tt.wantEdits {
				t.Fatalf("len(Edits()) = %d, want %d (%v)", got, tt.wantEdits, s.Edits())
			}
		})
	}

	t.Run("TrailingOnly", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Whitespace = WhitespaceIgnoreTrailing
		s, err := Compute([]string{"x", "y"}, []string{"x \t", "y"}, opts)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if len(s.Edits()) != 0 {
			t.Fatalf("Edits() = %v, want none", s.Edits())
		}
	})
}

func TestCompute_TooLarge(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxLines = 2

	_, err := Compute(lines("a,b,c"), lines("a"), opts)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}

	opts.MaxLines = 0
	if _, err := Compute(lines("a,b,c"), lines("a"), opts); err != nil {
		t.Fatalf("unlimited: unexpected error %v", err)
	}
}

func TestScript_SpansIncludeEqual(t *testing.T) {
	s := mustCompute(t, lines("a,b,c"), lines("a,x,c"))
	want := []Edit{
		{Kind: Equal, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 1},
		{Kind: Replace, OldStart: 1, OldEnd: 2, NewStart: 1, NewEnd: 2},
		{Kind: Equal, OldStart: 2, OldEnd: 3, NewStart: 2, NewEnd: 3},
	}
	got := s.Spans()
	if len(got) != len(want) {
		t.Fatalf("Spans() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Spans()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScript_ValidateRejectsBrokenScripts(t *testing.T) {
	tests := []struct {
		name   string
		script Script
	}{
		{
			name: "Gap",
			script: Script{oldLen: 2, newLen: 2, spans: []Edit{
				{Kind: Equal, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 1},
				{Kind: Replace, OldStart: 1, OldEnd: 2, NewStart: 2, NewEnd: 2},
			}},
		},
		{
			name: "ShortCoverage",
			script: Script{oldLen: 3, newLen: 1, spans: []Edit{
				{Kind: Equal, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 1},
			}},
		},
		{
			name: "WrongKind",
			script: Script{oldLen: 1, newLen: 0, spans: []Edit{
				{Kind: Insert, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 0},
			}},
		},
		{
			name: "NotCoalesced",
			script: Script{oldLen: 1, newLen: 1, spans: []Edit{
				{Kind: Delete, OldStart: 0, OldEnd: 1, NewStart: 0, NewEnd: 0},
				{Kind: Insert, OldStart: 1, OldEnd: 1, NewStart: 0, NewEnd: 1},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.script.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{Equal, "equal"},
		{Insert, "insert"},
		{Delete, "delete"},
		{Replace, "replace"},
		{Kind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, expected %q", tt.kind, got, tt.expected)
		}
	}
}
