package treediff

import (
	"testing"

	"github.com/masmgr/changeminer/internal/git"
)

func TestNewFilter_InvalidPatternsReturnError(t *testing.T) {
	t.Run("invalid exclude pattern", func(t *testing.T) {
		if _, err := NewFilter(nil, []string{"["}, nil); err == nil {
			t.Fatal("expected error for invalid exclude glob, got nil")
		}
	})

	t.Run("invalid include pattern", func(t *testing.T) {
		if _, err := NewFilter([]string{"["}, nil, nil); err == nil {
			t.Fatal("expected error for invalid include glob, got nil")
		}
	})
}

func TestNewFilter_EmptyIsNil(t *testing.T) {
	f, err := NewFilter(nil, nil, []string{"", "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != nil {
		t.Fatalf("NewFilter with no rules = %+v, expected nil", f)
	}
	if !f.Match("anything/at/all.bin") {
		t.Error("nil filter should accept every path")
	}
}

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		include  []string
		exclude  []string
		suffixes []string
		path     string
		expected bool
	}{
		{name: "include match", include: []string{"src/**"}, path: "src/a/b.go", expected: true},
		{name: "include miss", include: []string{"src/**"}, path: "docs/a.md", expected: false},
		{name: "exclude wins", include: []string{"**/*.go"}, exclude: []string{"vendor/**"}, path: "vendor/x.go", expected: false},
		{name: "exclude only", exclude: []string{"**/*_test.go"}, path: "pkg/a.go", expected: true},
		{name: "suffix match", suffixes: []string{".java"}, path: "src/Main.java", expected: true},
		{name: "suffix miss", suffixes: []string{".java"}, path: "src/Main.kt", expected: false},
		{name: "suffix and exclude", suffixes: []string{".java"}, exclude: []string{"test/**"}, path: "test/A.java", expected: false},
		{name: "backslashes normalized", include: []string{"src/**"}, path: "src\\a.go", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.include, tt.exclude, tt.suffixes)
			if err != nil {
				t.Fatalf("NewFilter: %v", err)
			}
			if got := f.Match(tt.path); got != tt.expected {
				t.Errorf("Match(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	f, err := NewFilter(nil, nil, []string{".go"})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}

	snap := git.TreeSnapshot{
		"a.go":     {Ref: "1"},
		"b.txt":    {Ref: "2"},
		"pkg/c.go": {Ref: "3"},
	}
	got := f.Apply(snap)
	if len(got) != 2 {
		t.Fatalf("Apply kept %v, expected a.go and pkg/c.go", got.Paths())
	}
	if _, ok := got["b.txt"]; ok {
		t.Error("b.txt should have been filtered out")
	}
	if len(snap) != 3 {
		t.Error("Apply must not modify its input")
	}
}
