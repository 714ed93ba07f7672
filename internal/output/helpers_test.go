package output

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
	"github.com/masmgr/changeminer/internal/treediff"
)

func readTestFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func testCommit(id, msg string) git.CommitRef {
	return git.CommitRef{
		ID:        id,
		ParentIDs: []string{"0000000000000000000000000000000000000000"},
		When:      time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Author:    git.AuthorInfo{Name: "Dev", Email: "dev@example.com"},
		Message:   msg,
	}
}

func testMiningReport() *MiningReport {
	return &MiningReport{
		RepoPath:    "/test/repo",
		Start:       "aaaaaaa",
		End:         "bbbbbbb",
		GeneratedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Commits: []changeset.CommitChanges{
			{
				Commit: testCommit("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "add main"),
				Records: []changeset.ChangeRecord{{
					Kind:    git.ChangeKindAdded,
					NewPath: "main.go",
					Edits: []changeset.LineEdit{{
						Edit:     linediff.Edit{Kind: linediff.Insert, NewEnd: 2},
						NewLines: []string{"package main", "func main() {}"},
					}},
				}},
			},
			{
				Commit: testCommit("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "edit and move"),
				Records: []changeset.ChangeRecord{
					{
						Kind:    git.ChangeKindModified,
						OldPath: "main.go",
						NewPath: "main.go",
						Edits: []changeset.LineEdit{{
							Edit:     linediff.Edit{Kind: linediff.Replace, OldStart: 1, OldEnd: 2, NewStart: 1, NewEnd: 2},
							OldLines: []string{"func main() {}"},
							NewLines: []string{"func main() { run() }"},
						}},
					},
					{Kind: git.ChangeKindRenamed, OldPath: "a.txt", NewPath: "b.txt", Similarity: 1},
				},
				Errors: []changeset.FileError{{Path: "logo.png", Err: linediff.ErrNotText}},
			},
		},
	}
}

func testPathReport() *PathReport {
	return &PathReport{
		RepoPath:    "/test/repo",
		Start:       "aaaaaaa",
		End:         "aaaaaaa",
		GeneratedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Commits: []changeset.CommitPaths{{
			Commit: testCommit("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "move"),
			Changes: []treediff.PathChange{
				{Kind: git.ChangeKindRenamed, OldPath: "x.go", NewPath: "y.go", OldRef: "r1", NewRef: "r2", Similarity: 0.75},
				{Kind: git.ChangeKindDeleted, OldPath: "z.go", OldRef: "r3"},
			},
		}},
	}
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		maxLen   int
		expected string
	}{
		{name: "Short message", msg: "hello", maxLen: 40, expected: "hello"},
		{name: "Exact length", msg: "1234567890", maxLen: 10, expected: "1234567890"},
		{name: "Over max length", msg: "a very long message here", maxLen: 10, expected: "a very ..."},
		{name: "Empty message", msg: "", maxLen: 40, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateMessage(tt.msg, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateMessage(%q, %d) = %q, expected %q", tt.msg, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestHunkRange(t *testing.T) {
	tests := []struct {
		start, n int
		expected string
	}{
		{start: 0, n: 1, expected: "1"},
		{start: 4, n: 3, expected: "5,3"},
		{start: 2, n: 0, expected: "2,0"},
	}
	for _, tt := range tests {
		if got := hunkRange(tt.start, tt.n); got != tt.expected {
			t.Errorf("hunkRange(%d, %d) = %q, expected %q", tt.start, tt.n, got, tt.expected)
		}
	}
}

func TestTotalsOf(t *testing.T) {
	got := totalsOf(testMiningReport().Commits)
	want := miningTotals{Commits: 2, Records: 3, Errors: 1, LinesAdded: 3, LinesDeleted: 1}
	if got != want {
		t.Errorf("totalsOf = %+v, expected %+v", got, want)
	}
}

func TestRangeLabel(t *testing.T) {
	if got := rangeLabel("a", "a"); got != "a" {
		t.Errorf("rangeLabel(a, a) = %q, expected %q", got, "a")
	}
	if got := rangeLabel("a", "b"); got != "a..b" {
		t.Errorf("rangeLabel(a, b) = %q, expected %q", got, "a..b")
	}
}

func TestFileErrorMessage(t *testing.T) {
	fe := changeset.FileError{Path: "x.bin", Err: linediff.ErrNotText}
	if !errors.Is(fe, linediff.ErrNotText) {
		t.Error("FileError should unwrap to its cause")
	}
}
