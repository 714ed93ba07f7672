package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo is a temporary git repository with a worktree.
type testRepo struct {
	t    *testing.T
	dir  string
	wt   *git.Worktree
	when time.Time
}

// createTestRepo creates a temporary git repository.
func createTestRepo(t *testing.T) *testRepo {
	tmpDir := t.TempDir()

	repo, err := git.PlainInit(tmpDir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	return &testRepo{t: t, dir: tmpDir, wt: w, when: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

// write creates or replaces a file and stages it.
func (r *testRepo) write(filename, content string) {
	filePath := filepath.Join(r.dir, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		r.t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		r.t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := r.wt.Add(filename); err != nil {
		r.t.Fatalf("Failed to add file: %v", err)
	}
}

// remove deletes a file from the worktree and the index.
func (r *testRepo) remove(filename string) {
	if _, err := r.wt.Remove(filename); err != nil {
		r.t.Fatalf("Failed to remove file: %v", err)
	}
}

// commit records the staged changes one hour after the previous commit and
// returns the commit hash.
func (r *testRepo) commit(message string) string {
	r.when = r.when.Add(time.Hour)
	sig := &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  r.when,
	}
	hash, err := r.wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Failed to commit: %v", err)
	}
	return hash.String()
}
