package git

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// MemoryStore is an in-memory ContentStore.
// It allows tests to build commit graphs without needing a real Git repository.
// Content refs are real git blob hashes, so identical content shares a ref.
type MemoryStore struct {
	mu      sync.RWMutex
	commits map[string]CommitRef
	trees   map[string]TreeSnapshot
	blobs   map[ContentRef][]byte
	reads   atomic.Int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		commits: make(map[string]CommitRef),
		trees:   make(map[string]TreeSnapshot),
		blobs:   make(map[ContentRef][]byte),
	}
}

// AddBlob stores content and returns its ref.
func (m *MemoryStore) AddBlob(content []byte) ContentRef {
	ref := ContentRef(plumbing.ComputeHash(plumbing.BlobObject, content).String())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[ref] = append([]byte(nil), content...)
	return ref
}

// AddCommit records a commit whose tree holds files (path -> content).
func (m *MemoryStore) AddCommit(id string, parents []string, files map[string]string) CommitRef {
	snap := make(TreeSnapshot, len(files))
	for p, content := range files {
		snap[p] = TreeEntry{Ref: m.AddBlob([]byte(content)), Mode: filemode.Regular}
	}

	c := CommitRef{
		ID:        id,
		ParentIDs: append([]string(nil), parents...),
		TreeID:    "tree-" + id,
		Message:   id,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits[id] = c
	m.trees[c.TreeID] = snap
	return c
}

// Reads returns how many times ReadContent has been called.
func (m *MemoryStore) Reads() int {
	return int(m.reads.Load())
}

// ResolveCommit returns the commit recorded under id.
func (m *MemoryStore) ResolveCommit(ctx context.Context, id string) (CommitRef, error) {
	if err := ctx.Err(); err != nil {
		return CommitRef{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.commits[id]
	if !ok {
		return CommitRef{}, notFound("commit", id)
	}
	return c, nil
}

// ParentOf returns the first parent of c, or nil for a root commit.
func (m *MemoryStore) ParentOf(ctx context.Context, c CommitRef) (*CommitRef, error) {
	if c.IsRoot() {
		return nil, nil
	}
	parent, err := m.ResolveCommit(ctx, c.ParentIDs[0])
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

// TreeOf returns the tree recorded for c.
func (m *MemoryStore) TreeOf(ctx context.Context, c CommitRef) (TreeSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.trees[c.TreeID]
	if !ok {
		return nil, notFound("tree", c.TreeID)
	}
	return snap, nil
}

// ReadContent returns the bytes stored under ref.
func (m *MemoryStore) ReadContent(ctx context.Context, ref ContentRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.reads.Add(1)

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[ref]
	if !ok {
		return nil, notFound("blob", string(ref))
	}
	return data, nil
}
