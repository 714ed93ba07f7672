package git

import "context"

// ContentStore is the read-only view of a repository the mining engine needs.
// Implementations own their lifecycle; callers open and close them.
type ContentStore interface {
	// ResolveCommit resolves a revision (hash, branch, tag) to a commit.
	ResolveCommit(ctx context.Context, id string) (CommitRef, error)

	// ParentOf returns the first parent of c, or nil when c is a root commit.
	ParentOf(ctx context.Context, c CommitRef) (*CommitRef, error)

	// TreeOf returns the flattened tree of c.
	TreeOf(ctx context.Context, c CommitRef) (TreeSnapshot, error)

	// ReadContent returns the raw bytes of a content object.
	ReadContent(ctx context.Context, ref ContentRef) ([]byte, error)
}

// ContentReader is the subset of ContentStore needed to read file content.
type ContentReader interface {
	ReadContent(ctx context.Context, ref ContentRef) ([]byte, error)
}

// Compile-time interface conformance checks.
var (
	_ ContentStore = (*RepoStore)(nil)
	_ ContentStore = (*MemoryStore)(nil)
)
