package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	lru "github.com/hashicorp/golang-lru/v2"
)

// StoreOptions configures a RepoStore.
type StoreOptions struct {
	BlobCacheSize int // Number of blobs kept in memory
	TreeCacheSize int // Number of flattened trees kept in memory
}

// DefaultStoreOptions returns cache sizes suitable for typical repositories.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		BlobCacheSize: 1024,
		TreeCacheSize: 64,
	}
}

// RepoStore is a ContentStore backed by a go-git repository.
// go-git repositories are not safe for concurrent object decoding, so every
// repository access is serialized; decoded results are cached.
type RepoStore struct {
	mu    sync.Mutex
	repo  *git.Repository
	blobs *lru.Cache[ContentRef, []byte]
	trees *lru.Cache[string, TreeSnapshot]
}

// NewRepoStore opens the repository at repoPath.
func NewRepoStore(repoPath string, opts StoreOptions) (*RepoStore, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, err
	}
	return NewRepoStoreFromRepository(repo, opts)
}

// NewRepoStoreFromRepository wraps an already opened repository.
func NewRepoStoreFromRepository(repo *git.Repository, opts StoreOptions) (*RepoStore, error) {
	defaults := DefaultStoreOptions()
	if opts.BlobCacheSize <= 0 {
		opts.BlobCacheSize = defaults.BlobCacheSize
	}
	if opts.TreeCacheSize <= 0 {
		opts.TreeCacheSize = defaults.TreeCacheSize
	}

	blobs, err := lru.New[ContentRef, []byte](opts.BlobCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create blob cache: %w", err)
	}
	trees, err := lru.New[string, TreeSnapshot](opts.TreeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create tree cache: %w", err)
	}

	return &RepoStore{repo: repo, blobs: blobs, trees: trees}, nil
}

// Close releases the caches and the underlying storage.
func (s *RepoStore) Close() error {
	s.blobs.Purge()
	s.trees.Purge()

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.repo.Storer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ResolveCommit resolves a revision to a commit.
func (s *RepoStore) ResolveCommit(ctx context.Context, id string) (CommitRef, error) {
	if err := ctx.Err(); err != nil {
		return CommitRef{}, err
	}

	rev := strings.TrimSpace(id)
	if rev == "" {
		return CommitRef{}, notFound("commit", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return CommitRef{}, fmt.Errorf("commit %q: %w: %w", id, ErrNotFound, err)
	}

	return s.commitLocked(*hash)
}

// ParentOf returns the first parent of c, or nil for a root commit.
func (s *RepoStore) ParentOf(ctx context.Context, c CommitRef) (*CommitRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.IsRoot() {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent, err := s.commitLocked(plumbing.NewHash(c.ParentIDs[0]))
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

func (s *RepoStore) commitLocked(hash plumbing.Hash) (CommitRef, error) {
	c, err := s.repo.CommitObject(hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return CommitRef{}, notFound("commit", hash.String())
		}
		return CommitRef{}, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return toCommitRef(c), nil
}

func toCommitRef(c *object.Commit) CommitRef {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, h := range c.ParentHashes {
		parents = append(parents, h.String())
	}

	// Extract first line of commit message
	message := c.Message
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}

	return CommitRef{
		ID:        c.Hash.String(),
		ParentIDs: parents,
		TreeID:    c.TreeHash.String(),
		When:      c.Committer.When,
		Author:    AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message:   message,
	}
}

// TreeOf returns the flattened file tree of c.
func (s *RepoStore) TreeOf(ctx context.Context, c CommitRef) (TreeSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap, ok := s.trees.Get(c.TreeID); ok {
		return snap, nil
	}

	s.mu.Lock()
	snap, err := s.flattenTreeLocked(plumbing.NewHash(c.TreeID))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.trees.Add(c.TreeID, snap)
	return snap, nil
}

type pendingTree struct {
	prefix string
	tree   *object.Tree
}

// flattenTreeLocked walks nested trees with an explicit stack so that deep
// hierarchies do not grow the goroutine stack.
func (s *RepoStore) flattenTreeLocked(root plumbing.Hash) (TreeSnapshot, error) {
	rootTree, err := s.treeObjectLocked(root)
	if err != nil {
		return nil, err
	}

	snap := make(TreeSnapshot)
	stack := []pendingTree{{tree: rootTree}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, e := range top.tree.Entries {
			p := path.Join(top.prefix, e.Name)
			switch {
			case e.Mode == filemode.Dir:
				sub, err := s.treeObjectLocked(e.Hash)
				if err != nil {
					return nil, err
				}
				stack = append(stack, pendingTree{prefix: p, tree: sub})
			case isFileMode(e.Mode):
				snap[p] = TreeEntry{Ref: ContentRef(e.Hash.String()), Mode: e.Mode}
			}
		}
	}

	return snap, nil
}

func (s *RepoStore) treeObjectLocked(hash plumbing.Hash) (*object.Tree, error) {
	tree, err := s.repo.TreeObject(hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, notFound("tree", hash.String())
		}
		return nil, fmt.Errorf("read tree %s: %w", hash, err)
	}
	return tree, nil
}

// ReadContent returns the bytes of a blob.
func (s *RepoStore) ReadContent(ctx context.Context, ref ContentRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if data, ok := s.blobs.Get(ref); ok {
		return data, nil
	}

	s.mu.Lock()
	data, err := s.readBlobLocked(ref)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.blobs.Add(ref, data)
	return data, nil
}

func (s *RepoStore) readBlobLocked(ref ContentRef) ([]byte, error) {
	blob, err := s.repo.BlobObject(plumbing.NewHash(string(ref)))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, notFound("blob", string(ref))
		}
		return nil, fmt.Errorf("read blob %s: %w", ref, err)
	}

	r, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", ref, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", ref, err)
	}
	return data, nil
}
