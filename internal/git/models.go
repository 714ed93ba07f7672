package git

import (
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// CommitRef represents a commit as seen by the mining engine.
type CommitRef struct {
	ID        string
	ParentIDs []string
	TreeID    string
	When      time.Time
	Author    AuthorInfo
	Message   string
}

// IsRoot returns true if the commit has no parents.
func (c CommitRef) IsRoot() bool {
	return len(c.ParentIDs) == 0
}

// IsMerge returns true if the commit has more than one parent.
func (c CommitRef) IsMerge() bool {
	return len(c.ParentIDs) > 1
}

// ShortID returns the abbreviated commit hash.
func (c CommitRef) ShortID() string {
	if len(c.ID) > 7 {
		return c.ID[:7]
	}
	return c.ID
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContentRef identifies an immutable content object (a blob hash).
type ContentRef string

// TreeEntry is a single file in a tree snapshot.
type TreeEntry struct {
	Ref  ContentRef
	Mode filemode.FileMode
}

// TreeSnapshot maps repository-relative paths to their content.
type TreeSnapshot map[string]TreeEntry

// Paths returns the snapshot paths in lexicographic order.
func (t TreeSnapshot) Paths() []string {
	paths := make([]string, 0, len(t))
	for p := range t {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}
