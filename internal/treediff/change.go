package treediff

import "github.com/masmgr/changeminer/internal/git"

// PathChange is a single path-level difference between two snapshots.
type PathChange struct {
	Kind       git.ChangeKind
	OldPath    string         // empty for Added
	NewPath    string         // empty for Deleted
	OldRef     git.ContentRef // empty for Added
	NewRef     git.ContentRef // empty for Deleted
	Similarity float64        // set only for Renamed
}

// Path returns the primary path of the change: the new path, or the old
// path for deletions.
func (c PathChange) Path() string {
	if c.Kind == git.ChangeKindDeleted {
		return c.OldPath
	}
	return c.NewPath
}

// IsPureRename reports whether the change is a rename with unchanged content.
func (c PathChange) IsPureRename() bool {
	return c.Kind == git.ChangeKindRenamed && c.OldRef == c.NewRef
}
