package changeset

import (
	"fmt"

	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
	"github.com/masmgr/changeminer/internal/treediff"
)

// LineEdit is an edit span together with the text it covers.
type LineEdit struct {
	linediff.Edit
	OldLines []string
	NewLines []string
}

// ChangeRecord describes how one file changed in one commit.
type ChangeRecord struct {
	Kind       git.ChangeKind
	OldPath    string
	NewPath    string
	Similarity float64
	Edits      []LineEdit
}

// Path returns the primary path of the record.
func (r ChangeRecord) Path() string {
	if r.Kind == git.ChangeKindDeleted {
		return r.OldPath
	}
	return r.NewPath
}

// LinesAdded returns the number of new lines introduced by the record.
func (r ChangeRecord) LinesAdded() int {
	n := 0
	for _, e := range r.Edits {
		n += e.NewLen()
	}
	return n
}

// LinesDeleted returns the number of old lines removed by the record.
func (r ChangeRecord) LinesDeleted() int {
	n := 0
	for _, e := range r.Edits {
		n += e.OldLen()
	}
	return n
}

// FileError is a failure confined to a single file of a commit.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// CommitChanges is the mining result for one commit.
type CommitChanges struct {
	Commit  git.CommitRef
	Records []ChangeRecord
	Errors  []FileError
}

// CommitPaths is the path-level result for one commit.
type CommitPaths struct {
	Commit  git.CommitRef
	Changes []treediff.PathChange
}

func newRecord(c treediff.PathChange) ChangeRecord {
	return ChangeRecord{
		Kind:       c.Kind,
		OldPath:    c.OldPath,
		NewPath:    c.NewPath,
		Similarity: c.Similarity,
	}
}

// attachText pairs each non-equal span of s with the lines it covers.
func attachText(s linediff.Script, oldLines, newLines []string) []LineEdit {
	edits := s.Edits()
	if len(edits) == 0 {
		return nil
	}
	out := make([]LineEdit, len(edits))
	for i, e := range edits {
		out[i] = LineEdit{
			Edit:     e,
			OldLines: oldLines[e.OldStart:e.OldEnd:e.OldEnd],
			NewLines: newLines[e.NewStart:e.NewEnd:e.NewEnd],
		}
	}
	return out
}
