package git

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a commit or content object does not resolve.
	ErrNotFound = errors.New("object not found")

	// ErrNonLinearHistory is returned when a first-parent walk meets a merge
	// commit or runs out of history before reaching its start.
	ErrNonLinearHistory = errors.New("non-linear history")
)

// NonLinearHistoryError reports the commit at which a linear walk failed.
type NonLinearHistoryError struct {
	CommitID string
	Parents  int
}

func (e *NonLinearHistoryError) Error() string {
	if e.Parents == 0 {
		return fmt.Sprintf("%s: history exhausted at root commit %s before reaching start", ErrNonLinearHistory, e.CommitID)
	}
	return fmt.Sprintf("%s: commit %s has %d parents", ErrNonLinearHistory, e.CommitID, e.Parents)
}

// Is makes errors.Is(err, ErrNonLinearHistory) match.
func (e *NonLinearHistoryError) Is(target error) bool {
	return target == ErrNonLinearHistory
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
