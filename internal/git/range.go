package git

import (
	"context"
	"fmt"
	"slices"
)

// RangeResolver walks first-parent links to list the commits of a range.
type RangeResolver struct {
	store ContentStore
}

// NewRangeResolver creates a resolver reading through store.
func NewRangeResolver(store ContentStore) *RangeResolver {
	return &RangeResolver{store: store}
}

// Resolve returns the commits from startID to endID, both inclusive, in
// chronological order. The chain is collected from end back to start and
// reversed before returning.
//
// Merge commits are not followed: any commit in the chain with more than one
// parent fails with a NonLinearHistoryError, as does reaching a root commit
// before start.
func (r *RangeResolver) Resolve(ctx context.Context, startID, endID string) ([]CommitRef, error) {
	start, err := r.store.ResolveCommit(ctx, startID)
	if err != nil {
		return nil, fmt.Errorf("resolve start: %w", err)
	}
	end, err := r.store.ResolveCommit(ctx, endID)
	if err != nil {
		return nil, fmt.Errorf("resolve end: %w", err)
	}

	var chain []CommitRef
	c := end
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.IsMerge() {
			return nil, &NonLinearHistoryError{CommitID: c.ID, Parents: len(c.ParentIDs)}
		}

		chain = append(chain, c)
		if c.ID == start.ID {
			break
		}

		parent, err := r.store.ParentOf(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("parent of %s: %w", c.ShortID(), err)
		}
		if parent == nil {
			return nil, &NonLinearHistoryError{CommitID: c.ID}
		}
		c = *parent
	}

	slices.Reverse(chain)
	return chain, nil
}
