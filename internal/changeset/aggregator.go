package changeset

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
	"github.com/masmgr/changeminer/internal/treediff"
)

// Aggregator turns the path changes of a commit into change records.
type Aggregator struct {
	store   git.ContentReader
	diff    linediff.Options
	workers int
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator reading content from store.
// workers <= 0 means GOMAXPROCS; a nil logger disables logging.
func NewAggregator(store git.ContentReader, diff linediff.Options, workers int, logger *zap.Logger) *Aggregator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: store, diff: diff, workers: workers, logger: logger}
}

// isolated reports whether err only affects the file it occurred on.
func isolated(err error) bool {
	return errors.Is(err, linediff.ErrNotText) || errors.Is(err, linediff.ErrTooLarge)
}

type fileResult struct {
	record ChangeRecord
	err    error
}

// Aggregate computes a record for every change. Files that are binary or too
// large are reported in Errors instead and produce no record. Any other error,
// such as missing content or cancellation, fails the whole commit.
// Records and errors keep the order of changes.
func (a *Aggregator) Aggregate(ctx context.Context, commit git.CommitRef, changes []treediff.PathChange) (CommitChanges, error) {
	results := make([]fileResult, len(changes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, c := range changes {
		g.Go(func() error {
			rec, err := a.record(gctx, c)
			switch {
			case err == nil:
				results[i].record = rec
			case isolated(err):
				results[i].err = err
			default:
				return fmt.Errorf("%s: %w", c.Path(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CommitChanges{}, err
	}

	out := CommitChanges{Commit: commit}
	for i, r := range results {
		if r.err != nil {
			path := changes[i].Path()
			a.logger.Warn("skipping file",
				zap.String("commit", commit.ShortID()),
				zap.String("path", path),
				zap.Error(r.err))
			out.Errors = append(out.Errors, FileError{Path: path, Err: r.err})
			continue
		}
		out.Records = append(out.Records, r.record)
	}
	return out, nil
}

func (a *Aggregator) record(ctx context.Context, c treediff.PathChange) (ChangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return ChangeRecord{}, err
	}

	rec := newRecord(c)
	if c.IsPureRename() {
		return rec, nil
	}

	var oldLines, newLines []string
	var err error
	if c.Kind != git.ChangeKindAdded {
		if oldLines, err = a.readLines(ctx, c.OldRef); err != nil {
			return ChangeRecord{}, err
		}
	}
	if c.Kind != git.ChangeKindDeleted {
		if newLines, err = a.readLines(ctx, c.NewRef); err != nil {
			return ChangeRecord{}, err
		}
	}

	// Against an empty side the script is a single whole-file Insert or Delete.
	script, err := linediff.Compute(oldLines, newLines, a.diff)
	if err != nil {
		return ChangeRecord{}, err
	}
	rec.Edits = attachText(script, oldLines, newLines)
	return rec, nil
}

func (a *Aggregator) readLines(ctx context.Context, ref git.ContentRef) ([]string, error) {
	content, err := a.store.ReadContent(ctx, ref)
	if err != nil {
		return nil, err
	}
	return linediff.SplitLines(content)
}
