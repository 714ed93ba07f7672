package changeset

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
	"github.com/masmgr/changeminer/internal/treediff"
)

// Options configures a Miner.
type Options struct {
	Tree    treediff.Options
	Diff    linediff.Options
	Workers int // Parallelism for commits and for files within a commit; <= 0 means GOMAXPROCS
}

// DefaultOptions returns the default mining options.
func DefaultOptions() Options {
	return Options{
		Tree: treediff.DefaultOptions(),
		Diff: linediff.DefaultOptions(),
	}
}

// Miner mines line-level changes from a linear commit history.
type Miner struct {
	store    git.ContentStore
	resolver *git.RangeResolver
	engine   *treediff.Engine
	agg      *Aggregator
	workers  int
	logger   *zap.Logger
}

// NewMiner creates a Miner reading through store. A nil logger disables
// logging.
func NewMiner(store git.ContentStore, opts Options, logger *zap.Logger) *Miner {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tree := opts.Tree
	if tree.Workers <= 0 {
		tree.Workers = workers
	}
	// Rename similarity uses the line differ's comparison mode.
	tree.Whitespace = opts.Diff.Whitespace

	return &Miner{
		store:    store,
		resolver: git.NewRangeResolver(store),
		engine:   treediff.NewEngine(store, tree, logger),
		agg:      NewAggregator(store, opts.Diff, workers, logger),
		workers:  workers,
		logger:   logger,
	}
}

// MineRange mines every commit from startID to endID inclusive and passes
// the results to emit in commit order. Each commit is compared with its
// predecessor; the start commit is compared with its first parent, or with
// the empty tree when it is a root commit. Commits are processed
// concurrently. The first error from mining or from emit ends the run.
func (m *Miner) MineRange(ctx context.Context, startID, endID string, emit func(CommitChanges) error) error {
	commits, err := m.resolver.Resolve(ctx, startID, endID)
	if err != nil {
		return err
	}
	m.logger.Debug("resolved range",
		zap.String("start", startID),
		zap.String("end", endID),
		zap.Int("commits", len(commits)))

	return runOrdered(ctx, len(commits), m.workers, func(ctx context.Context, i int) (CommitChanges, error) {
		changes, err := m.pathChanges(ctx, commits, i)
		if err != nil {
			return CommitChanges{}, err
		}
		cc, err := m.agg.Aggregate(ctx, commits[i], changes)
		if err != nil {
			return CommitChanges{}, fmt.Errorf("commit %s: %w", commits[i].ShortID(), err)
		}
		m.logger.Debug("mined commit",
			zap.String("commit", commits[i].ShortID()),
			zap.Int("records", len(cc.Records)),
			zap.Int("errors", len(cc.Errors)))
		return cc, nil
	}, emit)
}

// MineCommit mines a single commit against its first parent.
func (m *Miner) MineCommit(ctx context.Context, id string) (CommitChanges, error) {
	c, err := m.resolveLinear(ctx, id)
	if err != nil {
		return CommitChanges{}, err
	}
	changes, err := m.pathChanges(ctx, []git.CommitRef{c}, 0)
	if err != nil {
		return CommitChanges{}, err
	}
	cc, err := m.agg.Aggregate(ctx, c, changes)
	if err != nil {
		return CommitChanges{}, fmt.Errorf("commit %s: %w", c.ShortID(), err)
	}
	return cc, nil
}

// ChangedPaths reports the path-level changes of every commit from startID
// to endID inclusive, in commit order. File content is only read for
// rename detection.
func (m *Miner) ChangedPaths(ctx context.Context, startID, endID string, emit func(CommitPaths) error) error {
	commits, err := m.resolver.Resolve(ctx, startID, endID)
	if err != nil {
		return err
	}

	return runOrdered(ctx, len(commits), m.workers, func(ctx context.Context, i int) (CommitPaths, error) {
		changes, err := m.pathChanges(ctx, commits, i)
		if err != nil {
			return CommitPaths{}, err
		}
		return CommitPaths{Commit: commits[i], Changes: changes}, nil
	}, emit)
}

func (m *Miner) resolveLinear(ctx context.Context, id string) (git.CommitRef, error) {
	c, err := m.store.ResolveCommit(ctx, id)
	if err != nil {
		return git.CommitRef{}, err
	}
	if c.IsMerge() {
		return git.CommitRef{}, &git.NonLinearHistoryError{CommitID: c.ID, Parents: len(c.ParentIDs)}
	}
	return c, nil
}

// pathChanges diffs commits[i] against commits[i-1], or against the first
// parent of commits[0].
func (m *Miner) pathChanges(ctx context.Context, commits []git.CommitRef, i int) ([]treediff.PathChange, error) {
	c := commits[i]

	var prev *git.CommitRef
	if i > 0 {
		prev = &commits[i-1]
	} else {
		parent, err := m.store.ParentOf(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("parent of %s: %w", c.ShortID(), err)
		}
		prev = parent
	}

	var oldTree git.TreeSnapshot
	if prev != nil {
		t, err := m.store.TreeOf(ctx, *prev)
		if err != nil {
			return nil, fmt.Errorf("tree of %s: %w", prev.ShortID(), err)
		}
		oldTree = t
	}
	newTree, err := m.store.TreeOf(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("tree of %s: %w", c.ShortID(), err)
	}

	changes, err := m.engine.Diff(ctx, oldTree, newTree)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", c.ShortID(), err)
	}
	return changes, nil
}
