package treediff

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
)

// Options configures an Engine.
type Options struct {
	DetectRenames   bool
	RenameThreshold float64 // Minimum similarity for an inexact rename
	RenameLimit     int     // Inexact detection is skipped above RenameLimit² candidate pairs; 0 means no limit
	Workers         int     // Content fetch and scoring parallelism; <= 0 means GOMAXPROCS
	Whitespace      linediff.Whitespace
	Filter          *Filter
}

// DefaultOptions returns the default tree diff options.
func DefaultOptions() Options {
	return Options{
		DetectRenames:   true,
		RenameThreshold: 0.5,
		RenameLimit:     400,
		Whitespace:      linediff.WhitespaceExact,
	}
}

// Engine computes path-level changes between tree snapshots.
type Engine struct {
	store  git.ContentReader
	opts   Options
	logger *zap.Logger
}

// NewEngine creates an Engine that reads rename candidates from store.
// A nil logger disables logging.
func NewEngine(store git.ContentReader, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, opts: opts, logger: logger}
}

func (e *Engine) workers() int {
	if e.opts.Workers > 0 {
		return e.opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Diff returns the changes turning oldTree into newTree, ordered by primary
// path. A nil oldTree stands for the empty tree.
func (e *Engine) Diff(ctx context.Context, oldTree, newTree git.TreeSnapshot) ([]PathChange, error) {
	oldTree = e.opts.Filter.Apply(oldTree)
	newTree = e.opts.Filter.Apply(newTree)

	var changes []PathChange
	var sources, targets []string

	for _, p := range oldTree.Paths() {
		oe := oldTree[p]
		ne, ok := newTree[p]
		switch {
		case !ok:
			sources = append(sources, p)
		case ne.Ref != oe.Ref:
			changes = append(changes, PathChange{
				Kind:    git.ChangeKindModified,
				OldPath: p,
				NewPath: p,
				OldRef:  oe.Ref,
				NewRef:  ne.Ref,
			})
		}
	}
	for _, p := range newTree.Paths() {
		if _, ok := oldTree[p]; !ok {
			targets = append(targets, p)
		}
	}

	if e.opts.DetectRenames && len(sources) > 0 && len(targets) > 0 {
		var renames []PathChange
		var err error
		renames, sources, targets, err = e.detectRenames(ctx, oldTree, newTree, sources, targets)
		if err != nil {
			return nil, err
		}
		changes = append(changes, renames...)
	}

	for _, p := range sources {
		changes = append(changes, PathChange{
			Kind:    git.ChangeKindDeleted,
			OldPath: p,
			OldRef:  oldTree[p].Ref,
		})
	}
	for _, p := range targets {
		changes = append(changes, PathChange{
			Kind:    git.ChangeKindAdded,
			NewPath: p,
			NewRef:  newTree[p].Ref,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path() < changes[j].Path()
	})
	return changes, nil
}

// detectRenames pairs sources with targets and returns the renames together
// with the sources and targets left unpaired. Both input slices are sorted.
func (e *Engine) detectRenames(ctx context.Context, oldTree, newTree git.TreeSnapshot, sources, targets []string) ([]PathChange, []string, []string, error) {
	renames, sources, targets := pairExact(oldTree, newTree, sources, targets)
	if len(sources) == 0 || len(targets) == 0 {
		return renames, sources, targets, nil
	}

	if limit := e.opts.RenameLimit; limit > 0 && len(sources)*len(targets) > limit*limit {
		e.logger.Debug("rename limit exceeded, skipping inexact rename detection",
			zap.Int("sources", len(sources)),
			zap.Int("targets", len(targets)),
			zap.Int("limit", limit))
		return renames, sources, targets, nil
	}

	inexact, err := e.pairSimilar(ctx, oldTree, newTree, sources, targets)
	if err != nil {
		return nil, nil, nil, err
	}

	pairedSrc := make(map[string]bool, len(inexact))
	pairedDst := make(map[string]bool, len(inexact))
	for _, r := range inexact {
		pairedSrc[r.OldPath] = true
		pairedDst[r.NewPath] = true
	}
	renames = append(renames, inexact...)
	return renames, without(sources, pairedSrc), without(targets, pairedDst), nil
}

// pairExact pairs sources and targets with identical content. When several
// share a ref they are matched in path order.
func pairExact(oldTree, newTree git.TreeSnapshot, sources, targets []string) ([]PathChange, []string, []string) {
	byRef := make(map[git.ContentRef][]string)
	for _, t := range targets {
		ref := newTree[t].Ref
		byRef[ref] = append(byRef[ref], t)
	}

	var renames []PathChange
	var restSources []string
	paired := make(map[string]bool)
	for _, s := range sources {
		ref := oldTree[s].Ref
		queue := byRef[ref]
		if len(queue) == 0 {
			restSources = append(restSources, s)
			continue
		}
		t := queue[0]
		byRef[ref] = queue[1:]
		paired[t] = true
		renames = append(renames, PathChange{
			Kind:       git.ChangeKindRenamed,
			OldPath:    s,
			NewPath:    t,
			OldRef:     ref,
			NewRef:     ref,
			Similarity: 1.0,
		})
	}
	return renames, restSources, without(targets, paired)
}

type candidate struct {
	src, dst string
	score    float64
}

// pairSimilar scores every remaining source against every remaining target
// and greedily takes the best qualifying pairs. Binary files never pair here.
func (e *Engine) pairSimilar(ctx context.Context, oldTree, newTree git.TreeSnapshot, sources, targets []string) ([]PathChange, error) {
	refs := make([]git.ContentRef, 0, len(sources)+len(targets))
	seen := make(map[git.ContentRef]bool)
	for _, s := range sources {
		if ref := oldTree[s].Ref; !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	for _, t := range targets {
		if ref := newTree[t].Ref; !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	bags, err := e.loadBags(ctx, refs)
	if err != nil {
		return nil, err
	}

	// Every score is computed before any pair is taken.
	threshold := e.opts.RenameThreshold
	rows := make([][]candidate, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, s := range sources {
		sb, ok := bags[oldTree[s].Ref]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, t := range targets {
				tb, ok := bags[newTree[t].Ref]
				if !ok || maxSimilarity(sb, tb) < threshold {
					continue
				}
				if score := similarity(sb, tb); score >= threshold {
					rows[i] = append(rows[i], candidate{src: s, dst: t, score: score})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var candidates []candidate
	for _, row := range rows {
		candidates = append(candidates, row...)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.src != b.src {
			return a.src < b.src
		}
		return a.dst < b.dst
	})

	usedSrc := make(map[string]bool)
	usedDst := make(map[string]bool)
	var renames []PathChange
	for _, c := range candidates {
		if usedSrc[c.src] || usedDst[c.dst] {
			continue
		}
		usedSrc[c.src] = true
		usedDst[c.dst] = true
		renames = append(renames, PathChange{
			Kind:       git.ChangeKindRenamed,
			OldPath:    c.src,
			NewPath:    c.dst,
			OldRef:     oldTree[c.src].Ref,
			NewRef:     newTree[c.dst].Ref,
			Similarity: c.score,
		})
	}
	return renames, nil
}

// loadBags fetches refs concurrently and returns the line multiset of each
// text object. Binary objects are left out.
func (e *Engine) loadBags(ctx context.Context, refs []git.ContentRef) (map[git.ContentRef]lineBag, error) {
	contents := make([][]byte, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, ref := range refs {
		g.Go(func() error {
			b, err := e.store.ReadContent(gctx, ref)
			if err != nil {
				return fmt.Errorf("read rename candidate %s: %w", ref, err)
			}
			contents[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A single interner gives ids that are comparable across files.
	in := linediff.NewInterner(e.opts.Whitespace)
	bags := make(map[git.ContentRef]lineBag, len(refs))
	for i, ref := range refs {
		lines, err := linediff.SplitLines(contents[i])
		if err != nil {
			continue
		}
		bags[ref] = newLineBag(in.Intern(lines))
	}
	return bags, nil
}

func without(paths []string, drop map[string]bool) []string {
	if len(drop) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !drop[p] {
			out = append(out, p)
		}
	}
	return out
}
