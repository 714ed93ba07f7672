package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/masmgr/changeminer/config"
	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
	"github.com/masmgr/changeminer/internal/logging"
	"github.com/masmgr/changeminer/internal/output"
	"github.com/masmgr/changeminer/internal/treediff"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all mining commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Logger   *zap.Logger
	Store    *git.RepoStore
	Miner    *changeset.Miner
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, logger setup, and repository opening.
// Callers must Close the returned context.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(c.String("log-level"))
	if err != nil {
		return nil, err
	}

	opts, err := minerOptions(cfg)
	if err != nil {
		return nil, err
	}

	repoPath := c.String("repo")
	store, err := git.NewRepoStore(repoPath, git.StoreOptions{
		BlobCacheSize: cfg.Cache.Blobs,
		TreeCacheSize: cfg.Cache.Trees,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Logger:   logger,
		Store:    store,
		Miner:    changeset.NewMiner(store, opts, logger),
	}, nil
}

// Close releases the repository and flushes the logger.
func (ctx *CommandContext) Close() error {
	_ = ctx.Logger.Sync()
	return ctx.Store.Close()
}

// minerOptions translates configuration into mining options.
func minerOptions(cfg *config.Config) (changeset.Options, error) {
	ws, err := linediff.ParseWhitespace(cfg.Diff.Whitespace)
	if err != nil {
		return changeset.Options{}, err
	}
	filter, err := treediff.NewFilter(cfg.Filters.Include, cfg.Filters.Exclude, cfg.Filters.Suffixes)
	if err != nil {
		return changeset.Options{}, err
	}

	return changeset.Options{
		Tree: treediff.Options{
			DetectRenames:   cfg.Rename.Enabled,
			RenameThreshold: cfg.Rename.Threshold,
			RenameLimit:     cfg.Rename.Limit,
			Workers:         cfg.Pipeline.Workers,
			Whitespace:      ws,
			Filter:          filter,
		},
		Diff: linediff.Options{
			MaxLines:   cfg.Diff.MaxLines,
			Whitespace: ws,
		},
		Workers: cfg.Pipeline.Workers,
	}, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		OutputPath: c.String("output"),
		ShowLines:  c.Bool("lines"),
	}
}

// withContext runs fn with a CommandContext that is closed afterwards.
func withContext(c *cli.Context, fn func(ctx *CommandContext) error) (err error) {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ctx.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return fn(ctx)
}
