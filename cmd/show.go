package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/output"
)

// ShowCmd returns the show command.
func ShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Mine the line-level changes of a single commit",
		ArgsUsage: "<commit>",
		Flags:     append(commonFlags(), linesFlag()),
		Action:    showAction,
	}
}

func showAction(c *cli.Context) error {
	id := "HEAD"
	if c.NArg() > 0 {
		id = c.Args().First()
	}
	if c.NArg() > 1 {
		return fmt.Errorf("show takes at most one commit, got %d", c.NArg())
	}

	return withContext(c, func(ctx *CommandContext) error {
		cc, err := ctx.Miner.MineCommit(c.Context, id)
		if err != nil {
			return fmt.Errorf("failed to mine commit: %w", err)
		}

		report := &output.MiningReport{
			RepoPath:    ctx.RepoPath,
			Start:       id,
			End:         id,
			GeneratedAt: time.Now(),
			Commits:     []changeset.CommitChanges{cc},
		}
		return writeMiningReport(c, report)
	})
}
