package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/output"
)

// PathsCmd returns the paths command.
func PathsCmd() *cli.Command {
	return &cli.Command{
		Name:    "paths",
		Aliases: []string{"p"},
		Usage:   "List added, deleted, modified and renamed paths per commit",
		Flags:   append(commonFlags(), rangeFlags()...),
		Action:  pathsAction,
	}
}

func pathsAction(c *cli.Context) error {
	start, end, err := parseRangeFlags(c)
	if err != nil {
		return err
	}

	return withContext(c, func(ctx *CommandContext) error {
		if opts := OutputOptions(c); opts.Format == output.FormatNDJSON {
			stream, err := output.NewNDJSONPathStream(start, end, opts)
			if err != nil {
				return err
			}
			defer stream.Close()

			if err := ctx.Miner.ChangedPaths(c.Context, start, end, stream.WriteCommit); err != nil {
				return fmt.Errorf("failed to list changed paths: %w", err)
			}
			return stream.Finish()
		}

		report := &output.PathReport{
			RepoPath: ctx.RepoPath,
			Start:    start,
			End:      end,
		}

		err := ctx.Miner.ChangedPaths(c.Context, start, end, func(cp changeset.CommitPaths) error {
			report.Commits = append(report.Commits, cp)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to list changed paths: %w", err)
		}

		report.GeneratedAt = time.Now()
		return writePathReport(c, report)
	})
}
