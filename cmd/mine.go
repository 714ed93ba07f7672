package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/output"
)

// linesFlag prints the text of every edit in console output.
func linesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "lines",
		Aliases: []string{"l"},
		Usage:   "Print the removed and added lines of every edit (console format)",
	}
}

// MineCmd returns the mine command.
func MineCmd() *cli.Command {
	flags := append(commonFlags(), rangeFlags()...)
	flags = append(flags, linesFlag())

	return &cli.Command{
		Name:    "mine",
		Aliases: []string{"m"},
		Usage:   "Mine line-level changes for every commit in a range",
		Flags:   flags,
		Action:  mineAction,
	}
}

func mineAction(c *cli.Context) error {
	start, end, err := parseRangeFlags(c)
	if err != nil {
		return err
	}

	return withContext(c, func(ctx *CommandContext) error {
		if opts := OutputOptions(c); opts.Format == output.FormatNDJSON {
			return streamMining(c, ctx, start, end, opts)
		}

		report := &output.MiningReport{
			RepoPath: ctx.RepoPath,
			Start:    start,
			End:      end,
		}

		err := ctx.Miner.MineRange(c.Context, start, end, func(cc changeset.CommitChanges) error {
			report.Commits = append(report.Commits, cc)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to mine range: %w", err)
		}

		report.GeneratedAt = time.Now()
		return writeMiningReport(c, report)
	})
}

// streamMining writes each commit's NDJSON line as soon as it is mined.
func streamMining(c *cli.Context, ctx *CommandContext, start, end string, opts output.OutputOptions) error {
	stream, err := output.NewNDJSONMiningStream(start, end, opts)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := ctx.Miner.MineRange(c.Context, start, end, stream.WriteCommit); err != nil {
		return fmt.Errorf("failed to mine range: %w", err)
	}
	return stream.Finish()
}
