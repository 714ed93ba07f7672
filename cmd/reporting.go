package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changeminer/internal/output"
)

func writeMiningReport(c *cli.Context, report *output.MiningReport) error {
	opts := OutputOptions(c)
	writer := output.NewMiningReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writePathReport(c *cli.Context, report *output.PathReport) error {
	opts := OutputOptions(c)
	writer := output.NewPathReportWriter(opts.Format)
	return writer.Write(report, opts)
}
