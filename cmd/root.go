package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changeminer/config"
	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/linediff"
	"github.com/masmgr/changeminer/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "changeminer",
		Usage:   "Mine line-level changes from a linear Git history",
		Version: "1.0.0",
		Commands: []*cli.Command{
			MineCmd(),
			ShowCmd(),
			PathsCmd(),
			InitCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, ndjson)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "suffix",
			Usage: "Only consider paths ending in this suffix, e.g. .java (can be specified multiple times)",
		},
		&cli.Float64Flag{
			Name:  "rename-threshold",
			Usage: "Minimum line similarity for a rename, between 0 and 1 (default from config: 0.5)",
		},
		&cli.IntFlag{
			Name:  "rename-limit",
			Usage: "Skip inexact rename detection when removed x added files exceeds this squared (0: no limit)",
		},
		&cli.BoolFlag{
			Name:  "no-renames",
			Usage: "Disable rename detection",
		},
		&cli.IntFlag{
			Name:  "max-lines",
			Usage: "Skip files with more lines than this (0: no limit)",
		},
		&cli.StringFlag{
			Name:  "whitespace",
			Usage: "Line comparison mode (exact, ignore-trailing, ignore-all)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Number of parallel workers (0: one per CPU)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
			Value: "warn",
		},
	}
}

// rangeFlags are the flags selecting a commit range.
func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Usage: "First commit of the range (inclusive)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Last commit of the range (inclusive)",
			Value: "HEAD",
		},
		&cli.StringFlag{
			Name:  "range",
			Usage: "Range as 'start..end' instead of --start/--end",
		},
	}
}

// parseRangeFlags returns the start and end revisions selected by flags.
func parseRangeFlags(c *cli.Context) (string, string, error) {
	if spec := c.String("range"); spec != "" {
		if c.IsSet("start") || c.IsSet("end") {
			return "", "", fmt.Errorf("--range cannot be combined with --start or --end")
		}
		return git.ParseRangeSpec(spec)
	}

	start := strings.TrimSpace(c.String("start"))
	if start == "" {
		return "", "", fmt.Errorf("a range is required: use --start (and --end) or --range start..end")
	}
	end := strings.TrimSpace(c.String("end"))
	if end == "" {
		end = "HEAD"
	}
	return start, end, nil
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch strings.ToLower(s) {
	case "json":
		return output.FormatJSON
	case "ndjson", "ci":
		return output.FormatNDJSON
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults and applies CLI
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if suffixes := c.StringSlice("suffix"); len(suffixes) > 0 {
		cfg.Filters.Suffixes = suffixes
	}

	if c.IsSet("rename-threshold") {
		cfg.Rename.Threshold = c.Float64("rename-threshold")
	}
	if c.IsSet("rename-limit") {
		cfg.Rename.Limit = c.Int("rename-limit")
	}
	if c.Bool("no-renames") {
		cfg.Rename.Enabled = false
	}
	if c.IsSet("max-lines") {
		cfg.Diff.MaxLines = c.Int("max-lines")
	}
	if c.IsSet("whitespace") {
		ws, err := linediff.ParseWhitespace(c.String("whitespace"))
		if err != nil {
			return nil, err
		}
		cfg.Diff.Whitespace = ws.String()
	}
	if c.IsSet("workers") {
		cfg.Pipeline.Workers = c.Int("workers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes the CLI application.
// An interrupt cancels mining at the next commit boundary.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
