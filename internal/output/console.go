package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/git"
)

// palette holds the colors used by console output. Colors are disabled
// when writing to a file.
type palette struct {
	heading *color.Color
	commit  *color.Color
	added   *color.Color
	deleted *color.Color
	errored *color.Color
}

func newPalette(toFile bool) palette {
	p := palette{
		heading: color.New(color.FgGreen),
		commit:  color.New(color.FgYellow),
		added:   color.New(color.FgGreen),
		deleted: color.New(color.FgRed),
		errored: color.New(color.FgRed, color.Bold),
	}
	if toFile {
		for _, c := range []*color.Color{p.heading, p.commit, p.added, p.deleted, p.errored} {
			c.DisableColor()
		}
	}
	return p
}

// ConsoleMiningWriter writes mining reports to the console.
type ConsoleMiningWriter struct{}

// Write outputs the mining report to the console.
func (w *ConsoleMiningWriter) Write(report *MiningReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	p := newPalette(file != nil)

	totals := totalsOf(report.Commits)
	p.heading.Fprintln(out, "Line Change Mining Results")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Range: %s\n", rangeLabel(report.Start, report.End))
	fmt.Fprintf(out, "Commits: %d, Files: %d, Skipped: %d, Lines: +%d -%d\n",
		totals.Commits, totals.Records, totals.Errors, totals.LinesAdded, totals.LinesDeleted)

	for _, cc := range report.Commits {
		fmt.Fprintln(out)
		writeCommitHeader(out, p, cc.Commit)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, r := range cc.Records {
			fmt.Fprintf(tw, "  %s\t%s\t+%d\t-%d\n", kindLetter(r.Kind), recordLabel(r), r.LinesAdded(), r.LinesDeleted())
		}
		tw.Flush()

		if options.ShowLines {
			for _, r := range cc.Records {
				writeEdits(out, p, r)
			}
		}

		for _, fe := range cc.Errors {
			p.errored.Fprintf(out, "  ! %s: %v\n", fe.Path, fe.Err)
		}
	}

	return nil
}

// ConsolePathWriter writes path reports to the console.
type ConsolePathWriter struct{}

// Write outputs the path report to the console.
func (w *ConsolePathWriter) Write(report *PathReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	p := newPalette(file != nil)

	p.heading.Fprintln(out, "Changed Paths")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Range: %s\n", rangeLabel(report.Start, report.End))

	for _, cp := range report.Commits {
		fmt.Fprintln(out)
		writeCommitHeader(out, p, cp.Commit)
		if len(cp.Changes) == 0 {
			fmt.Fprintln(out, "  (no changes)")
			continue
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, c := range cp.Changes {
			if c.Kind == git.ChangeKindRenamed {
				fmt.Fprintf(tw, "  %s\t%s -> %s\t%.0f%%\n", kindLetter(c.Kind), c.OldPath, c.NewPath, c.Similarity*100)
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\t\n", kindLetter(c.Kind), c.Path())
		}
		tw.Flush()
	}

	return nil
}

func writeCommitHeader(out io.Writer, p palette, c git.CommitRef) {
	p.commit.Fprintf(out, "commit %s", c.ShortID())
	when := ""
	if !c.When.IsZero() {
		when = c.When.Format(reportDateTimeLayout) + "  "
	}
	fmt.Fprintf(out, "  %s%s\n", when, truncateMessage(c.Message, 60))
}

func recordLabel(r changeset.ChangeRecord) string {
	if r.Kind == git.ChangeKindRenamed {
		return fmt.Sprintf("%s -> %s (%.0f%%)", r.OldPath, r.NewPath, r.Similarity*100)
	}
	return r.Path()
}

// writeEdits prints each edit of r as a hunk with 1-based line numbers.
func writeEdits(out io.Writer, p palette, r changeset.ChangeRecord) {
	if len(r.Edits) == 0 {
		return
	}
	fmt.Fprintf(out, "  --- %s\n", r.Path())
	for _, e := range r.Edits {
		fmt.Fprintf(out, "  @@ -%s +%s @@ %s\n", hunkRange(e.OldStart, e.OldLen()), hunkRange(e.NewStart, e.NewLen()), e.Kind)
		for _, line := range e.OldLines {
			p.deleted.Fprintf(out, "  -%s\n", line)
		}
		for _, line := range e.NewLines {
			p.added.Fprintf(out, "  +%s\n", line)
		}
	}
}

// hunkRange renders a span the way unified diff headers do.
func hunkRange(start, n int) string {
	if n == 1 {
		return fmt.Sprintf("%d", start+1)
	}
	if n == 0 {
		return fmt.Sprintf("%d,0", start)
	}
	return fmt.Sprintf("%d,%d", start+1, n)
}
