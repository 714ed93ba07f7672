package output

import (
	"io"
	"os"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/git"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// rangeLabel renders the range the report covers.
func rangeLabel(start, end string) string {
	if start == end {
		return start
	}
	return start + ".." + end
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}

// kindLetter is the one-letter status git uses for each change kind.
func kindLetter(k git.ChangeKind) string {
	switch k {
	case git.ChangeKindAdded:
		return "A"
	case git.ChangeKindModified:
		return "M"
	case git.ChangeKindDeleted:
		return "D"
	case git.ChangeKindRenamed:
		return "R"
	default:
		return "?"
	}
}

// miningTotals summarizes a mining report.
type miningTotals struct {
	Commits      int
	Records      int
	Errors       int
	LinesAdded   int
	LinesDeleted int
}

func (t *miningTotals) add(cc changeset.CommitChanges) {
	t.Commits++
	t.Records += len(cc.Records)
	t.Errors += len(cc.Errors)
	for _, r := range cc.Records {
		t.LinesAdded += r.LinesAdded()
		t.LinesDeleted += r.LinesDeleted()
	}
}

func totalsOf(commits []changeset.CommitChanges) miningTotals {
	var t miningTotals
	for _, cc := range commits {
		t.add(cc)
	}
	return t
}
