package output

import (
	"time"

	"github.com/masmgr/changeminer/internal/changeset"
)

// Compile-time interface conformance checks.
var (
	_ MiningReportWriter = (*ConsoleMiningWriter)(nil)
	_ MiningReportWriter = (*JSONMiningWriter)(nil)
	_ MiningReportWriter = (*NDJSONMiningWriter)(nil)

	_ PathReportWriter = (*ConsolePathWriter)(nil)
	_ PathReportWriter = (*JSONPathWriter)(nil)
	_ PathReportWriter = (*NDJSONPathWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatNDJSON  OutputFormat = "ndjson"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	ShowLines  bool // Console only: print the text of every edit
}

// MiningReport holds the line-level changes of a commit range.
type MiningReport struct {
	RepoPath    string
	Start       string
	End         string
	GeneratedAt time.Time
	Commits     []changeset.CommitChanges
}

// PathReport holds the path-level changes of a commit range.
type PathReport struct {
	RepoPath    string
	Start       string
	End         string
	GeneratedAt time.Time
	Commits     []changeset.CommitPaths
}

// MiningReportWriter writes mining reports.
type MiningReportWriter interface {
	Write(report *MiningReport, options OutputOptions) error
}

// PathReportWriter writes path reports.
type PathReportWriter interface {
	Write(report *PathReport, options OutputOptions) error
}

// NewMiningReportWriter creates a mining report writer for the specified format.
func NewMiningReportWriter(format OutputFormat) MiningReportWriter {
	switch format {
	case FormatJSON:
		return &JSONMiningWriter{}
	case FormatNDJSON:
		return &NDJSONMiningWriter{}
	default:
		return &ConsoleMiningWriter{}
	}
}

// NewPathReportWriter creates a path report writer for the specified format.
func NewPathReportWriter(format OutputFormat) PathReportWriter {
	switch format {
	case FormatJSON:
		return &JSONPathWriter{}
	case FormatNDJSON:
		return &NDJSONPathWriter{}
	default:
		return &ConsolePathWriter{}
	}
}
