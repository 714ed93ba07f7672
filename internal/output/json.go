package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/masmgr/changeminer/internal/changeset"
	"github.com/masmgr/changeminer/internal/git"
	"github.com/masmgr/changeminer/internal/treediff"
)

// JSONMiningWriter writes mining reports as JSON.
type JSONMiningWriter struct{}

// JSONMiningReport is the JSON output structure for a mining report.
type JSONMiningReport struct {
	RepoPath     string       `json:"repo"`
	Range        string       `json:"range"`
	GeneratedAt  string       `json:"generatedAt"`
	TotalCommits int          `json:"totalCommits"`
	TotalRecords int          `json:"totalRecords"`
	TotalErrors  int          `json:"totalErrors"`
	LinesAdded   int          `json:"linesAdded"`
	LinesDeleted int          `json:"linesDeleted"`
	Commits      []JSONCommit `json:"commits"`
}

// JSONCommitInfo identifies a commit in JSON output.
type JSONCommitInfo struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents"`
	When    string   `json:"when"`
	Author  string   `json:"author"`
	Email   string   `json:"email"`
	Message string   `json:"message"`
}

// JSONCommit is the JSON output structure for one mined commit.
type JSONCommit struct {
	JSONCommitInfo
	Records []JSONRecord    `json:"records"`
	Errors  []JSONFileError `json:"errors"`
}

// JSONRecord is the JSON output structure for one changed file.
type JSONRecord struct {
	Kind         string     `json:"kind"`
	OldPath      string     `json:"oldPath,omitempty"`
	NewPath      string     `json:"newPath,omitempty"`
	Similarity   float64    `json:"similarity,omitempty"`
	LinesAdded   int        `json:"linesAdded"`
	LinesDeleted int        `json:"linesDeleted"`
	Edits        []JSONEdit `json:"edits"`
}

// JSONEdit is the JSON output structure for one edit span.
type JSONEdit struct {
	Kind     string   `json:"kind"`
	OldStart int      `json:"oldStart"`
	OldEnd   int      `json:"oldEnd"`
	NewStart int      `json:"newStart"`
	NewEnd   int      `json:"newEnd"`
	OldLines []string `json:"oldLines,omitempty"`
	NewLines []string `json:"newLines,omitempty"`
}

// JSONFileError is the JSON output structure for a skipped file.
type JSONFileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// JSONPathChange is the JSON output structure for a path-level change.
type JSONPathChange struct {
	Kind       string  `json:"kind"`
	OldPath    string  `json:"oldPath,omitempty"`
	NewPath    string  `json:"newPath,omitempty"`
	OldRef     string  `json:"oldRef,omitempty"`
	NewRef     string  `json:"newRef,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// JSONPathCommit is the JSON output structure for one commit's path changes.
type JSONPathCommit struct {
	JSONCommitInfo
	Changes []JSONPathChange `json:"changes"`
}

// JSONPathReport is the JSON output structure for a path report.
type JSONPathReport struct {
	RepoPath     string           `json:"repo"`
	Range        string           `json:"range"`
	GeneratedAt  string           `json:"generatedAt"`
	TotalCommits int              `json:"totalCommits"`
	Commits      []JSONPathCommit `json:"commits"`
}

func toJSONCommitInfo(c git.CommitRef) JSONCommitInfo {
	parents := c.ParentIDs
	if parents == nil {
		parents = []string{}
	}
	return JSONCommitInfo{
		ID:      c.ID,
		Parents: parents,
		When:    c.When.Format(time.RFC3339),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		Message: c.Message,
	}
}

func toJSONCommit(cc changeset.CommitChanges) JSONCommit {
	out := JSONCommit{
		JSONCommitInfo: toJSONCommitInfo(cc.Commit),
		Records:        make([]JSONRecord, len(cc.Records)),
		Errors:         make([]JSONFileError, len(cc.Errors)),
	}
	for i, r := range cc.Records {
		edits := make([]JSONEdit, len(r.Edits))
		for j, e := range r.Edits {
			edits[j] = JSONEdit{
				Kind:     e.Kind.String(),
				OldStart: e.OldStart,
				OldEnd:   e.OldEnd,
				NewStart: e.NewStart,
				NewEnd:   e.NewEnd,
				OldLines: e.OldLines,
				NewLines: e.NewLines,
			}
		}
		out.Records[i] = JSONRecord{
			Kind:         r.Kind.String(),
			OldPath:      r.OldPath,
			NewPath:      r.NewPath,
			Similarity:   r.Similarity,
			LinesAdded:   r.LinesAdded(),
			LinesDeleted: r.LinesDeleted(),
			Edits:        edits,
		}
	}
	for i, fe := range cc.Errors {
		out.Errors[i] = JSONFileError{Path: fe.Path, Error: fe.Err.Error()}
	}
	return out
}

func toJSONPathCommit(cp changeset.CommitPaths) JSONPathCommit {
	out := JSONPathCommit{
		JSONCommitInfo: toJSONCommitInfo(cp.Commit),
		Changes:        make([]JSONPathChange, len(cp.Changes)),
	}
	for i, c := range cp.Changes {
		out.Changes[i] = toJSONPathChange(c)
	}
	return out
}

func toJSONPathChange(c treediff.PathChange) JSONPathChange {
	return JSONPathChange{
		Kind:       c.Kind.String(),
		OldPath:    c.OldPath,
		NewPath:    c.NewPath,
		OldRef:     string(c.OldRef),
		NewRef:     string(c.NewRef),
		Similarity: c.Similarity,
	}
}

// Write outputs the mining report as JSON.
func (w *JSONMiningWriter) Write(report *MiningReport, options OutputOptions) error {
	totals := totalsOf(report.Commits)
	commits := make([]JSONCommit, len(report.Commits))
	for i, cc := range report.Commits {
		commits[i] = toJSONCommit(cc)
	}

	jsonReport := JSONMiningReport{
		RepoPath:     report.RepoPath,
		Range:        rangeLabel(report.Start, report.End),
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalCommits: totals.Commits,
		TotalRecords: totals.Records,
		TotalErrors:  totals.Errors,
		LinesAdded:   totals.LinesAdded,
		LinesDeleted: totals.LinesDeleted,
		Commits:      commits,
	}
	return writeJSON(jsonReport, options.OutputPath)
}

// JSONPathWriter writes path reports as JSON.
type JSONPathWriter struct{}

// Write outputs the path report as JSON.
func (w *JSONPathWriter) Write(report *PathReport, options OutputOptions) error {
	commits := make([]JSONPathCommit, len(report.Commits))
	for i, cp := range report.Commits {
		commits[i] = toJSONPathCommit(cp)
	}

	jsonReport := JSONPathReport{
		RepoPath:     report.RepoPath,
		Range:        rangeLabel(report.Start, report.End),
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalCommits: len(report.Commits),
		Commits:      commits,
	}
	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
