package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/masmgr/changeminer/internal/changeset"
)

// NDJSONSummary is the last line of NDJSON output.
type NDJSONSummary struct {
	Type         string `json:"type"`
	Range        string `json:"range"`
	TotalCommits int    `json:"totalCommits"`
	TotalRecords int    `json:"totalRecords,omitempty"`
	TotalErrors  int    `json:"totalErrors,omitempty"`
	LinesAdded   int    `json:"linesAdded,omitempty"`
	LinesDeleted int    `json:"linesDeleted,omitempty"`
}

// NDJSONCommit is a commit line of mining output.
type NDJSONCommit struct {
	Type string `json:"type"`
	JSONCommit
}

// NDJSONPathCommit is a commit line of path output.
type NDJSONPathCommit struct {
	Type string `json:"type"`
	JSONPathCommit
}

// ndjsonStream writes one line per commit as it arrives and a summary line
// once the range is complete.
type ndjsonStream struct {
	out   io.Writer
	file  *os.File
	label string
}

func openNDJSONStream(start, end string, options OutputOptions) (ndjsonStream, error) {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return ndjsonStream{}, err
	}
	return ndjsonStream{out: out, file: file, label: rangeLabel(start, end)}, nil
}

func (s *ndjsonStream) finish(summary NDJSONSummary) error {
	summary.Type = "summary"
	summary.Range = s.label
	if err := writeNDJSONLine(s.out, summary); err != nil {
		_ = s.Close()
		return err
	}
	return s.Close()
}

// Close releases the output file without writing the summary. It is safe
// to call more than once.
func (s *ndjsonStream) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// NDJSONMiningStream writes a mining report as NDJSON while the range is
// being mined.
type NDJSONMiningStream struct {
	ndjsonStream
	totals miningTotals
}

// NewNDJSONMiningStream opens the output for a mining report of start..end.
func NewNDJSONMiningStream(start, end string, options OutputOptions) (*NDJSONMiningStream, error) {
	s, err := openNDJSONStream(start, end, options)
	if err != nil {
		return nil, err
	}
	return &NDJSONMiningStream{ndjsonStream: s}, nil
}

// WriteCommit writes the line of one mined commit.
func (s *NDJSONMiningStream) WriteCommit(cc changeset.CommitChanges) error {
	s.totals.add(cc)
	return writeNDJSONLine(s.out, NDJSONCommit{Type: "commit", JSONCommit: toJSONCommit(cc)})
}

// Finish writes the summary line and closes the output.
func (s *NDJSONMiningStream) Finish() error {
	return s.finish(NDJSONSummary{
		TotalCommits: s.totals.Commits,
		TotalRecords: s.totals.Records,
		TotalErrors:  s.totals.Errors,
		LinesAdded:   s.totals.LinesAdded,
		LinesDeleted: s.totals.LinesDeleted,
	})
}

// NDJSONPathStream writes a path report as NDJSON while the range is being
// walked.
type NDJSONPathStream struct {
	ndjsonStream
	commits int
}

// NewNDJSONPathStream opens the output for a path report of start..end.
func NewNDJSONPathStream(start, end string, options OutputOptions) (*NDJSONPathStream, error) {
	s, err := openNDJSONStream(start, end, options)
	if err != nil {
		return nil, err
	}
	return &NDJSONPathStream{ndjsonStream: s}, nil
}

// WriteCommit writes the line of one commit's path changes.
func (s *NDJSONPathStream) WriteCommit(cp changeset.CommitPaths) error {
	s.commits++
	return writeNDJSONLine(s.out, NDJSONPathCommit{Type: "commit", JSONPathCommit: toJSONPathCommit(cp)})
}

// Finish writes the summary line and closes the output.
func (s *NDJSONPathStream) Finish() error {
	return s.finish(NDJSONSummary{TotalCommits: s.commits})
}

// NDJSONMiningWriter writes mining reports as NDJSON (one JSON object per
// line): one line per commit followed by a summary line.
type NDJSONMiningWriter struct{}

// Write outputs the mining report as NDJSON.
func (w *NDJSONMiningWriter) Write(report *MiningReport, options OutputOptions) error {
	s, err := NewNDJSONMiningStream(report.Start, report.End, options)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, cc := range report.Commits {
		if err := s.WriteCommit(cc); err != nil {
			return err
		}
	}
	return s.Finish()
}

// NDJSONPathWriter writes path reports as NDJSON.
type NDJSONPathWriter struct{}

// Write outputs the path report as NDJSON.
func (w *NDJSONPathWriter) Write(report *PathReport, options OutputOptions) error {
	s, err := NewNDJSONPathStream(report.Start, report.End, options)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, cp := range report.Commits {
		if err := s.WriteCommit(cp); err != nil {
			return err
		}
	}
	return s.Finish()
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
