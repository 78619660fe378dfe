// Package report writes the per-run mapping and error reports: one
// timestamped directory per import run, CSV files inside. Failures are
// always written out for offline review, never silently dropped.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/netgrid-labs/invsync/pkg/match"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// Run is one report directory for one import invocation.
type Run struct {
	dir string
}

// NewRun creates "<root>/<importName>/<timestamp>/" and returns the run.
func NewRun(root, importName string) (*Run, error) {
	stamp := time.Now().Format("2006-01-02_15-04-05")
	dir := filepath.Join(root, importName, stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	util.Debugf("Report directory: %s", dir)
	return &Run{dir: dir}, nil
}

// Dir returns the run's directory.
func (r *Run) Dir() string { return r.dir }

// Mapping is one source-to-target match outcome.
type Mapping struct {
	Source  string
	Outcome string
	Match   string
	Score   float64
}

// MappingFromResult converts a match result into a report row.
func MappingFromResult(source string, res match.Result) Mapping {
	m := Mapping{Source: source, Match: res.Candidate, Score: res.Score}
	if res.Matched {
		m.Outcome = "Success"
	} else {
		m.Outcome = "Fail"
		if res.Candidate == "" {
			m.Match = "No Match"
		}
	}
	return m
}

// WriteMappings writes "<name>_mappings.csv" with one row per outcome.
func (r *Run) WriteMappings(name string, rows []Mapping) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"source", "outcome", "match", "score"})
	for _, row := range rows {
		records = append(records, []string{
			row.Source,
			row.Outcome,
			row.Match,
			strconv.FormatFloat(row.Score, 'f', 2, 64),
		})
	}
	return r.writeCSV(name+"_mappings.csv", records)
}

// Failure is one record excluded from load, with its identifying fields and
// reason codes.
type Failure struct {
	Fields  []string
	Reasons []string
}

// WriteFailures writes "<name>_errors.csv". The header names the
// identifying columns; a reason column is appended.
func (r *Run) WriteFailures(name string, header []string, rows []Failure) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, append(append([]string{}, header...), "reason"))
	for _, row := range rows {
		rec := append([]string{}, row.Fields...)
		rec = append(rec, strings.Join(row.Reasons, "|"))
		records = append(records, rec)
	}
	return r.writeCSV(name+"_errors.csv", records)
}

func (r *Run) writeCSV(filename string, records [][]string) error {
	f, err := os.Create(filepath.Join(r.dir, filename))
	if err != nil {
		return fmt.Errorf("creating report %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("writing report %s: %w", filename, err)
	}
	w.Flush()
	return w.Error()
}

// Summary accumulates per-category counters printed at the end of a run.
type Summary struct {
	Created    int
	Updated    int
	Duplicates int
	Failed     int
	Skipped    int
}

// Add merges another summary into this one.
func (s *Summary) Add(o Summary) {
	s.Created += o.Created
	s.Updated += o.Updated
	s.Duplicates += o.Duplicates
	s.Failed += o.Failed
	s.Skipped += o.Skipped
}

// String renders the summary line logged at the end of each import.
func (s *Summary) String() string {
	return fmt.Sprintf("created=%d updated=%d duplicates=%d failed=%d skipped=%d",
		s.Created, s.Updated, s.Duplicates, s.Failed, s.Skipped)
}
