package queue

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is one job's outcome row in the results log.
type Result struct {
	Name         string
	URL          string
	Status       string
	FieldsFound  int
	FieldsFilled int
	Submitted    string
	Error        string
	Timestamp    time.Time
}

// Submitted markers. Manual means the human finished the job by hand after
// an instruction from the engine.
const (
	SubmittedYes    = "Yes"
	SubmittedNo     = "No"
	SubmittedManual = "Manual"
	SubmittedFailed = "Failed"
)

var resultHeader = []string{
	"name", "url", "status", "fields_found", "fields_filled",
	"submitted", "error", "timestamp",
}

// ResultLog accumulates per-job results and rewrites the CSV file after
// every append, so an interrupted run still leaves a complete log of every
// job that finished before the interruption.
type ResultLog struct {
	path    string
	results []Result
}

// NewResultLog creates a log that writes to path.
func NewResultLog(path string) *ResultLog {
	return &ResultLog{path: path}
}

// Append records a result and flushes the whole log to disk. A zero
// timestamp is stamped with the current time.
func (l *ResultLog) Append(r Result) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if r.Submitted == "" {
		r.Submitted = SubmittedNo
	}
	l.results = append(l.results, r)
	return l.flush()
}

// Results returns the accumulated rows.
func (l *ResultLog) Results() []Result {
	return l.results
}

// CountByStatus tallies the rows for the end-of-run summary.
func (l *ResultLog) CountByStatus() map[string]int {
	counts := make(map[string]int)
	for _, r := range l.results {
		counts[r.Status]++
	}
	return counts
}

func (l *ResultLog) flush() error {
	f, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("failed to create results file %s: %w", l.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}
	for _, r := range l.results {
		row := []string{
			r.Name,
			r.URL,
			r.Status,
			strconv.Itoa(r.FieldsFound),
			strconv.Itoa(r.FieldsFilled),
			r.Submitted,
			r.Error,
			r.Timestamp.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush results file: %w", err)
	}
	return nil
}
