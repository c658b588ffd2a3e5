// Package queue manages the job queue around the fill engine: loading
// application targets from CSV or JSON, skipping login-walled job boards,
// persisting the shared run state, and recording per-job outcomes.
package queue

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/prathamesh/auto-apply/internal/types"
)

// skipDomains are job boards that sit behind a login wall; automated fills
// there only burn time and trip bot detection.
var skipDomains = []string{
	"myworkdayjobs.com",
	"workday.com",
	"greenhouse.io",
	"lever.co",
	"naukri.com",
	"linkedin.com",
	"indeed.com",
}

// ShouldSkip reports whether a job URL belongs to a login-walled board,
// returning the matched domain as the skip reason.
func ShouldSkip(url string) (reason string, skip bool) {
	lower := strings.ToLower(url)
	for _, domain := range skipDomains {
		if strings.Contains(lower, domain) {
			return domain, true
		}
	}
	return "", false
}

// LoadJobsCSV reads a job list from a CSV file with a name,url header.
// Rows missing a URL are kept (they surface as explicit failures in the
// results instead of silently disappearing from the queue).
func LoadJobsCSV(path string) ([]types.JobRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to open %s", path), Cause: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Message: "failed to read CSV header", Cause: err}
	}

	nameCol, urlCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameCol = i
		case "url":
			urlCol = i
		}
	}
	if urlCol < 0 {
		return nil, &LoadError{Message: "CSV header has no url column"}
	}

	var jobs []types.JobRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Message: "failed to read CSV row", Cause: err}
		}
		job := types.JobRecord{
			ID:     uuid.New(),
			URL:    strings.TrimSpace(column(row, urlCol)),
			Name:   strings.TrimSpace(column(row, nameCol)),
			Status: types.JobPending,
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// LoadJobsJSON reads a job list from a JSON array of records. Jobs without
// an ID are assigned one; jobs without a status start pending.
func LoadJobsJSON(path string) ([]types.JobRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}

	var jobs []types.JobRecord
	if err := json.Unmarshal(content, &jobs); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal jobs JSON", Cause: err}
	}

	for i := range jobs {
		if jobs[i].ID == uuid.Nil {
			jobs[i].ID = uuid.New()
		}
		if jobs[i].Status == "" {
			jobs[i].Status = types.JobPending
		}
	}
	return jobs, nil
}

func column(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
