package types

import (
	"fmt"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a queued job.
type JobStatus string

// Job lifecycle states. A job only ever moves forward: pending jobs become
// completed (or skipped/failed) and are never reopened.
const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobSkipped   JobStatus = "skipped"
	JobFailed    JobStatus = "failed"
)

// JobRecord is one queued application target.
type JobRecord struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	URL    string    `json:"url" validate:"required,url"`
	Status JobStatus `json:"status"`
}

// RunState is the coarse-grained state shared with the queue controller.
// It is always read and written as a whole object, never field-patched.
type RunState struct {
	Jobs            []JobRecord `json:"jobs"`
	CurrentJobIndex int         `json:"current_job_index"`
	IsRunning       bool        `json:"is_running"`
}

// Current returns the active job, or nil when the index is past the queue.
func (s *RunState) Current() *JobRecord {
	if s.CurrentJobIndex < 0 || s.CurrentJobIndex >= len(s.Jobs) {
		return nil
	}
	return &s.Jobs[s.CurrentJobIndex]
}

// Validate checks the run state for internal consistency.
func (s *RunState) Validate() error {
	if s.CurrentJobIndex < 0 {
		return fmt.Errorf("current_job_index must be non-negative, got %d", s.CurrentJobIndex)
	}
	if s.CurrentJobIndex > len(s.Jobs) {
		return fmt.Errorf("current_job_index %d out of range for %d jobs", s.CurrentJobIndex, len(s.Jobs))
	}
	return nil
}
