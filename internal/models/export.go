package models

import (
	"fmt"
	"time"
)

// Export job kinds.
const (
	JobExport = "export"
	JobUpload = "upload"
)

// Export job statuses.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobPartial   = "partial"
	JobFailed    = "failed"
)

// ExportJob records one bulk export or upload run.
type ExportJob struct {
	id           string
	kind         string
	target       string
	status       string
	itemsTotal   int
	itemsDone    int
	itemsFailed  int
	errorMessage string
	startedAt    *time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewExportJob creates a pending job of kind writing to (or reading from) target.
func NewExportJob(kind, target string) *ExportJob {
	now := time.Now()
	return &ExportJob{
		kind:      kind,
		target:    target,
		status:    JobPending,
		createdAt: now,
		updatedAt: now,
	}
}

func (j *ExportJob) ID() string              { return j.id }
func (j *ExportJob) Kind() string            { return j.kind }
func (j *ExportJob) Target() string          { return j.target }
func (j *ExportJob) Status() string          { return j.status }
func (j *ExportJob) ItemsTotal() int         { return j.itemsTotal }
func (j *ExportJob) ItemsDone() int          { return j.itemsDone }
func (j *ExportJob) ItemsFailed() int        { return j.itemsFailed }
func (j *ExportJob) ErrorMessage() string    { return j.errorMessage }
func (j *ExportJob) StartedAt() *time.Time   { return j.startedAt }
func (j *ExportJob) CompletedAt() *time.Time { return j.completedAt }
func (j *ExportJob) CreatedAt() time.Time    { return j.createdAt }
func (j *ExportJob) UpdatedAt() time.Time    { return j.updatedAt }
func (j *ExportJob) DeletedAt() *time.Time   { return j.deletedAt }

func (j *ExportJob) SetID(id string)                  { j.id = id }
func (j *ExportJob) SetStatus(status string)          { j.status = status }
func (j *ExportJob) SetItemsTotal(n int)              { j.itemsTotal = n }
func (j *ExportJob) SetItemsDone(n int)               { j.itemsDone = n }
func (j *ExportJob) SetItemsFailed(n int)             { j.itemsFailed = n }
func (j *ExportJob) SetErrorMessage(msg string)       { j.errorMessage = msg }
func (j *ExportJob) SetStartedAt(t *time.Time)        { j.startedAt = t }
func (j *ExportJob) SetCompletedAt(t *time.Time)      { j.completedAt = t }
func (j *ExportJob) SetCreatedAt(t time.Time)         { j.createdAt = t }
func (j *ExportJob) SetUpdatedAt(t time.Time)         { j.updatedAt = t }
func (j *ExportJob) SetDeletedAt(t *time.Time)        { j.deletedAt = t }

// Start marks the job running.
func (j *ExportJob) Start(total int) {
	now := time.Now()
	j.status = JobRunning
	j.itemsTotal = total
	j.startedAt = &now
}

// Finish records the outcome: completed when nothing failed, failed when nothing succeeded, partial otherwise.
func (j *ExportJob) Finish(done, failed int, errMsg string) {
	now := time.Now()
	j.itemsDone = done
	j.itemsFailed = failed
	j.errorMessage = errMsg
	j.completedAt = &now

	switch {
	case failed == 0:
		j.status = JobCompleted
	case done == 0:
		j.status = JobFailed
	default:
		j.status = JobPartial
	}
}

// Duration returns how long the job ran, or zero if it has not finished.
func (j *ExportJob) Duration() time.Duration {
	if j.startedAt == nil || j.completedAt == nil {
		return 0
	}
	return j.completedAt.Sub(*j.startedAt)
}

// Validate checks the job's required fields.
func (j *ExportJob) Validate() error {
	if j.kind != JobExport && j.kind != JobUpload {
		return fmt.Errorf("unknown job kind %q", j.kind)
	}
	if j.target == "" {
		return fmt.Errorf("job target is required")
	}
	switch j.status {
	case JobPending, JobRunning, JobCompleted, JobPartial, JobFailed:
	default:
		return fmt.Errorf("unknown job status %q", j.status)
	}
	if j.itemsDone < 0 || j.itemsFailed < 0 || j.itemsTotal < 0 {
		return fmt.Errorf("item counts must not be negative")
	}
	return nil
}

var _ Model = (*ExportJob)(nil)
