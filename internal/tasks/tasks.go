package tasks

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	defaultRate    = 5.0
)

// JobStore persists run history. [repositories.ExportRepository] implements it.
type JobStore interface {
	Create(job *models.ExportJob) error
	Update(job *models.ExportJob) error
}

// Engine runs bulk operations through a [services.Hub].
type Engine struct {
	hub    *services.Hub
	store  JobStore
	logger *log.Logger
}

// NewEngine creates an Engine. store may be nil to skip job history.
func NewEngine(hub *services.Hub, store JobStore, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{hub: hub, store: store, logger: shared.WithLogger(logger, "component", "tasks")}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *Engine) startJob(kind, target string, total int) *models.ExportJob {
	job := models.NewExportJob(kind, target)
	job.Start(total)
	if e.store == nil {
		return job
	}
	if err := e.store.Create(job); err != nil {
		e.logger.Warn("failed to record job", "kind", kind, "error", err)
	}
	return job
}

func (e *Engine) finishJob(job *models.ExportJob, done, failed int, errMsg string) {
	job.Finish(done, failed, errMsg)
	if e.store == nil || job.ID() == "" {
		return
	}
	if err := e.store.Update(job); err != nil {
		e.logger.Warn("failed to update job", "job", job.ID(), "error", err)
	}
}

func normalizeWorkers(n int) int {
	if n <= 0 {
		return defaultWorkers
	}
	return min(n, maxWorkers)
}

func normalizeRate(r float64) float64 {
	if r <= 0 {
		return defaultRate
	}
	return r
}

// countItems reports the length of a slice or map result and 1 for anything else.
func countItems(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return 1
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return services.Message(err)
}

func requireHub(h *services.Hub) error {
	if h == nil {
		return fmt.Errorf("%w: hub not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}
