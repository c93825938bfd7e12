package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"golang.org/x/time/rate"
)

// ManifestFile is the name of the manifest written next to the exported files.
const ManifestFile = "export_manifest.json"

// Source is one exportable resource.
type Source struct {
	Name  string
	Fetch func(ctx context.Context) (any, error)
}

// Sources lists everything a full export fetches, in a stable order.
func Sources(h *services.Hub) []Source {
	return []Source{
		{"profile", func(ctx context.Context) (any, error) { return h.Profile.Get(ctx) }},
		{"themes", func(ctx context.Context) (any, error) { return h.Profile.Themes(ctx) }},
		{"activities", func(ctx context.Context) (any, error) { return h.Profile.Activities(ctx, 100) }},
		{"habits", func(ctx context.Context) (any, error) { return h.Habits.List(ctx) }},
		{"habit_logs", func(ctx context.Context) (any, error) { return habitLogs(ctx, h.Habits) }},
		{"achievements", func(ctx context.Context) (any, error) { return h.Habits.Achievements(ctx) }},
		{"gamification", func(ctx context.Context) (any, error) { return h.Habits.Gamification(ctx) }},
		{"folders", func(ctx context.Context) (any, error) { return h.Notes.Folders(ctx) }},
		{"note_tags", func(ctx context.Context) (any, error) { return h.Notes.Tags(ctx) }},
		{"notes", func(ctx context.Context) (any, error) { return h.Notes.List(ctx, services.NoteFilter{}) }},
		{"notes_archived", func(ctx context.Context) (any, error) {
			return h.Notes.List(ctx, services.NoteFilter{Scope: services.ScopeArchived})
		}},
		{"notes_trashed", func(ctx context.Context) (any, error) {
			return h.Notes.List(ctx, services.NoteFilter{Scope: services.ScopeTrashed})
		}},
		{"collections", func(ctx context.Context) (any, error) { return h.Projects.Collections(ctx, "") }},
		{"project_tags", func(ctx context.Context) (any, error) { return h.Projects.Tags(ctx) }},
		{"projects", func(ctx context.Context) (any, error) { return h.Projects.List(ctx, services.ProjectFilter{}) }},
		{"photos", func(ctx context.Context) (any, error) { return h.Gallery.List(ctx) }},
		{"tasks", func(ctx context.Context) (any, error) { return h.Calendar.All(ctx) }},
	}
}

// habitLogs fetches the logs of every habit, keyed by habit id.
func habitLogs(ctx context.Context, habits *services.HabitService) (map[int][]models.HabitLog, error) {
	list, err := habits.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int][]models.HabitLog, len(list))
	for _, h := range list {
		logs, err := habits.Logs(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("habit %d: %w", h.ID, err)
		}
		out[h.ID] = logs
	}
	return out, nil
}

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	OutputDir  string           // Base output directory (default: hobbyhub_export_{epoch})
	Format     formatter.Format // Extra rendering for notes, tasks and projects; JSON is always written
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
	RateLimit  float64          // Requests per second (default: 5)
	Only       []string         // Source names to export; empty means all
}

// SourceResult is the outcome of one source.
type SourceResult struct {
	Source string   `json:"source"`
	Count  int      `json:"count"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Success reports whether the source was written.
func (r SourceResult) Success() bool { return r.Error == "" }

// BulkExportResult summarises an export run and is written as the manifest.
type BulkExportResult struct {
	JobID           string         `json:"job_id,omitempty"`
	BaseURL         string         `json:"base_url"`
	OutputDirectory string         `json:"output_directory"`
	StartedAt       time.Time      `json:"started_at"`
	CompletedAt     time.Time      `json:"completed_at"`
	TotalSources    int            `json:"total_sources"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	Results         []SourceResult `json:"results"`
	ManifestPath    string         `json:"-"`
}

func selectSources(all []Source, only []string) ([]Source, error) {
	if len(only) == 0 {
		return all, nil
	}
	byName := make(map[string]Source, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	out := make([]Source, 0, len(only))
	for _, name := range only {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown export source %q", shared.ErrInvalidArgument, name)
		}
		out = append(out, s)
	}
	return out, nil
}

// BulkExport fetches every source concurrently with rate limiting and progress tracking.
//
// Sources are fetched on a worker pool sharing one limiter. A failed source is recorded in the result and the
// manifest; the run carries on and only fails outright when the output directory or manifest cannot be written.
func (e *Engine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if err := requireHub(e.hub); err != nil {
		return nil, err
	}
	return e.exportSources(ctx, prog, Sources(e.hub), opts)
}

func (e *Engine) exportSources(ctx context.Context, prog chan<- ProgressUpdate, all []Source, opts BulkExportOpts) (*BulkExportResult, error) {
	sources, err := selectSources(all, opts.Only)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("hobbyhub_export_%d", time.Now().Unix())
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	workers := normalizeWorkers(opts.NumWorkers)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	job := e.startJob(models.JobExport, opts.OutputDir, len(sources))
	result := &BulkExportResult{
		JobID:           job.ID(),
		BaseURL:         e.baseURL(),
		OutputDirectory: opts.OutputDir,
		StartedAt:       time.Now().UTC(),
		TotalSources:    len(sources),
		Results:         make([]SourceResult, 0, len(sources)),
	}

	limiter := rate.NewLimiter(rate.Limit(normalizeRate(opts.RateLimit)), 1)
	jobs := make(chan Source, len(sources))
	results := make(chan SourceResult, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for i, s := range sources {
		e.sendProgress(prog, fetchingSourceUpdate(i+1, len(sources), s.Name))
		jobs <- s
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success() {
			result.Successful++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(sources), res))
		} else {
			result.Failed++
			e.sendProgress(prog, exportFailedUpdate(completed, len(sources), res))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Source < result.Results[j].Source })
	result.CompletedAt = time.Now().UTC()

	var errMsg string
	if err := ctx.Err(); err != nil {
		errMsg = err.Error()
	} else if result.Failed > 0 {
		errMsg = fmt.Sprintf("%d of %d sources failed", result.Failed, result.TotalSources)
	}
	e.finishJob(job, result.Successful, result.TotalSources-result.Successful, errMsg)

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	e.sendProgress(prog, manifestUpdate(manifestPath))
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("export finished", "dir", opts.OutputDir, "ok", result.Successful, "failed", result.Failed)
	return result, ctx.Err()
}

func (e *Engine) baseURL() string {
	if e.hub == nil {
		return ""
	}
	return e.hub.BaseURL()
}

// exportWorker is a worker goroutine that exports sources from the jobs channel.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan Source,
	results chan<- SourceResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for s := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- SourceResult{Source: s.Name, Error: err.Error()}
			continue
		}
		results <- e.exportSource(ctx, s, opts)
	}
}

// exportSource fetches one source and writes it as JSON, plus the requested rendering where one exists.
func (e *Engine) exportSource(ctx context.Context, s Source, opts BulkExportOpts) SourceResult {
	result := SourceResult{Source: s.Name}

	data, err := s.Fetch(ctx)
	if err != nil {
		result.Error = errorString(err)
		return result
	}
	result.Count = countItems(data)

	jsonPath := filepath.Join(opts.OutputDir, s.Name+".json")
	if err := formatter.WriteExport(data, formatter.FormatJSON, jsonPath); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Files = append(result.Files, jsonPath)

	if opts.Format == formatter.FormatJSON || !renderable(data) {
		return result
	}

	path := filepath.Join(opts.OutputDir, s.Name+opts.Format.Ext())
	if err := formatter.WriteExport(data, opts.Format, path); err != nil {
		result.Error = fmt.Sprintf("%s export failed: %v", opts.Format, err)
		return result
	}
	result.Files = append(result.Files, path)
	return result
}

func renderable(data any) bool {
	switch data.(type) {
	case []models.Note, []models.Task, []models.Project:
		return true
	}
	return false
}
