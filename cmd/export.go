package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/desertthunder/hobbyhub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportRun fetches every resource into one directory and prints progress as it goes.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	r.logger.Info("starting export", "dir", cmd.String("output"))
	r.writePlain("Exporting from %s...\n\n", r.hub.BaseURL())

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.logger.Debug(update.Message)
			case tasks.ExportSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, tasks.BulkExportOpts{
		OutputDir:  cmd.String("output"),
		Format:     format,
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Only:       cmd.StringSlice("only"),
	})
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Sources: %d/%d\n", result.Successful, result.TotalSources)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	if result.Failed > 0 {
		r.writePlain("\nFailed to export %d sources:\n", result.Failed)
		for _, res := range result.Results {
			if !res.Success() {
				r.writePlain("  - %s: %s\n", res.Source, res.Error)
			}
		}
	}
	return err
}

// jobView is the exported form of a job record.
type jobView struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Target      string     `json:"target"`
	Status      string     `json:"status"`
	Total       int        `json:"items_total"`
	Done        int        `json:"items_done"`
	Failed      int        `json:"items_failed"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newJobView(j *models.ExportJob) jobView {
	return jobView{
		ID:          j.ID(),
		Kind:        j.Kind(),
		Target:      j.Target(),
		Status:      j.Status(),
		Total:       j.ItemsTotal(),
		Done:        j.ItemsDone(),
		Failed:      j.ItemsFailed(),
		Error:       j.ErrorMessage(),
		StartedAt:   j.StartedAt(),
		CompletedAt: j.CompletedAt(),
	}
}

// ExportHistory lists recorded export and upload runs.
func (r *Runner) ExportHistory(ctx context.Context, cmd *cli.Command) error {
	if r.jobs == nil {
		return fmt.Errorf("%w: job history needs the database (run `hub setup database`)", shared.ErrServiceUnavailable)
	}

	jobs, err := r.jobs.List(map[string]any{
		"kind":   cmd.String("kind"),
		"status": cmd.String("status"),
		"limit":  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	views := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, newJobView(j))
	}

	return r.render(cmd, views, func() error {
		if len(views) == 0 {
			return r.writePlain("No runs recorded\n")
		}
		rows := make([][]string, 0, len(jobs))
		for _, j := range jobs {
			started := ""
			if t := j.StartedAt(); t != nil {
				started = t.Local().Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				started,
				j.Kind(),
				j.Status(),
				fmt.Sprintf("%d/%d", j.ItemsDone(), j.ItemsTotal()),
				j.Duration().Round(time.Millisecond).String(),
				j.Target(),
			})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"Started", "Kind", "Status", "Items", "Took", "Target"}, rows))
	})
}

// ExportSources lists the resource names accepted by --only.
func (r *Runner) ExportSources(ctx context.Context, cmd *cli.Command) error {
	for _, s := range tasks.Sources(r.hub) {
		r.writePlain("%s\n", s.Name)
	}
	return nil
}
