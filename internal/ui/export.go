package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hobbyhub/internal/tasks"
	"github.com/desertthunder/hobbyhub/internal/theme"
)

// exportRun tracks one bulk export started from the menu.
type exportRun struct {
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult
	err          error
	done         bool
}

func (m *Model) startExport() tea.Cmd {
	run := &exportRun{progressChan: make(chan tasks.ProgressUpdate, 50)}
	m.export = run
	m.view = ExportView

	go func() {
		result, err := m.deps.Engine.BulkExport(m.ctx, run.progressChan, tasks.BulkExportOpts{OutputDir: m.deps.ExportDir})
		run.result = result
		run.err = err
		close(run.progressChan)
	}()

	return m.waitForProgress(run)
}

func (m *Model) waitForProgress(run *exportRun) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-run.progressChan
		if !ok {
			return exportCompleteMsg(run.result, run.err)
		}
		return progressUpdateMsg(update)
	}
}

func (r *exportRun) view(styles theme.Styles) string {
	if !r.done {
		title := styles.Title.Render("Exporting")
		var phase string
		switch r.progress.Phase {
		case tasks.FetchSource:
			phase = "Queueing sources..."
		case tasks.ExportSource:
			phase = fmt.Sprintf("Exporting (%d/%d)", r.progress.Step, r.progress.Total)
		case tasks.WriteManifest:
			phase = "Writing manifest..."
		default:
			phase = "Processing..."
		}
		return fmt.Sprintf("%s\n\n%s\n%s", title, phase, r.progress.Message)
	}

	if r.result == nil {
		return styles.Err.Render(fmt.Sprintf("Export failed: %v", r.err))
	}

	var b strings.Builder
	b.WriteString(styles.OK.Render("✓ Export Complete!") + "\n\n")
	fmt.Fprintf(&b, "Directory: %s\n", r.result.OutputDirectory)
	fmt.Fprintf(&b, "Sources: %d/%d\n", r.result.Successful, r.result.TotalSources)
	if r.result.ManifestPath != "" {
		fmt.Fprintf(&b, "Manifest: %s\n", r.result.ManifestPath)
	}
	if r.result.Failed > 0 {
		b.WriteString("\n" + styles.Warn.Render(fmt.Sprintf("%d sources failed:", r.result.Failed)))
		for _, res := range r.result.Results {
			if !res.Success() {
				fmt.Fprintf(&b, "\n  • %s: %s", res.Source, res.Error)
			}
		}
		b.WriteString("\n")
	}
	if r.err != nil {
		b.WriteString("\n" + styles.Err.Render(r.err.Error()) + "\n")
	}
	return b.String()
}
