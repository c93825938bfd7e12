// package formatter renders hobby hub records as CSV, Markdown, plain text and terminal tables,
// and computes the habit heatmap and streaks shown next to them.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format name; "" means [FormatJSON].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatJSON, nil
	case "md":
		return FormatMarkdown, nil
	case FormatCSV, FormatMarkdown, FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want csv, markdown, txt or json)", shared.ErrInvalidFlag, s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func noteRow(n models.Note) []string {
	tags := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		tags = append(tags, t.Name)
	}
	return []string{
		strconv.Itoa(n.ID),
		n.Title,
		deref(n.FolderName),
		strings.Join(tags, ";"),
		strconv.FormatBool(n.IsPinned),
		strconv.FormatBool(n.IsArchived),
		n.UpdatedAt,
		n.Content,
	}
}

// NotesToCSV converts notes to CSV with columns: ID, Title, Folder, Tags, Pinned, Archived, Updated, Content
func NotesToCSV(notes []models.Note) ([]byte, error) {
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, noteRow(n))
	}
	return writeCSV([]string{"ID", "Title", "Folder", "Tags", "Pinned", "Archived", "Updated", "Content"}, rows)
}

// NotesToMarkdown renders one section per note.
func NotesToMarkdown(notes []models.Note) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Notes\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n", len(notes)))

	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", title))

		var meta []string
		if n.IsPinned {
			meta = append(meta, "pinned")
		}
		if n.IsArchived {
			meta = append(meta, "archived")
		}
		if folder := deref(n.FolderName); folder != "" {
			meta = append(meta, "folder: "+folder)
		}
		for _, t := range n.Tags {
			meta = append(meta, "#"+t.Name)
		}
		if len(meta) > 0 {
			buf.WriteString(fmt.Sprintf("_%s_\n\n", strings.Join(meta, ", ")))
		}
		if content := strings.TrimSpace(n.Content); content != "" {
			buf.WriteString(content + "\n")
		}
	}
	return buf.Bytes()
}

func taskTime(t models.Task) string {
	start, end := deref(t.StartTime), deref(t.EndTime)
	switch {
	case start != "" && end != "":
		return shortTime(start) + "-" + shortTime(end)
	case start != "":
		return shortTime(start)
	}
	return ""
}

// shortTime trims "09:30:00" to "09:30".
func shortTime(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// TasksToCSV converts tasks to CSV with columns: ID, Date, Time, Title, Priority, Completed, Description
func TasksToCSV(tasks []models.Task) ([]byte, error) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(t.ID),
			t.Date,
			taskTime(t),
			t.Title,
			t.Priority,
			strconv.FormatBool(t.Completed),
			t.Description,
		})
	}
	return writeCSV([]string{"ID", "Date", "Time", "Title", "Priority", "Completed", "Description"}, rows)
}

// TasksToMarkdown renders a checklist grouped by date in the order the tasks are given.
func TasksToMarkdown(tasks []models.Task) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Tasks\n")

	day := ""
	for _, t := range tasks {
		if t.Date != day {
			day = t.Date
			buf.WriteString(fmt.Sprintf("\n## %s\n\n", day))
		}
		check := " "
		if t.Completed {
			check = "x"
		}
		line := fmt.Sprintf("- [%s] ", check)
		if tm := taskTime(t); tm != "" {
			line += tm + " "
		}
		line += t.Title
		if t.Priority != "" {
			line += fmt.Sprintf(" (%s)", t.Priority)
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

// ProjectsToCSV converts projects to CSV with columns: ID, Title, Status, Progress, Collection, Due, Pinned, URL
func ProjectsToCSV(projects []models.Project) ([]byte, error) {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Title,
			string(p.Status),
			strconv.Itoa(p.Progress),
			p.CollectionName,
			deref(p.DueDate),
			strconv.FormatBool(p.IsPinned),
			deref(p.URL),
		})
	}
	return writeCSV([]string{"ID", "Title", "Status", "Progress", "Collection", "Due", "Pinned", "URL"}, rows)
}

// ProjectsToMarkdown renders a bullet per project.
func ProjectsToMarkdown(projects []models.Project) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Projects\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(projects)))

	for _, p := range projects {
		line := fmt.Sprintf("- **%s** (%s, %d%%)", p.Title, p.Status, p.Progress)
		if p.CollectionName != "" {
			line += " in " + p.CollectionName
		}
		if due := deref(p.DueDate); due != "" {
			line += ", due " + due
		}
		if url := deref(p.URL); url != "" {
			line += fmt.Sprintf(" [link](%s)", url)
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

// Export renders records in format. Supported record types are notes, tasks and projects;
// JSON accepts anything.
func Export(records any, format Format) ([]byte, error) {
	if format == FormatJSON {
		return shared.MarshalJSON(records, true)
	}

	switch v := records.(type) {
	case []models.Note:
		switch format {
		case FormatCSV:
			return NotesToCSV(v)
		case FormatMarkdown:
			return NotesToMarkdown(v), nil
		case FormatText:
			return []byte(NotesTable(v) + "\n"), nil
		}
	case []models.Task:
		switch format {
		case FormatCSV:
			return TasksToCSV(v)
		case FormatMarkdown:
			return TasksToMarkdown(v), nil
		case FormatText:
			return []byte(TasksTable(v) + "\n"), nil
		}
	case []models.Project:
		switch format {
		case FormatCSV:
			return ProjectsToCSV(v)
		case FormatMarkdown:
			return ProjectsToMarkdown(v), nil
		case FormatText:
			return []byte(ProjectsTable(v) + "\n"), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot export %T as %s", shared.ErrInvalidArgument, records, format)
}

// WriteExport renders records and writes them to path, creating parent directories.
func WriteExport(records any, format Format, path string) error {
	data, err := Export(records, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
