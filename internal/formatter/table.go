package formatter

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

const cellWidth = 40

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Table renders rows under headers with a rounded border. Cells are truncated to keep rows on one line.
func Table(headers []string, rows [][]string) string {
	cut := make([][]string, len(rows))
	for i, row := range rows {
		cut[i] = make([]string, len(row))
		for j, cell := range row {
			cut[i][j] = shared.Truncate(cell, cellWidth)
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(cut...).
		String()
}

func flags(pairs ...any) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if on, _ := pairs[i+1].(bool); on {
			out += pairs[i].(string)
		}
	}
	return out
}

// NotesTable lists notes with their pinned (P) and archived (A) flags.
func NotesTable(notes []models.Note) string {
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		tags := ""
		for i, t := range n.Tags {
			if i > 0 {
				tags += ", "
			}
			tags += t.Name
		}
		rows = append(rows, []string{
			strconv.Itoa(n.ID),
			n.Title,
			deref(n.FolderName),
			tags,
			flags("P", n.IsPinned, "A", n.IsArchived, "T", n.IsDeleted),
		})
	}
	return Table([]string{"ID", "Title", "Folder", "Tags", "Flags"}, rows)
}

// TasksTable lists tasks with a completion mark.
func TasksTable(tasks []models.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(t.ID),
			shared.CheckMark(t.Completed),
			t.Date,
			taskTime(t),
			t.Title,
			t.Priority,
		})
	}
	return Table([]string{"ID", "Done", "Date", "Time", "Title", "Priority"}, rows)
}

// ProjectsTable lists projects with status and progress.
func ProjectsTable(projects []models.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Title,
			string(p.Status),
			fmt.Sprintf("%d%%", p.Progress),
			p.CollectionName,
			deref(p.DueDate),
			flags("P", p.IsPinned),
		})
	}
	return Table([]string{"ID", "Title", "Status", "Progress", "Collection", "Due", "Flags"}, rows)
}

// HabitsTable lists habits with streaks and today's completion.
func HabitsTable(habits []models.Habit) string {
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			strconv.Itoa(h.ID),
			shared.CheckMark(h.TodayCompleted),
			h.Name,
			string(h.Frequency),
			h.Category,
			strconv.Itoa(h.CurrentStreak),
			strconv.Itoa(h.LongestStreak),
			fmt.Sprintf("%.0f%%", h.CompletionRate),
		})
	}
	return Table([]string{"ID", "Today", "Name", "Frequency", "Category", "Streak", "Best", "Rate"}, rows)
}
