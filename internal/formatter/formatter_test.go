package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
	th "github.com/desertthunder/hobbyhub/internal/testing"
	"github.com/desertthunder/hobbyhub/internal/theme"
)

func strp(s string) *string { return &s }

var (
	sampleNotes = []models.Note{
		{
			ID: 1, Title: "Groceries", Content: "milk, eggs", FolderName: strp("Home"),
			Tags: []models.NoteTag{{ID: 1, Name: "errands"}}, IsPinned: true, UpdatedAt: "2024-03-09T10:00:00Z",
		},
		{ID: 2, Title: "", Content: "  ", IsArchived: true},
	}
	sampleTasks = []models.Task{
		{ID: 1, Title: "Dentist", Date: "2024-03-09", StartTime: strp("09:30:00"), EndTime: strp("10:00:00"), Priority: "high"},
		{ID: 2, Title: "Call mum", Date: "2024-03-09", Completed: true},
		{ID: 3, Title: "Taxes", Date: "2024-03-10", StartTime: strp("14:00:00"), Priority: "low"},
	}
	sampleProjects = []models.Project{
		{ID: 4, Title: "Kite", Status: models.StatusActive, Progress: 40, CollectionName: "Outdoors", DueDate: strp("2024-06-01"), URL: strp("https://kites.test")},
		{ID: 5, Title: "Shelf", Status: models.StatusCompleted, Progress: 100, IsPinned: true},
	}
)

func TestExporters(t *testing.T) {
	t.Run("NotesToCSV", func(t *testing.T) {
		data, err := NotesToCSV(sampleNotes)
		if err != nil {
			t.Fatalf("NotesToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "ID,Title,Folder,Tags,Pinned,Archived,Updated,Content") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `1,Groceries,Home,errands,true,false,2024-03-09T10:00:00Z,"milk, eggs"`) {
			t.Errorf("CSV missing first note, got: %s", output)
		}
	})

	t.Run("NotesToMarkdown", func(t *testing.T) {
		output := string(NotesToMarkdown(sampleNotes))
		for _, want := range []string{"# Notes", "**Count**: 2", "## Groceries", "_pinned, folder: Home, #errands_", "milk, eggs", "## Untitled", "_archived_"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("TasksToCSV", func(t *testing.T) {
		data, err := TasksToCSV(sampleTasks)
		if err != nil {
			t.Fatalf("TasksToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "1,2024-03-09,09:30-10:00,Dentist,high,false,") {
			t.Errorf("CSV missing dentist row, got: %s", output)
		}
	})

	t.Run("TasksToMarkdown groups by date", func(t *testing.T) {
		output := string(TasksToMarkdown(sampleTasks))
		want := "# Tasks\n\n## 2024-03-09\n\n- [ ] 09:30-10:00 Dentist (high)\n- [x] Call mum\n\n## 2024-03-10\n\n- [ ] 14:00 Taxes (low)\n"
		if output != want {
			t.Errorf("unexpected Markdown:\n%s\nwant:\n%s", output, want)
		}
	})

	t.Run("ProjectsToCSV", func(t *testing.T) {
		data, err := ProjectsToCSV(sampleProjects)
		if err != nil {
			t.Fatalf("ProjectsToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), "4,Kite,active,40,Outdoors,2024-06-01,false,https://kites.test") {
			t.Errorf("CSV missing kite row, got: %s", data)
		}
	})

	t.Run("ProjectsToMarkdown", func(t *testing.T) {
		output := string(ProjectsToMarkdown(sampleProjects))
		if !strings.Contains(output, "- **Kite** (active, 40%) in Outdoors, due 2024-06-01 [link](https://kites.test)") {
			t.Errorf("Markdown missing kite, got:\n%s", output)
		}
		if !strings.Contains(output, "- **Shelf** (completed, 100%)") {
			t.Errorf("Markdown missing shelf, got:\n%s", output)
		}
	})

	t.Run("Export rejects unsupported records", func(t *testing.T) {
		_, err := Export([]models.Photo{{ID: 1}}, FormatCSV)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := Export([]models.Photo{{ID: 1}}, FormatJSON); err != nil {
			t.Errorf("JSON should accept any record, got %v", err)
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "tasks.md")
		if err := WriteExport(sampleTasks, FormatMarkdown, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "# Tasks") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("ParseFormat", func(t *testing.T) {
		tests := map[string]Format{"": FormatJSON, "CSV": FormatCSV, "md": FormatMarkdown, "txt": FormatText}
		for in, want := range tests {
			got, err := ParseFormat(in)
			if err != nil || got != want {
				t.Errorf("ParseFormat(%q) = %s, %v; want %s", in, got, err, want)
			}
		}
		if _, err := ParseFormat("pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if FormatMarkdown.Ext() != ".md" || FormatCSV.Ext() != ".csv" {
			t.Error("unexpected extensions")
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("NotesTable", func(t *testing.T) {
		output := NotesTable(sampleNotes)
		for _, want := range []string{"Title", "Groceries", "Home", "errands", "P"} {
			if !strings.Contains(output, want) {
				t.Errorf("table missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("long cells are truncated", func(t *testing.T) {
		output := Table([]string{"Title"}, [][]string{{strings.Repeat("x", 100)}})
		if strings.Contains(output, strings.Repeat("x", 41)) {
			t.Errorf("expected truncation, got:\n%s", output)
		}
		if !strings.Contains(output, "…") {
			t.Errorf("expected an ellipsis, got:\n%s", output)
		}
	})

	t.Run("HabitsTable", func(t *testing.T) {
		output := HabitsTable([]models.Habit{{ID: 1, Name: "Read", Frequency: models.FrequencyDaily, CurrentStreak: 3, LongestStreak: 7, CompletionRate: 85.4, TodayCompleted: true}})
		for _, want := range []string{"Read", "daily", "85%", "✓"} {
			if !strings.Contains(output, want) {
				t.Errorf("table missing %q:\n%s", want, output)
			}
		}
	})
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func logsFor(dates ...string) []models.HabitLog {
	logs := make([]models.HabitLog, 0, len(dates))
	for i, d := range dates {
		logs = append(logs, models.HabitLog{ID: i + 1, Habit: 1, Date: d, Completed: true})
	}
	return logs
}

func TestHeatmap(t *testing.T) {
	today := day("2024-03-09")
	logs := append(logsFor("2024-03-09", "2024-03-01", "2024-01-15"), models.HabitLog{Date: "2024-03-05", Completed: false})

	months := Heatmap(logs, today.Add(15*time.Hour), 0)

	t.Run("covers 90 days ending today", func(t *testing.T) {
		total := 0
		for _, m := range months {
			total += len(m.Days)
		}
		if total != HeatmapDays {
			t.Errorf("expected %d days, got %d", HeatmapDays, total)
		}
		last := months[len(months)-1].Days
		if !last[len(last)-1].Date.Equal(today) {
			t.Errorf("expected last cell to be today, got %s", last[len(last)-1].Date)
		}
	})

	t.Run("groups by month in order", func(t *testing.T) {
		var labels []string
		for _, m := range months {
			labels = append(labels, m.Label)
		}
		if strings.Join(labels, ",") != "Dec,Jan,Feb,Mar" {
			t.Errorf("unexpected months %v", labels)
		}
		if len(months[3].Days) != 9 {
			t.Errorf("expected 9 March days, got %d", len(months[3].Days))
		}
	})

	t.Run("marks completed logs only", func(t *testing.T) {
		if got := CompletedCount(months); got != 3 {
			t.Errorf("expected 3 completed days, got %d", got)
		}
	})

	t.Run("render", func(t *testing.T) {
		output := RenderHeatmap(months, theme.Default().Styles())
		if strings.Count(output, "■") != 3 {
			t.Errorf("expected 3 filled cells:\n%s", output)
		}
		if !strings.Contains(output, "3 of 90 days completed") {
			t.Errorf("missing summary:\n%s", output)
		}
	})

	t.Run("custom length", func(t *testing.T) {
		if got := Heatmap(nil, today, 7); len(got) != 1 || len(got[0].Days) != 7 {
			t.Errorf("expected one month of 7 days, got %+v", got)
		}
	})
}

func TestStreaks(t *testing.T) {
	// 2024-03-09 is a Saturday.
	saturday := day("2024-03-09")

	t.Run("IsDueOn", func(t *testing.T) {
		monday, sunday := day("2024-03-04"), day("2024-03-10")
		tests := []struct {
			habit models.Habit
			day   time.Time
			want  bool
		}{
			{models.Habit{Frequency: models.FrequencyDaily}, sunday, true},
			{models.Habit{Frequency: models.FrequencyWeekdays}, monday, true},
			{models.Habit{Frequency: models.FrequencyWeekdays}, saturday, false},
			{models.Habit{Frequency: models.FrequencyWeekends}, sunday, true},
			{models.Habit{Frequency: models.FrequencyWeekends}, monday, false},
			{models.Habit{Frequency: models.FrequencyCustom, TargetDays: []int{0, 2}}, monday, true},
			{models.Habit{Frequency: models.FrequencyCustom, TargetDays: []int{6}}, sunday, true},
			{models.Habit{Frequency: models.FrequencyCustom}, monday, false},
		}
		for _, tt := range tests {
			if got := IsDueOn(tt.habit, tt.day); got != tt.want {
				t.Errorf("IsDueOn(%s, %s) = %v, want %v", tt.habit.Frequency, tt.day.Weekday(), got, tt.want)
			}
		}
	})

	t.Run("daily streak ending today", func(t *testing.T) {
		h := models.Habit{Frequency: models.FrequencyDaily, CreatedAt: "2024-03-01T08:00:00Z"}
		logs := logsFor("2024-03-09", "2024-03-08", "2024-03-07", "2024-03-05")
		if got := CurrentStreak(h, logs, saturday); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})

	t.Run("a due day without a log breaks the streak", func(t *testing.T) {
		h := models.Habit{Frequency: models.FrequencyDaily, CreatedAt: "2024-03-01"}
		if got := CurrentStreak(h, logsFor("2024-03-08", "2024-03-07"), saturday); got != 0 {
			t.Errorf("expected 0 when today is due but missing, got %d", got)
		}
	})

	t.Run("weekday habit on a weekend counts back from Friday", func(t *testing.T) {
		h := models.Habit{Frequency: models.FrequencyWeekdays, CreatedAt: "2024-02-26"}
		logs := logsFor("2024-03-08", "2024-03-07", "2024-03-06", "2024-03-05", "2024-03-04", "2024-03-01")
		if got := CurrentStreak(h, logs, saturday); got != 6 {
			t.Errorf("expected 6 spanning the previous weekend, got %d", got)
		}
	})

	t.Run("streak stops at creation", func(t *testing.T) {
		h := models.Habit{Frequency: models.FrequencyDaily, CreatedAt: "2024-03-08"}
		logs := logsFor("2024-03-09", "2024-03-08", "2024-03-07")
		if got := CurrentStreak(h, logs, saturday); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})

	t.Run("no logs", func(t *testing.T) {
		if got := CurrentStreak(models.Habit{Frequency: models.FrequencyDaily}, nil, saturday); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("LongestStreak", func(t *testing.T) {
		h := models.Habit{Frequency: models.FrequencyDaily, CreatedAt: "2024-02-01"}
		logs := logsFor("2024-03-09", "2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05", "2024-03-06", "2024-01-01")
		logs = append(logs, models.HabitLog{Date: "2024-03-04", Completed: false})
		if got := LongestStreak(h, logs); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})

	t.Run("LongestStreak ignores days before creation", func(t *testing.T) {
		h := models.Habit{Frequency: models.FrequencyDaily, CreatedAt: "2024-03-03"}
		logs := logsFor("2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04")
		if got := LongestStreak(h, logs); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})
}
