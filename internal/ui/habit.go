package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/theme"
)

// habitDetail is the heatmap screen of one habit.
type habitDetail struct {
	habit   models.Habit
	logs    []models.HabitLog
	loading bool
	err     error
}

func (m *Model) openHabit(h models.Habit) tea.Cmd {
	m.habit = habitDetail{habit: h, loading: true}
	m.view = HabitView
	ctx := m.sectionContext()
	return func() tea.Msg {
		logs, err := m.deps.Hub.Habits.Logs(ctx, h.ID)
		return habitLogsFetchedMsg(h, logs, err)
	}
}

func (d habitDetail) view(styles theme.Styles, today time.Time, days int) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(d.habit.Name) + "\n")

	switch {
	case d.loading:
		b.WriteString(styles.Help.Render("Loading logs...") + "\n")
		return b.String()
	case d.err != nil:
		b.WriteString(styles.Err.Render(fmt.Sprintf("Error: %v", d.err)) + "\n")
		return b.String()
	}

	months := formatter.Heatmap(d.logs, today, days)
	b.WriteString(formatter.RenderHeatmap(months, styles) + "\n\n")

	current := formatter.CurrentStreak(d.habit, d.logs, today)
	longest := formatter.LongestStreak(d.habit, d.logs)
	b.WriteString(styles.Text.Render(fmt.Sprintf("Current streak: %d days", current)) + "\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("Longest streak: %d days", longest)) + "\n")
	if formatter.IsDueOn(d.habit, today) {
		if d.habit.TodayCompleted {
			b.WriteString(styles.OK.Render("Done today") + "\n")
		} else {
			b.WriteString(styles.Warn.Render("Due today") + "\n")
		}
	}
	return b.String()
}
