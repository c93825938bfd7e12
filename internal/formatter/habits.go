package formatter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/theme"
)

// HeatmapDays is how many days the heatmap covers, ending today.
const HeatmapDays = 90

// Day is one heatmap cell.
type Day struct {
	Date      time.Time
	Completed bool
}

// Month is a run of consecutive heatmap days within one calendar month.
type Month struct {
	Label string // e.g. "Mar"
	Days  []Day
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// completedDays indexes logs by ISO date. A day counts when any log for it is completed.
func completedDays(logs []models.HabitLog) map[string]bool {
	done := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.Completed {
			done[l.Date] = true
		}
	}
	return done
}

// Heatmap lays out the last days days ending at today, oldest first, grouped by month.
// days <= 0 means [HeatmapDays].
func Heatmap(logs []models.HabitLog, today time.Time, days int) []Month {
	if days <= 0 {
		days = HeatmapDays
	}
	done := completedDays(logs)
	today = dayOf(today)

	var months []Month
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		cell := Day{Date: date, Completed: done[models.FormatDate(date)]}

		label := date.Format("Jan")
		if n := len(months); n > 0 && months[n-1].Days[0].Date.Month() == date.Month() && months[n-1].Days[0].Date.Year() == date.Year() {
			months[n-1].Days = append(months[n-1].Days, cell)
			continue
		}
		months = append(months, Month{Label: label, Days: []Day{cell}})
	}
	return months
}

// CompletedCount counts completed cells.
func CompletedCount(months []Month) int {
	n := 0
	for _, m := range months {
		for _, d := range m.Days {
			if d.Completed {
				n++
			}
		}
	}
	return n
}

// RenderHeatmap draws one row per month: the month label, then a filled square per completed day and
// an empty one otherwise, followed by a completion summary.
func RenderHeatmap(months []Month, styles theme.Styles) string {
	var b strings.Builder
	total := 0
	for _, m := range months {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%-3s", m.Label)))
		b.WriteString(" ")
		for _, d := range m.Days {
			if d.Completed {
				b.WriteString(styles.Done.Render("■"))
			} else {
				b.WriteString(styles.Missed.Render("□"))
			}
		}
		b.WriteString("\n")
		total += len(m.Days)
	}
	b.WriteString(styles.Help.Render(fmt.Sprintf("%d of %d days completed", CompletedCount(months), total)))
	return b.String()
}

// IsDueOn reports whether h is scheduled on day. Weekdays count from Monday = 0.
func IsDueOn(h models.Habit, day time.Time) bool {
	weekday := (int(day.Weekday()) + 6) % 7
	switch h.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekdays:
		return weekday < 5
	case models.FrequencyWeekends:
		return weekday >= 5
	case models.FrequencyCustom:
		for _, d := range h.TargetDays {
			if d == weekday {
				return true
			}
		}
		return false
	}
	return true
}

// startDay is the habit's creation day, or the earliest log when the creation time is unknown.
func startDay(h models.Habit, logs []models.HabitLog, loc *time.Location) time.Time {
	if len(h.CreatedAt) >= len(models.DateLayout) {
		if t, err := time.ParseInLocation(models.DateLayout, h.CreatedAt[:len(models.DateLayout)], loc); err == nil {
			return t
		}
	}

	var earliest time.Time
	for _, l := range logs {
		t, err := time.ParseInLocation(models.DateLayout, l.Date, loc)
		if err == nil && (earliest.IsZero() || t.Before(earliest)) {
			earliest = t
		}
	}
	return earliest
}

// CurrentStreak counts consecutive completed due days ending today. When today is not a due day the count
// starts from the latest due day before it. Days before the habit was created are never counted.
func CurrentStreak(h models.Habit, logs []models.HabitLog, today time.Time) int {
	done := completedDays(logs)
	if len(done) == 0 {
		return 0
	}

	current := dayOf(today)
	start := startDay(h, logs, current.Location())
	prevDue := func(t time.Time) time.Time {
		for !t.Before(start) && !IsDueOn(h, t) {
			t = t.AddDate(0, 0, -1)
		}
		return t
	}

	current = prevDue(current)
	if current.Before(start) {
		return 0
	}

	streak := 0
	for done[models.FormatDate(current)] {
		streak++
		current = prevDue(current.AddDate(0, 0, -1))
		if current.Before(start) {
			break
		}
	}
	return streak
}

// LongestStreak is the longest run of consecutive calendar days with a completed log on or after the
// habit's creation day.
func LongestStreak(h models.Habit, logs []models.HabitLog) int {
	done := completedDays(logs)
	if len(done) == 0 {
		return 0
	}

	start := startDay(h, logs, time.Local)
	days := make([]time.Time, 0, len(done))
	for date := range done {
		t, err := time.ParseInLocation(models.DateLayout, date, time.Local)
		if err != nil || t.Before(start) {
			continue
		}
		days = append(days, t)
	}
	sortDays(days)

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

func sortDays(days []time.Time) {
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
}
