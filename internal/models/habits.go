package models

import "fmt"

// Frequency selects the days a habit is due.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
	FrequencyCustom   Frequency = "custom"
)

// ParseFrequency validates a frequency name.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekends, FrequencyCustom:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q (want daily, weekdays, weekends or custom)", s)
}

// HabitCategories lists the categories the backend accepts.
var HabitCategories = []string{"health", "productivity", "mindfulness", "fitness", "other"}

// Habit is a tracked habit with server-computed statistics.
//
// TargetDays holds weekday numbers with Monday = 0 and is only consulted for [FrequencyCustom].
type Habit struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Color           string    `json:"color"`
	Icon            string    `json:"icon"`
	Frequency       Frequency `json:"frequency"`
	TargetDays      []int     `json:"target_days"`
	Category        string    `json:"category"`
	ReminderEnabled bool      `json:"reminder_enabled"`
	ReminderTime    *string   `json:"reminder_time"`
	Points          int       `json:"points"`
	CreatedAt       string    `json:"created_at,omitempty"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	TodayCompleted  bool      `json:"today_completed"`
	CompletionRate  float64   `json:"completion_rate"`
}

// HabitInput is the writable part of a habit.
type HabitInput struct {
	Name            string    `json:"name,omitempty"`
	Color           string    `json:"color,omitempty"`
	Icon            string    `json:"icon,omitempty"`
	Frequency       Frequency `json:"frequency,omitempty"`
	TargetDays      []int     `json:"target_days,omitempty"`
	Category        string    `json:"category,omitempty"`
	ReminderEnabled *bool     `json:"reminder_enabled,omitempty"`
	ReminderTime    *string   `json:"reminder_time,omitempty"`
}

// Validate checks the fields a create requires.
func (h HabitInput) Validate() error {
	if h.Name == "" {
		return fmt.Errorf("habit name is required")
	}
	if h.Frequency == FrequencyCustom && len(h.TargetDays) == 0 {
		return fmt.Errorf("custom frequency needs at least one target day")
	}
	for _, d := range h.TargetDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("target day %d out of range 0-6", d)
		}
	}
	return nil
}

// HabitLog records whether a habit was completed on a date.
type HabitLog struct {
	ID        int    `json:"id"`
	Habit     int    `json:"habit"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// ToggleLog is the body of a log toggle.
type ToggleLog struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// HabitRate names a habit and its completion rate.
type HabitRate struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	CompletionRate float64 `json:"completion_rate"`
}

// WeekSummary counts completed against due habit-days for one week.
type WeekSummary struct {
	Week      string `json:"week"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Analytics aggregates the last four weeks.
type Analytics struct {
	OverallCompletionRate float64       `json:"overall_completion_rate"`
	BestDayOfWeek         string        `json:"best_day_of_week"`
	MostConsistentHabit   *HabitRate    `json:"most_consistent_habit"`
	WeeklySummary         []WeekSummary `json:"weekly_summary"`
}

// Achievement is a badge and whether the user has unlocked it.
type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

// Gamification is the user's points, level and badges.
type Gamification struct {
	TotalPoints  int           `json:"total_points"`
	Level        string        `json:"level"`
	Title        string        `json:"title"`
	Progress     float64       `json:"progress"`
	Achievements []Achievement `json:"achievements"`
}

// Unlocked counts unlocked achievements.
func (g Gamification) Unlocked() int {
	n := 0
	for _, a := range g.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}
