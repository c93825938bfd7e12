package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) heatmapDays() int {
	if r.config.UI.HeatmapDays > 0 {
		return r.config.UI.HeatmapDays
	}
	return formatter.HeatmapDays
}

// habitInput collects the habit flags that are set.
func habitInput(cmd *cli.Command) (models.HabitInput, error) {
	in := models.HabitInput{
		Name:       cmd.String("name"),
		TargetDays: cmd.IntSlice("day"),
		Category:   cmd.String("category"),
		Color:      cmd.String("color"),
		Icon:       cmd.String("icon"),
	}
	if f := cmd.String("frequency"); f != "" {
		freq, err := models.ParseFrequency(f)
		if err != nil {
			return in, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		in.Frequency = freq
	}
	return in, nil
}

// HabitsList lists habits, or only those due today with --due.
func (r *Runner) HabitsList(ctx context.Context, cmd *cli.Command) error {
	var (
		habits []models.Habit
		err    error
	)
	if cmd.Bool("due") {
		habits, err = r.hub.Habits.DueToday(ctx)
	} else {
		habits, err = r.hub.Habits.List(ctx)
	}
	if err != nil {
		return err
	}

	return r.render(cmd, habits, func() error {
		if len(habits) == 0 {
			return r.writePlain("No habits\n")
		}
		return r.writePlain("%s\n", formatter.HabitsTable(habits))
	})
}

type habitDetail struct {
	Habit         *models.Habit     `json:"habit"`
	Logs          []models.HabitLog `json:"logs"`
	CurrentStreak int               `json:"current_streak"`
	LongestStreak int               `json:"longest_streak"`
	DueToday      bool              `json:"due_today"`
}

// HabitsShow prints one habit with its completion heatmap and streaks.
func (r *Runner) HabitsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	habit, err := r.hub.Habits.Get(ctx, id)
	if err != nil {
		return err
	}
	logs, err := r.hub.Habits.Logs(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	detail := habitDetail{
		Habit:         habit,
		Logs:          logs,
		CurrentStreak: formatter.CurrentStreak(*habit, logs, now),
		LongestStreak: formatter.LongestStreak(*habit, logs),
		DueToday:      formatter.IsDueOn(*habit, now),
	}

	return r.render(cmd, detail, func() error {
		months := formatter.Heatmap(logs, now, r.heatmapDays())
		r.writePlainHeader(habit.Name)
		r.writePlain("Frequency: %s", habit.Frequency)
		if habit.Category != "" {
			r.writePlain("  Category: %s", habit.Category)
		}
		r.writePlain("\n\n%s\n\n", formatter.RenderHeatmap(months, r.theme.Current().Styles()))
		r.writePlain("Completed: %d of the last %d days\n", formatter.CompletedCount(months), r.heatmapDays())
		r.writePlain("Current streak: %d\n", detail.CurrentStreak)
		r.writePlain("Longest streak: %d\n", detail.LongestStreak)
		return r.writePlain("Due today: %s  Done today: %s\n", shared.CheckMark(detail.DueToday), shared.CheckMark(habit.TodayCompleted))
	})
}

// HabitsCreate creates a habit.
func (r *Runner) HabitsCreate(ctx context.Context, cmd *cli.Command) error {
	in, err := habitInput(cmd)
	if err != nil {
		return err
	}
	if in.Frequency == "" {
		in.Frequency = models.FrequencyDaily
	}

	habit, err := r.hub.Habits.Create(ctx, in)
	if err != nil {
		return err
	}
	r.logger.Info("habit created", "id", habit.ID)
	return r.render(cmd, habit, func() error {
		return r.writePlain("✓ Created habit %s (id %d)\n", habit.Name, habit.ID)
	})
}

// HabitsUpdate patches the habit fields given on the command line.
func (r *Runner) HabitsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	in, err := habitInput(cmd)
	if err != nil {
		return err
	}

	habit, err := r.hub.Habits.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return r.render(cmd, habit, func() error {
		return r.writePlain("✓ Updated habit %s\n", habit.Name)
	})
}

// HabitsDelete deletes a habit.
func (r *Runner) HabitsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Habits.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted habit %d\n", id)
}

// HabitsToggle records a day as done or, with --undo, as not done.
func (r *Runner) HabitsToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	day := time.Now()
	if s := cmd.String("date"); s != "" {
		if day, err = models.ParseDate(s); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
	}

	completed := !cmd.Bool("undo")
	entry, err := r.hub.Habits.ToggleLog(ctx, id, day, completed)
	if err != nil {
		return err
	}
	if entry.Completed {
		return r.writePlain("✓ Habit %d done on %s\n", id, entry.Date)
	}
	return r.writePlain("✓ Habit %d not done on %s\n", id, entry.Date)
}

// HabitsLogs lists a habit's logs.
func (r *Runner) HabitsLogs(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	logs, err := r.hub.Habits.Logs(ctx, id)
	if err != nil {
		return err
	}

	return r.render(cmd, logs, func() error {
		rows := make([][]string, 0, len(logs))
		for _, l := range logs {
			rows = append(rows, []string{l.Date, shared.CheckMark(l.Completed)})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"Date", "Done"}, rows))
	})
}

type habitStats struct {
	Analytics    *models.Analytics    `json:"analytics"`
	Gamification *models.Gamification `json:"gamification"`
}

// HabitsStats prints the completion analytics and the points summary.
func (r *Runner) HabitsStats(ctx context.Context, cmd *cli.Command) error {
	analytics, err := r.hub.Habits.Analytics(ctx)
	if err != nil {
		return err
	}
	game, err := r.hub.Habits.Gamification(ctx)
	if err != nil {
		return err
	}
	stats := habitStats{Analytics: analytics, Gamification: game}

	return r.render(cmd, stats, func() error {
		r.writePlainHeader("Habit stats")
		r.writePlain("Overall completion: %.1f%%\n", analytics.OverallCompletionRate)
		if analytics.BestDayOfWeek != "" {
			r.writePlain("Best day: %s\n", analytics.BestDayOfWeek)
		}
		if h := analytics.MostConsistentHabit; h != nil {
			r.writePlain("Most consistent: %s (%.1f%%)\n", h.Name, h.CompletionRate)
		}
		if len(analytics.WeeklySummary) > 0 {
			rows := make([][]string, 0, len(analytics.WeeklySummary))
			for _, w := range analytics.WeeklySummary {
				rows = append(rows, []string{w.Week, fmt.Sprintf("%d/%d", w.Completed, w.Total)})
			}
			r.writePlain("%s\n", formatter.Table([]string{"Week", "Completed"}, rows))
		}
		r.writePlainln("Level %s: %s", game.Level, game.Title)
		r.writePlain("Points: %d (%.0f%% to next level)\n", game.TotalPoints, game.Progress)
		return r.writePlain("Achievements: %d of %d unlocked\n", game.Unlocked(), len(game.Achievements))
	})
}

// HabitsAchievements lists every badge.
func (r *Runner) HabitsAchievements(ctx context.Context, cmd *cli.Command) error {
	achievements, err := r.hub.Habits.Achievements(ctx)
	if err != nil {
		return err
	}

	return r.render(cmd, achievements, func() error {
		rows := make([][]string, 0, len(achievements))
		for _, a := range achievements {
			rows = append(rows, []string{shared.CheckMark(a.Unlocked), a.Name, a.Description})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"", "Achievement", "Description"}, rows))
	})
}
