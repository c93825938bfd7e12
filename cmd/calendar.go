package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

var priorities = map[string]bool{"low": true, "medium": true, "high": true}

// CalendarList lists tasks in a range, or on one day with --date.
func (r *Runner) CalendarList(ctx context.Context, cmd *cli.Command) error {
	var (
		list []models.Task
		err  error
	)
	if s := cmd.String("date"); s != "" {
		day, perr := models.ParseDate(s)
		if perr != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, perr)
		}
		list, err = r.hub.Calendar.ByDate(ctx, day)
	} else {
		rng, perr := services.ParseTaskRange(cmd.String("range"))
		if perr != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, perr)
		}
		list, err = r.hub.Calendar.Range(ctx, rng)
	}
	if err != nil {
		return err
	}
	if done, err := r.writeRecords(cmd, list); done {
		return err
	}

	return r.render(cmd, list, func() error {
		if len(list) == 0 {
			return r.writePlain("No tasks\n")
		}
		return r.writePlain("%s\n", formatter.TasksTable(list))
	})
}

// applyTaskFlags overwrites the fields of in whose flags are set.
func applyTaskFlags(cmd *cli.Command, in *models.TaskInput) error {
	if cmd.IsSet("title") {
		in.Title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		in.Description = cmd.String("description")
	}
	if cmd.IsSet("date") {
		in.Date = cmd.String("date")
	}
	if t := optionalString(cmd, "start"); t != nil {
		in.StartTime = t
	}
	if t := optionalString(cmd, "end"); t != nil {
		in.EndTime = t
	}
	if p := cmd.String("priority"); p != "" {
		if !priorities[p] {
			return fmt.Errorf("%w: unknown priority %q (want low, medium or high)", shared.ErrInvalidFlag, p)
		}
		in.Priority = p
	}
	return nil
}

// CalendarAdd creates a task.
func (r *Runner) CalendarAdd(ctx context.Context, cmd *cli.Command) error {
	in := models.TaskInput{Priority: "medium"}
	if err := applyTaskFlags(cmd, &in); err != nil {
		return err
	}

	task, err := r.hub.Calendar.Create(ctx, in)
	if err != nil {
		return err
	}
	r.logger.Info("task created", "id", task.ID)
	return r.render(cmd, task, func() error {
		return r.writePlain("✓ Added %q on %s (id %d)\n", task.Title, task.Date, task.ID)
	})
}

// CalendarEdit fetches a task, applies the flags that are set and saves it.
func (r *Runner) CalendarEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	task, err := r.hub.Calendar.Get(ctx, id)
	if err != nil {
		return err
	}

	in := task.Input()
	if err := applyTaskFlags(cmd, &in); err != nil {
		return err
	}
	updated, err := r.hub.Calendar.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return r.render(cmd, updated, func() error {
		return r.writePlain("✓ Updated %q\n", updated.Title)
	})
}

func (r *Runner) CalendarToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	task, err := r.hub.Calendar.ToggleComplete(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %q done %s\n", task.Title, shared.CheckMark(task.Completed))
}

func (r *Runner) CalendarDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Calendar.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted task %d\n", id)
}
