package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProjectsList lists projects matching the filter flags.
func (r *Runner) ProjectsList(ctx context.Context, cmd *cli.Command) error {
	filter := services.ProjectFilter{
		Search:     cmd.String("search"),
		Collection: cmd.Int("collection"),
		Tag:        cmd.Int("tag"),
		Pinned:     cmd.Bool("pinned"),
	}
	if s := cmd.String("status"); s != "" {
		status, err := models.ParseProjectStatus(s)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		filter.Status = status
	}

	projects, err := r.hub.Projects.List(ctx, filter)
	if err != nil {
		return err
	}
	if done, err := r.writeRecords(cmd, projects); done {
		return err
	}

	return r.render(cmd, projects, func() error {
		if len(projects) == 0 {
			return r.writePlain("No projects\n")
		}
		return r.writePlain("%s\n", formatter.ProjectsTable(projects))
	})
}

// ProjectsShow prints one project.
func (r *Runner) ProjectsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	p, err := r.hub.Projects.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.render(cmd, p, func() error {
		r.writePlainHeader(p.Title)
		r.writePlain("Status: %s  Progress: %d%%  Pinned: %s\n", p.Status, p.Progress, shared.CheckMark(p.IsPinned))
		if p.CollectionName != "" {
			r.writePlain("Collection: %s\n", p.CollectionName)
		}
		if p.DueDate != nil {
			r.writePlain("Due: %s\n", *p.DueDate)
		}
		if p.URL != nil && *p.URL != "" {
			r.writePlain("URL: %s\n", *p.URL)
		}
		if len(p.TagsData) > 0 {
			r.writePlain("Tags:")
			for _, t := range p.TagsData {
				r.writePlain(" #%s", t.Name)
			}
			r.writePlain("\n")
		}
		if p.Description != "" {
			r.writePlainln("%s", p.Description)
		}
		return nil
	})
}

// applyProjectFlags overwrites the fields of in whose flags are set.
func applyProjectFlags(cmd *cli.Command, in *models.ProjectInput) error {
	if cmd.IsSet("title") {
		in.Title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		in.Description = cmd.String("description")
	}
	if u := optionalString(cmd, "url"); u != nil {
		in.URL = u
	}
	if id := optionalID(cmd, "collection"); id != nil {
		in.Collection = id
		if *id == 0 {
			in.Collection = nil
		}
	}
	if cmd.IsSet("tag") {
		in.Tags = cmd.IntSlice("tag")
	}
	if s := cmd.String("status"); s != "" {
		status, err := models.ParseProjectStatus(s)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		in.Status = status
	}
	if due := optionalString(cmd, "due"); due != nil {
		if *due == "" {
			in.DueDate = nil
		} else {
			if _, err := models.ParseDate(*due); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
			}
			in.DueDate = due
		}
	}
	return nil
}

// ProjectsCreate creates a project.
func (r *Runner) ProjectsCreate(ctx context.Context, cmd *cli.Command) error {
	in := models.ProjectInput{Tags: []int{}, Status: models.StatusActive}
	if err := applyProjectFlags(cmd, &in); err != nil {
		return err
	}

	p, err := r.hub.Projects.Create(ctx, in)
	if err != nil {
		return err
	}
	r.logger.Info("project created", "id", p.ID)
	return r.render(cmd, p, func() error {
		return r.writePlain("✓ Created project %q (id %d)\n", p.Title, p.ID)
	})
}

// ProjectsEdit fetches a project, applies the flags that are set and saves it.
func (r *Runner) ProjectsEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	p, err := r.hub.Projects.Get(ctx, id)
	if err != nil {
		return err
	}

	in := p.Input()
	if err := applyProjectFlags(cmd, &in); err != nil {
		return err
	}
	updated, err := r.hub.Projects.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return r.render(cmd, updated, func() error {
		return r.writePlain("✓ Updated project %q\n", updated.Title)
	})
}

func (r *Runner) ProjectsPin(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	p, err := r.hub.Projects.Pin(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %q pinned %s\n", p.Title, shared.CheckMark(p.IsPinned))
}

// ProjectsProgress sets the completion percentage.
func (r *Runner) ProjectsProgress(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	raw := cmd.StringArg("percent")
	percent, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: percent must be a number, got %q", shared.ErrInvalidArgument, raw)
	}

	p, err := r.hub.Projects.SetProgress(ctx, id, percent)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %q at %d%% (%s)\n", p.Title, p.Progress, p.Status)
}

func (r *Runner) ProjectsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Projects.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted project %d\n", id)
}

// CollectionsList lists collections with their project counts.
func (r *Runner) CollectionsList(ctx context.Context, cmd *cli.Command) error {
	collections, err := r.hub.Projects.Collections(ctx, cmd.String("search"))
	if err != nil {
		return err
	}
	return r.render(cmd, collections, func() error {
		rows := make([][]string, 0, len(collections))
		for _, c := range collections {
			rows = append(rows, []string{fmt.Sprint(c.ID), c.Name, fmt.Sprint(c.ProjectCount), c.Description})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"ID", "Collection", "Projects", "Description"}, rows))
	})
}

func (r *Runner) CollectionsProjects(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	projects, err := r.hub.Projects.CollectionProjects(ctx, id)
	if err != nil {
		return err
	}
	return r.render(cmd, projects, func() error {
		if len(projects) == 0 {
			return r.writePlain("No projects in collection %d\n", id)
		}
		return r.writePlain("%s\n", formatter.ProjectsTable(projects))
	})
}

func (r *Runner) CollectionsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	c, err := r.hub.Projects.CreateCollection(ctx, models.Collection{
		Name:        name,
		Description: cmd.String("description"),
		Color:       cmd.String("color"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created collection %s (id %d)\n", c.Name, c.ID)
}

func (r *Runner) CollectionsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Projects.DeleteCollection(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted collection %d\n", id)
}

func (r *Runner) ProjectTagsList(ctx context.Context, cmd *cli.Command) error {
	tags, err := r.hub.Projects.Tags(ctx)
	if err != nil {
		return err
	}
	return r.render(cmd, tags, func() error {
		rows := make([][]string, 0, len(tags))
		for _, t := range tags {
			rows = append(rows, []string{fmt.Sprint(t.ID), t.Name, t.Color})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"ID", "Tag", "Color"}, rows))
	})
}

func (r *Runner) ProjectTagsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	tag, err := r.hub.Projects.CreateTag(ctx, models.ProjectTag{Name: name, Color: cmd.String("color")})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created tag #%s (id %d)\n", tag.Name, tag.ID)
}

func (r *Runner) ProjectTagsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Projects.DeleteTag(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted tag %d\n", id)
}
