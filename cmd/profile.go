package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the signed-in user's profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	profile, err := r.hub.Profile.Get(ctx)
	if err != nil {
		return err
	}

	return r.render(cmd, profile, func() error {
		r.writePlainHeader(profile.User.DisplayName())
		for _, row := range [][2]string{
			{"Username", profile.User.Username},
			{"Email", profile.User.Email},
			{"Title", profile.Title},
			{"Phone", profile.Phone},
			{"Address", strings.Trim(strings.Join([]string{profile.Address, profile.City, profile.State, profile.Postcode}, ", "), ", ")},
			{"Birthday", profile.DateOfBirth},
			{"About", profile.About},
			{"Avatar", r.hub.MediaURL(profile.Avatar)},
		} {
			if row[1] != "" {
				r.writePlain("%-10s %s\n", row[0]+":", row[1])
			}
		}
		if profile.CurrentTheme != nil {
			r.writePlain("%-10s %d\n", "Theme:", profile.CurrentTheme.ID)
		}
		return nil
	})
}

// ProfileUpdate sends the fields given on the command line, plus an avatar when --avatar is set.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	upd := models.ProfileUpdate{
		Phone:       cmd.String("phone"),
		Address:     cmd.String("address"),
		City:        cmd.String("city"),
		State:       cmd.String("state"),
		Postcode:    cmd.String("postcode"),
		DateOfBirth: cmd.String("birthday"),
		Title:       cmd.String("title"),
		About:       cmd.String("about"),
	}
	if upd.DateOfBirth != "" {
		if _, err := models.ParseDate(upd.DateOfBirth); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
	}

	var avatar *services.FormFile
	if path := cmd.String("avatar"); path != "" {
		file, err := services.FileFromPath("avatar", path)
		if err != nil {
			return err
		}
		avatar = &file
	}
	if len(upd.Fields()) == 0 && avatar == nil {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	profile, err := r.hub.Profile.Update(ctx, upd, avatar)
	if err != nil {
		return err
	}
	r.logger.Info("profile updated")
	return r.render(cmd, profile, func() error {
		return r.writePlain("✓ Profile updated\n")
	})
}

// ProfileActivities lists the recent activity feed.
func (r *Runner) ProfileActivities(ctx context.Context, cmd *cli.Command) error {
	activities, err := r.hub.Profile.Activities(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	return r.render(cmd, activities, func() error {
		if len(activities) == 0 {
			return r.writePlain("No recent activity\n")
		}
		rows := make([][]string, 0, len(activities))
		for _, a := range activities {
			rows = append(rows, []string{a.CreatedAt, a.Action, a.Description})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"When", "Action", "Description"}, rows))
	})
}

// ThemesList lists themes with the active one marked.
func (r *Runner) ThemesList(ctx context.Context, cmd *cli.Command) error {
	themes, err := r.hub.Profile.Themes(ctx)
	if err != nil {
		return err
	}
	if err := r.theme.Load(ctx); err != nil {
		r.logger.Debug("active theme unknown", "error", err)
	}
	current := r.theme.Current().ID

	return r.render(cmd, themes, func() error {
		rows := make([][]string, 0, len(themes))
		for _, t := range themes {
			rows = append(rows, []string{
				shared.CheckMark(t.ID == current),
				fmt.Sprint(t.ID),
				t.Name,
				t.PrimaryColor,
				t.BackgroundColor,
				shared.CheckMark(t.IsDefault),
			})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"", "ID", "Name", "Primary", "Background", "Default"}, rows))
	})
}

// ThemesSet makes a theme the active one.
func (r *Runner) ThemesSet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.theme.Change(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", r.theme.Current().Name)
}

// ThemesCreate creates a theme from the color flags.
func (r *Runner) ThemesCreate(ctx context.Context, cmd *cli.Command) error {
	created, err := r.hub.Profile.CreateTheme(ctx, models.Theme{
		Name:            cmd.String("name"),
		PrimaryColor:    cmd.String("primary"),
		SecondaryColor:  cmd.String("secondary"),
		BackgroundColor: cmd.String("background"),
		TextColor:       cmd.String("text"),
		SidebarColor:    cmd.String("sidebar"),
	})
	if err != nil {
		return err
	}
	return r.render(cmd, created, func() error {
		return r.writePlain("✓ Created theme %s (id %d)\n", created.Name, created.ID)
	})
}

// ThemesDelete deletes a theme.
func (r *Runner) ThemesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Profile.DeleteTheme(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted theme %d\n", id)
}
