package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/desertthunder/hobbyhub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GalleryList lists photos.
func (r *Runner) GalleryList(ctx context.Context, cmd *cli.Command) error {
	photos, err := r.hub.Gallery.List(ctx)
	if err != nil {
		return err
	}

	return r.render(cmd, photos, func() error {
		if len(photos) == 0 {
			return r.writePlain("No photos\n")
		}
		rows := make([][]string, 0, len(photos))
		for _, p := range photos {
			rows = append(rows, []string{fmt.Sprint(p.ID), p.Title, p.Description, p.UploadedAt})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"ID", "Title", "Description", "Uploaded"}, rows))
	})
}

// GalleryUpload uploads every file named on the command line.
func (r *Runner) GalleryUpload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one image path", shared.ErrMissingArgument)
	}

	r.logger.Info("uploading photos", "count", len(paths))
	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.UploadPhoto {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkUpload(ctx, progressCh, paths, tasks.BulkUploadOpts{
		Description: cmd.String("description"),
		NumWorkers:  cmd.Int("workers"),
		RateLimit:   cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	return r.render(cmd, result, func() error {
		r.writePlain("\n")
		r.writePlainHeader("Upload Complete!")
		r.writePlain("Uploaded: %d/%d\n", result.Successful, result.Total)
		if result.Failed > 0 {
			r.writePlain("\nFailed to upload %d files:\n", result.Failed)
			for _, res := range result.Results {
				if res.Error != "" {
					r.writePlain("  - %s: %s\n", res.Path, res.Error)
				}
			}
		}
		return nil
	})
}

// GalleryEdit changes a photo's title or description.
func (r *Runner) GalleryEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if !cmd.IsSet("title") && !cmd.IsSet("description") {
		return fmt.Errorf("%w: --title or --description", shared.ErrMissingArgument)
	}
	photo, err := r.hub.Gallery.Get(ctx, id)
	if err != nil {
		return err
	}

	meta := models.PhotoInput{Title: photo.Title, Description: photo.Description}
	if cmd.IsSet("title") {
		meta.Title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		meta.Description = cmd.String("description")
	}
	updated, err := r.hub.Gallery.Update(ctx, id, meta)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated photo %q\n", updated.Title)
}

// GalleryOpen opens a photo's image in the default browser.
func (r *Runner) GalleryOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	photo, err := r.hub.Gallery.Get(ctx, id)
	if err != nil {
		return err
	}

	target := r.hub.MediaURL(photo.Image)
	if err := shared.OpenBrowser(target); err != nil {
		r.logger.Warn("could not open a browser", "error", err)
		return r.writePlain("Open %s in your browser\n", target)
	}
	return r.writePlain("Opened %s\n", target)
}

func (r *Runner) GalleryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Gallery.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted photo %d\n", id)
}
