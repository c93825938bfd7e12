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

func noteFilter(cmd *cli.Command) (services.NoteFilter, error) {
	scope, err := services.ParseNoteScope(cmd.String("scope"))
	if err != nil {
		return services.NoteFilter{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return services.NoteFilter{
		Scope:  scope,
		Search: cmd.String("search"),
		Folder: cmd.Int("folder"),
		Tag:    cmd.Int("tag"),
	}, nil
}

// writeRecords renders records in the --format flag's format when one is given and reports whether it did.
func (r *Runner) writeRecords(cmd *cli.Command, records any) (bool, error) {
	name := cmd.String("format")
	if name == "" {
		return false, nil
	}
	format, err := formatter.ParseFormat(name)
	if err != nil {
		return true, err
	}
	data, err := formatter.Export(records, format)
	if err != nil {
		return true, err
	}
	if _, err := r.output.Write(data); err != nil {
		return true, fmt.Errorf("failed to write output: %w", err)
	}
	return true, nil
}

// NotesList lists notes in one scope.
func (r *Runner) NotesList(ctx context.Context, cmd *cli.Command) error {
	filter, err := noteFilter(cmd)
	if err != nil {
		return err
	}
	notes, err := r.hub.Notes.List(ctx, filter)
	if err != nil {
		return err
	}
	if done, err := r.writeRecords(cmd, notes); done {
		return err
	}

	return r.render(cmd, notes, func() error {
		if len(notes) == 0 {
			return r.writePlain("No %s notes\n", filter.Scope)
		}
		return r.writePlain("%s\n", formatter.NotesTable(notes))
	})
}

// NotesShow prints one note.
func (r *Runner) NotesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	note, err := r.hub.Notes.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.render(cmd, note, func() error {
		r.writePlainHeader(note.Title)
		if note.FolderName != nil {
			r.writePlain("Folder: %s\n", *note.FolderName)
		}
		if len(note.Tags) > 0 {
			r.writePlain("Tags:")
			for _, t := range note.Tags {
				r.writePlain(" #%s", t.Name)
			}
			r.writePlain("\n")
		}
		r.writePlain("Pinned: %s  Archived: %s  Trashed: %s\n",
			shared.CheckMark(note.IsPinned), shared.CheckMark(note.IsArchived), shared.CheckMark(note.IsDeleted))
		r.writePlainln("%s", note.Content)
		for _, img := range note.Images {
			r.writePlain("Image %d: %s\n", img.ID, r.hub.MediaURL(img.Image))
		}
		return nil
	})
}

// applyNoteFlags overwrites the fields of in whose flags are set.
func applyNoteFlags(cmd *cli.Command, in *models.NoteInput) {
	if cmd.IsSet("title") {
		in.Title = cmd.String("title")
	}
	if cmd.IsSet("content") {
		in.Content = cmd.String("content")
	}
	if id := optionalID(cmd, "folder"); id != nil {
		in.Folder = id
		if *id == 0 {
			in.Folder = nil
		}
	}
	if cmd.IsSet("tag") {
		in.TagIDs = cmd.IntSlice("tag")
	}
	if cmd.IsSet("color") {
		in.Color = cmd.String("color")
	}
}

// NotesCreate creates a note.
func (r *Runner) NotesCreate(ctx context.Context, cmd *cli.Command) error {
	in := models.NoteInput{TagIDs: []int{}}
	applyNoteFlags(cmd, &in)

	note, err := r.hub.Notes.Create(ctx, in)
	if err != nil {
		return err
	}
	r.logger.Info("note created", "id", note.ID)
	return r.render(cmd, note, func() error {
		return r.writePlain("✓ Created note %q (id %d)\n", note.Title, note.ID)
	})
}

// NotesEdit fetches a note, applies the flags that are set and saves it.
func (r *Runner) NotesEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	note, err := r.hub.Notes.Get(ctx, id)
	if err != nil {
		return err
	}

	in := note.Input()
	applyNoteFlags(cmd, &in)
	updated, err := r.hub.Notes.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return r.render(cmd, updated, func() error {
		return r.writePlain("✓ Updated note %q\n", updated.Title)
	})
}

// noteAction runs one of the toggle endpoints and reports the resulting flags.
func (r *Runner) noteAction(ctx context.Context, cmd *cli.Command, fn func(context.Context, int) (*models.Note, error)) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	note, err := fn(ctx, id)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %q  pinned %s  archived %s  trashed %s\n", note.Title,
		shared.CheckMark(note.IsPinned), shared.CheckMark(note.IsArchived), shared.CheckMark(note.IsDeleted))
}

func (r *Runner) NotesPin(ctx context.Context, cmd *cli.Command) error {
	return r.noteAction(ctx, cmd, r.hub.Notes.Pin)
}

func (r *Runner) NotesArchive(ctx context.Context, cmd *cli.Command) error {
	return r.noteAction(ctx, cmd, r.hub.Notes.Archive)
}

func (r *Runner) NotesTrash(ctx context.Context, cmd *cli.Command) error {
	return r.noteAction(ctx, cmd, r.hub.Notes.Trash)
}

func (r *Runner) NotesRestore(ctx context.Context, cmd *cli.Command) error {
	return r.noteAction(ctx, cmd, r.hub.Notes.Restore)
}

// NotesDelete deletes a note permanently.
func (r *Runner) NotesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Notes.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted note %d\n", id)
}

// NotesPurge empties old notes out of the trash.
func (r *Runner) NotesPurge(ctx context.Context, cmd *cli.Command) error {
	n, err := r.hub.Notes.PurgeTrash(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("trash purged", "deleted", n)
	return r.writePlain("✓ Permanently deleted %d notes\n", n)
}

// NotesExport writes the notes of a scope to a file.
func (r *Runner) NotesExport(ctx context.Context, cmd *cli.Command) error {
	filter, err := noteFilter(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	notes, err := r.hub.Notes.List(ctx, filter)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		path = "notes" + format.Ext()
	}
	if err := formatter.WriteExport(notes, format, path); err != nil {
		return err
	}
	r.logger.Info("notes exported", "count", len(notes), "path", path)
	return r.writePlain("✓ Exported %d notes to %s\n", len(notes), path)
}

// FoldersList lists note folders.
func (r *Runner) FoldersList(ctx context.Context, cmd *cli.Command) error {
	folders, err := r.hub.Notes.Folders(ctx)
	if err != nil {
		return err
	}
	return r.render(cmd, folders, func() error {
		rows := make([][]string, 0, len(folders))
		for _, f := range folders {
			rows = append(rows, []string{fmt.Sprint(f.ID), f.Name})
		}
		return r.writePlain("%s\n", formatter.Table([]string{"ID", "Folder"}, rows))
	})
}

func (r *Runner) FoldersCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	folder, err := r.hub.Notes.CreateFolder(ctx, name)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created folder %s (id %d)\n", folder.Name, folder.ID)
}

func (r *Runner) FoldersRename(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	folder, err := r.hub.Notes.RenameFolder(ctx, id, name)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Renamed folder %d to %s\n", folder.ID, folder.Name)
}

func (r *Runner) FoldersDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Notes.DeleteFolder(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted folder %d\n", id)
}

// NoteTagsList lists note tags.
func (r *Runner) NoteTagsList(ctx context.Context, cmd *cli.Command) error {
	tags, err := r.hub.Notes.Tags(ctx)
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

func (r *Runner) NoteTagsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	tag, err := r.hub.Notes.CreateTag(ctx, models.NoteTag{Name: name, Color: cmd.String("color")})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created tag #%s (id %d)\n", tag.Name, tag.ID)
}

func (r *Runner) NoteTagsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.hub.Notes.DeleteTag(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted tag %d\n", id)
}

// NoteImageUpload attaches an image file to a note.
func (r *Runner) NoteImageUpload(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}
	file, err := services.FileFromPath("image", path)
	if err != nil {
		return err
	}
	img, err := r.hub.Notes.UploadImage(ctx, id, file)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Attached image %d: %s\n", img.ID, r.hub.MediaURL(img.Image))
}

func (r *Runner) NoteImageDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "image-id")
	if err != nil {
		return err
	}
	if err := r.hub.Notes.DeleteImage(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted image %d\n", id)
}
