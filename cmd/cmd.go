// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "Output YAML",
		},
	)
}

func idArgument(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file with the default settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config (default: the active config path)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show configuration, database and session state",
				Flags:  outputFlags(),
				Action: r.SetupStatus,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with username and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username (prompted when omitted)",
					},
					&cli.BoolFlag{
						Name:  "password-stdin",
						Usage: "Read the password from stdin instead of prompting",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session on the server and forget the tokens",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether a session is stored and when its access token expires",
				Flags:  outputFlags(),
				Action: r.AuthStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Before: r.requireAuth,
				Flags:  outputFlags(),
				Action: r.AuthWhoami,
			},
			{
				Name:   "refresh",
				Usage:  "Exchange the refresh token for a new access token",
				Before: r.requireAuth,
				Action: r.AuthRefresh,
			},
		},
	}
}

// profileCommand handles the profile, its themes and the activity feed.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "profile",
		Usage:  "Profile, themes and activity",
		Before: r.requireAuth,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your profile",
				Flags:  outputFlags(),
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields; only the flags given are sent",
				Flags: outputFlags(
					&cli.StringFlag{Name: "phone", Usage: "Phone number"},
					&cli.StringFlag{Name: "address", Usage: "Street address"},
					&cli.StringFlag{Name: "city", Usage: "City"},
					&cli.StringFlag{Name: "state", Usage: "State or region"},
					&cli.StringFlag{Name: "postcode", Usage: "Postal code"},
					&cli.StringFlag{Name: "birthday", Usage: "Date of birth (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "title", Usage: "Job title"},
					&cli.StringFlag{Name: "about", Usage: "About text"},
					&cli.StringFlag{Name: "avatar", Usage: "Path to a new avatar image"},
				),
				Action: r.ProfileUpdate,
			},
			{
				Name:  "activities",
				Usage: "Show recent activity",
				Flags: outputFlags(
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Number of entries", Value: 10},
				),
				Action: r.ProfileActivities,
			},
			{
				Name:  "themes",
				Usage: "Color themes",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List themes",
						Flags:  outputFlags(),
						Action: r.ThemesList,
					},
					{
						Name:      "set",
						Usage:     "Make a theme the active one",
						Arguments: idArgument("id"),
						Action:    r.ThemesSet,
					},
					{
						Name:  "create",
						Usage: "Create a theme",
						Flags: outputFlags(
							&cli.StringFlag{Name: "name", Usage: "Theme name", Required: true},
							&cli.StringFlag{Name: "primary", Usage: "Primary color", Value: "#6366f1"},
							&cli.StringFlag{Name: "secondary", Usage: "Secondary color", Value: "#8b5cf6"},
							&cli.StringFlag{Name: "background", Usage: "Background color", Value: "#f9fafb"},
							&cli.StringFlag{Name: "text", Usage: "Text color", Value: "#111827"},
							&cli.StringFlag{Name: "sidebar", Usage: "Sidebar color", Value: "#1f2937"},
						),
						Action: r.ThemesCreate,
					},
					{
						Name:      "delete",
						Usage:     "Delete a theme",
						Arguments: idArgument("id"),
						Action:    r.ThemesDelete,
					},
				},
			},
		},
	}
}

func habitInputFlags(required bool) []cli.Flag {
	return outputFlags(
		&cli.StringFlag{Name: "name", Usage: "Habit name", Required: required},
		&cli.StringFlag{Name: "frequency", Usage: "daily, weekdays, weekends or custom"},
		&cli.IntSliceFlag{Name: "day", Usage: "Target weekday for custom habits, Monday=0 (repeatable)"},
		&cli.StringFlag{Name: "category", Usage: "Category"},
		&cli.StringFlag{Name: "color", Usage: "Color"},
		&cli.StringFlag{Name: "icon", Usage: "Icon"},
	)
}

// habitsCommand handles habits, their logs and the gamification summary.
func habitsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "habits",
		Usage:  "Habit tracking",
		Before: r.requireAuth,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List habits",
				Flags: outputFlags(
					&cli.BoolFlag{Name: "due", Usage: "Only habits due today"},
				),
				Action: r.HabitsList,
			},
			{
				Name:      "show",
				Usage:     "Show a habit with its heatmap and streaks",
				Arguments: idArgument("id"),
				Flags:     outputFlags(),
				Action:    r.HabitsShow,
			},
			{
				Name:   "create",
				Usage:  "Create a habit",
				Flags:  habitInputFlags(true),
				Action: r.HabitsCreate,
			},
			{
				Name:      "update",
				Usage:     "Change a habit; only the flags given are sent",
				Arguments: idArgument("id"),
				Flags:     habitInputFlags(false),
				Action:    r.HabitsUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a habit",
				Arguments: idArgument("id"),
				Action:    r.HabitsDelete,
			},
			{
				Name:      "toggle",
				Usage:     "Mark a habit done (or not done with --undo)",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Day to mark (YYYY-MM-DD, default today)"},
					&cli.BoolFlag{Name: "undo", Usage: "Mark the day as not done"},
				},
				Action: r.HabitsToggle,
			},
			{
				Name:      "logs",
				Usage:     "List a habit's logs",
				Arguments: idArgument("id"),
				Flags:     outputFlags(),
				Action:    r.HabitsLogs,
			},
			{
				Name:   "stats",
				Usage:  "Show analytics and points",
				Flags:  outputFlags(),
				Action: r.HabitsStats,
			},
			{
				Name:   "achievements",
				Usage:  "List achievements",
				Flags:  outputFlags(),
				Action: r.HabitsAchievements,
			},
		},
	}
}

func noteInputFlags(required bool) []cli.Flag {
	return outputFlags(
		&cli.StringFlag{Name: "title", Usage: "Note title", Required: required},
		&cli.StringFlag{Name: "content", Usage: "Note body"},
		&cli.IntFlag{Name: "folder", Usage: "Folder id"},
		&cli.IntSliceFlag{Name: "tag", Usage: "Tag id (repeatable)"},
		&cli.StringFlag{Name: "color", Usage: "Note color"},
	)
}

// notesCommand handles notes with their folders, tags and images.
func notesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "notes",
		Usage:  "Notes, folders and tags",
		Before: r.requireAuth,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List notes",
				Flags: outputFlags(
					&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "all, pinned, archived or trashed", Value: "all"},
					&cli.StringFlag{Name: "search", Usage: "Search text"},
					&cli.IntFlag{Name: "folder", Usage: "Folder id"},
					&cli.IntFlag{Name: "tag", Usage: "Tag id"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Render as csv, markdown or txt instead of a table"},
				),
				Action: r.NotesList,
			},
			{
				Name:      "show",
				Usage:     "Show a note",
				Arguments: idArgument("id"),
				Flags:     outputFlags(),
				Action:    r.NotesShow,
			},
			{
				Name:   "create",
				Usage:  "Create a note",
				Flags:  noteInputFlags(true),
				Action: r.NotesCreate,
			},
			{
				Name:      "edit",
				Usage:     "Edit a note; unset flags keep their value",
				Arguments: idArgument("id"),
				Flags:     noteInputFlags(false),
				Action:    r.NotesEdit,
			},
			{Name: "pin", Usage: "Toggle a note's pin", Arguments: idArgument("id"), Action: r.NotesPin},
			{Name: "archive", Usage: "Toggle a note's archived flag", Arguments: idArgument("id"), Action: r.NotesArchive},
			{Name: "trash", Usage: "Move a note to the trash", Arguments: idArgument("id"), Action: r.NotesTrash},
			{Name: "restore", Usage: "Restore a note from the trash", Arguments: idArgument("id"), Action: r.NotesRestore},
			{Name: "delete", Usage: "Delete a note permanently", Arguments: idArgument("id"), Action: r.NotesDelete},
			{
				Name:   "purge",
				Usage:  "Permanently delete notes in the trash for more than 30 days",
				Action: r.NotesPurge,
			},
			{
				Name:  "export",
				Usage: "Write notes to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Usage: "all, pinned, archived or trashed", Value: "all"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown, txt or json", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: notes.<ext>)"},
				},
				Action: r.NotesExport,
			},
			{
				Name:  "folders",
				Usage: "Note folders",
				Commands: []*cli.Command{
					{Name: "list", Usage: "List folders", Flags: outputFlags(), Action: r.FoldersList},
					{
						Name:      "create",
						Usage:     "Create a folder",
						Arguments: idArgument("name"),
						Action:    r.FoldersCreate,
					},
					{
						Name:      "rename",
						Usage:     "Rename a folder",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "name"}},
						Action:    r.FoldersRename,
					},
					{Name: "delete", Usage: "Delete a folder", Arguments: idArgument("id"), Action: r.FoldersDelete},
				},
			},
			{
				Name:  "tags",
				Usage: "Note tags",
				Commands: []*cli.Command{
					{Name: "list", Usage: "List tags", Flags: outputFlags(), Action: r.NoteTagsList},
					{
						Name:      "create",
						Usage:     "Create a tag",
						Arguments: idArgument("name"),
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "color", Usage: "Tag color", Value: "#6366f1"},
						},
						Action: r.NoteTagsCreate,
					},
					{Name: "delete", Usage: "Delete a tag", Arguments: idArgument("id"), Action: r.NoteTagsDelete},
				},
			},
			{
				Name:  "images",
				Usage: "Images attached to notes",
				Commands: []*cli.Command{
					{
						Name:      "upload",
						Usage:     "Attach an image to a note",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "file"}},
						Action:    r.NoteImageUpload,
					},
					{Name: "delete", Usage: "Delete an image", Arguments: idArgument("image-id"), Action: r.NoteImageDelete},
				},
			},
		},
	}
}

func projectInputFlags(required bool) []cli.Flag {
	return outputFlags(
		&cli.StringFlag{Name: "title", Usage: "Project title", Required: required},
		&cli.StringFlag{Name: "description", Usage: "Description"},
		&cli.StringFlag{Name: "url", Usage: "Link"},
		&cli.IntFlag{Name: "collection", Usage: "Collection id"},
		&cli.IntSliceFlag{Name: "tag", Usage: "Tag id (repeatable)"},
		&cli.StringFlag{Name: "status", Usage: "active, completed or on_hold"},
		&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
	)
}

// projectsCommand handles projects, collections and project tags.
func projectsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "projects",
		Usage:  "Projects and collections",
		Before: r.requireAuth,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List projects",
				Flags: outputFlags(
					&cli.StringFlag{Name: "search", Usage: "Search text"},
					&cli.IntFlag{Name: "collection", Usage: "Collection id"},
					&cli.StringFlag{Name: "status", Usage: "active, completed or on_hold"},
					&cli.IntFlag{Name: "tag", Usage: "Tag id"},
					&cli.BoolFlag{Name: "pinned", Usage: "Only pinned projects"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Render as csv, markdown or txt instead of a table"},
				),
				Action: r.ProjectsList,
			},
			{Name: "show", Usage: "Show a project", Arguments: idArgument("id"), Flags: outputFlags(), Action: r.ProjectsShow},
			{Name: "create", Usage: "Create a project", Flags: projectInputFlags(true), Action: r.ProjectsCreate},
			{
				Name:      "edit",
				Usage:     "Edit a project; unset flags keep their value",
				Arguments: idArgument("id"),
				Flags:     projectInputFlags(false),
				Action:    r.ProjectsEdit,
			},
			{Name: "pin", Usage: "Toggle a project's pin", Arguments: idArgument("id"), Action: r.ProjectsPin},
			{
				Name:      "progress",
				Usage:     "Set a project's progress (0-100)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "percent"}},
				Action:    r.ProjectsProgress,
			},
			{Name: "delete", Usage: "Delete a project", Arguments: idArgument("id"), Action: r.ProjectsDelete},
			{
				Name:  "collections",
				Usage: "Project collections",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List collections",
						Flags:  outputFlags(&cli.StringFlag{Name: "search", Usage: "Search text"}),
						Action: r.CollectionsList,
					},
					{
						Name:      "projects",
						Usage:     "List the projects of a collection",
						Arguments: idArgument("id"),
						Flags:     outputFlags(),
						Action:    r.CollectionsProjects,
					},
					{
						Name:      "create",
						Usage:     "Create a collection",
						Arguments: idArgument("name"),
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "description", Usage: "Description"},
							&cli.StringFlag{Name: "color", Usage: "Color", Value: "#6366f1"},
						},
						Action: r.CollectionsCreate,
					},
					{Name: "delete", Usage: "Delete a collection", Arguments: idArgument("id"), Action: r.CollectionsDelete},
				},
			},
			{
				Name:  "tags",
				Usage: "Project tags",
				Commands: []*cli.Command{
					{Name: "list", Usage: "List tags", Flags: outputFlags(), Action: r.ProjectTagsList},
					{
						Name:      "create",
						Usage:     "Create a tag",
						Arguments: idArgument("name"),
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "color", Usage: "Tag color", Value: "#6366f1"},
						},
						Action: r.ProjectTagsCreate,
					},
					{Name: "delete", Usage: "Delete a tag", Arguments: idArgument("id"), Action: r.ProjectTagsDelete},
				},
			},
		},
	}
}

// galleryCommand handles photos.
func galleryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "gallery",
		Usage:  "Photo gallery",
		Before: r.requireAuth,
		Commands: []*cli.Command{
			{Name: "list", Usage: "List photos", Flags: outputFlags(), Action: r.GalleryList},
			{
				Name:  "upload",
				Usage: "Upload one or more images; titles come from the file names",
				Flags: outputFlags(
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Description for every photo"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent uploads", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Uploads per second", Value: 5},
				),
				Action: r.GalleryUpload,
			},
			{
				Name:      "edit",
				Usage:     "Change a photo's title or description",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Title"},
					&cli.StringFlag{Name: "description", Usage: "Description"},
				},
				Action: r.GalleryEdit,
			},
			{Name: "open", Usage: "Open a photo in the browser", Arguments: idArgument("id"), Action: r.GalleryOpen},
			{Name: "delete", Usage: "Delete a photo", Arguments: idArgument("id"), Action: r.GalleryDelete},
		},
	}
}

func taskInputFlags(required bool) []cli.Flag {
	return outputFlags(
		&cli.StringFlag{Name: "title", Usage: "Task title", Required: required},
		&cli.StringFlag{Name: "date", Usage: "Day (YYYY-MM-DD)", Required: required},
		&cli.StringFlag{Name: "start", Usage: "Start time (HH:MM)"},
		&cli.StringFlag{Name: "end", Usage: "End time (HH:MM)"},
		&cli.StringFlag{Name: "priority", Usage: "low, medium or high"},
		&cli.StringFlag{Name: "description", Usage: "Description"},
	)
}

// calendarCommand handles calendar tasks.
func calendarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "calendar",
		Aliases: []string{"cal"},
		Usage:   "Calendar tasks",
		Before:  r.requireAuth,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: outputFlags(
					&cli.StringFlag{Name: "range", Aliases: []string{"r"}, Usage: "all, today, upcoming or past", Value: "upcoming"},
					&cli.StringFlag{Name: "date", Usage: "Only tasks on this day (YYYY-MM-DD); overrides --range"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Render as csv, markdown or txt instead of a table"},
				),
				Action: r.CalendarList,
			},
			{Name: "add", Usage: "Add a task", Flags: taskInputFlags(true), Action: r.CalendarAdd},
			{
				Name:      "edit",
				Usage:     "Edit a task; unset flags keep their value",
				Arguments: idArgument("id"),
				Flags:     taskInputFlags(false),
				Action:    r.CalendarEdit,
			},
			{Name: "toggle", Usage: "Toggle a task's completion", Arguments: idArgument("id"), Action: r.CalendarToggle},
			{Name: "delete", Usage: "Delete a task", Arguments: idArgument("id"), Action: r.CalendarDelete},
		},
	}
}

// apiCommand handles raw calls through a group client, with the same token handling as every other command.
func apiCommand(r *Runner) *cli.Command {
	raw := func(name, usage string, body bool) *cli.Command {
		c := &cli.Command{
			Name:  name,
			Usage: usage,
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "group"},
				&cli.StringArg{Name: "path"},
			},
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true},
			},
			Action: r.APIRequest,
		}
		if body {
			c.Flags = append(c.Flags, &cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "JSON body to send"})
		}
		return c
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend, e.g. `hub api get notes /notes/`",
		Commands: []*cli.Command{
			raw("get", "GET a path and print the response", false),
			raw("post", "POST a JSON body", true),
			raw("put", "PUT a JSON body", true),
			raw("patch", "PATCH a JSON body", true),
			raw("delete", "DELETE a path", false),
		},
	}
}

// exportCommand handles full exports and their history.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export everything to files",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch every resource and write one JSON file per resource plus a manifest",
				Before: r.requireAuth,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: hobbyhub_export_<epoch>)"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Extra rendering for notes, tasks and projects: csv, markdown or txt"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent workers", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Requests per second", Value: 5},
					&cli.StringSliceFlag{Name: "only", Usage: "Only these resources (repeatable)"},
				},
				Action: r.ExportRun,
			},
			{
				Name:  "history",
				Usage: "List past export and upload runs",
				Flags: outputFlags(
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Number of runs", Value: 20},
					&cli.StringFlag{Name: "kind", Usage: "export or upload"},
					&cli.StringFlag{Name: "status", Usage: "completed, partial or failed"},
				),
				Action: r.ExportHistory,
			},
			{
				Name:   "sources",
				Usage:  "List the resources an export fetches",
				Action: r.ExportSources,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
