package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

var (
	_ list.Item = item[models.Note]{}
	_ list.Item = menuItem{}
)

// item wraps a backend record to implement [list.Item].
type item[T any] struct {
	value T
	title string
	desc  string
}

func (i item[T]) FilterValue() string { return i.title }
func (i item[T]) Title() string       { return i.title }
func (i item[T]) Description() string { return i.desc }

// menuItem is one entry of the main menu.
type menuItem struct {
	route string
	title string
	desc  string
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

func menuItems() []list.Item {
	return []list.Item{
		menuItem{routeHabits, "Habits", "Track daily habits, streaks and heatmaps"},
		menuItem{routeNotes, "Notes", "Pinned, archived and trashed notes"},
		menuItem{routeProjects, "Projects", "Projects and their progress"},
		menuItem{routeGallery, "Gallery", "Your photos"},
		menuItem{routeCalendar, "Calendar", "Tasks by day"},
		menuItem{routeThemes, "Themes", "Pick a color palette"},
		menuItem{routeExport, "Export", "Download everything as JSON"},
		menuItem{routeLogout, "Logout", "End this session"},
	}
}

func joinParts(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " • ")
}

func habitItem(h models.Habit) item[models.Habit] {
	done := ""
	if h.TodayCompleted {
		done = "done today"
	}
	return item[models.Habit]{
		value: h,
		title: h.Name,
		desc:  joinParts(string(h.Frequency), fmt.Sprintf("streak %d", h.CurrentStreak), done),
	}
}

func noteItem(n models.Note) item[models.Note] {
	title := n.Title
	if n.IsPinned {
		title = "📌 " + title
	}
	folder := ""
	if n.FolderName != nil {
		folder = *n.FolderName
	}
	return item[models.Note]{value: n, title: title, desc: joinParts(folder, shared.Truncate(n.Content, 60))}
}

func projectItem(p models.Project) item[models.Project] {
	title := p.Title
	if p.IsPinned {
		title = "📌 " + title
	}
	return item[models.Project]{
		value: p,
		title: title,
		desc:  joinParts(string(p.Status), fmt.Sprintf("%d%%", p.Progress), p.CollectionName),
	}
}

func photoItem(p models.Photo) item[models.Photo] {
	return item[models.Photo]{value: p, title: p.Title, desc: joinParts(p.Description, p.UploadedAt)}
}

func taskItem(t models.Task) item[models.Task] {
	when := t.Date
	if t.StartTime != nil {
		when += " " + *t.StartTime
	}
	return item[models.Task]{
		value: t,
		title: shared.CheckMark(t.Completed) + " " + t.Title,
		desc:  joinParts(when, t.Priority),
	}
}

func themeItem(current int) func(models.Theme) item[models.Theme] {
	return func(t models.Theme) item[models.Theme] {
		active := ""
		if t.ID == current {
			active = "active"
		}
		return item[models.Theme]{value: t, title: t.Name, desc: joinParts(t.PrimaryColor, t.SecondaryColor, active)}
	}
}
