package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoggedIn MsgKind = iota
	MsgLoggedOut
	MsgNavigate
	MsgSectionLoaded
	MsgThemeChanged
	MsgHabitLogsFetched
	MsgProgressUpdate
	MsgExportComplete
	MsgStatus
)

type resultData struct {
	value any
	err   error
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(err error) Msg {
	return Msg{kind: MsgLoggedIn, data: resultData{err: err}}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, data: resultData{err: err}}
}

// navigateMsg is the constructor for [MsgNavigate]
func navigateMsg(route string) Msg {
	return Msg{kind: MsgNavigate, data: route}
}

// sectionLoadedMsg is the constructor for [MsgSectionLoaded]
func sectionLoadedMsg(route string, err error) Msg {
	return Msg{kind: MsgSectionLoaded, data: resultData{value: route, err: err}}
}

// themeChangedMsg is the constructor for [MsgThemeChanged]
func themeChangedMsg(err error) Msg {
	return Msg{kind: MsgThemeChanged, data: resultData{err: err}}
}

// habitLogsFetchedMsg is the constructor for [MsgHabitLogsFetched]
func habitLogsFetchedMsg(habit models.Habit, logs []models.HabitLog, err error) Msg {
	return Msg{
		kind: MsgHabitLogsFetched,
		data: struct {
			habit models.Habit
			logs  []models.HabitLog
			err   error
		}{habit, logs, err},
	}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *tasks.BulkExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: resultData{value: result, err: err}}
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string, err error) Msg {
	return Msg{kind: MsgStatus, data: resultData{value: text, err: err}}
}
