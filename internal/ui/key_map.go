package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	next    key.Binding
	reload  key.Binding
	pin     key.Binding
	archive key.Binding
	trash   key.Binding
	restore key.Binding
	toggle  key.Binding
	more    key.Binding
	less    key.Binding
	open    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		pin:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin")),
		archive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		trash:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "trash")),
		restore: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "restore")),
		toggle:  key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "toggle")),
		more:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "progress +10")),
		less:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "progress -10")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.next, k.reload, k.toggle, k.open},
		{k.pin, k.archive, k.trash, k.restore},
		{k.more, k.less, k.quit},
	}
}

// sectionKeys lists the bindings a section responds to, for its help line.
func (k keyMap) sectionKeys(route string) []key.Binding {
	switch route {
	case routeHabits:
		return []key.Binding{k.enter, k.toggle, k.reload, k.back}
	case routeNotes:
		return []key.Binding{k.next, k.pin, k.archive, k.trash, k.restore, k.back}
	case routeProjects:
		return []key.Binding{k.pin, k.more, k.less, k.reload, k.back}
	case routeGallery:
		return []key.Binding{k.open, k.reload, k.back}
	case routeCalendar:
		return []key.Binding{k.next, k.toggle, k.reload, k.back}
	case routeThemes:
		return []key.Binding{k.enter, k.reload, k.back}
	}
	return []key.Binding{k.back, k.quit}
}
