package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/views"
)

// sectionView is the type-erased face of a [section] the model drives.
type sectionView interface {
	route() string
	reload() tea.Cmd
	sync()
	list() *list.Model
	state() (loading bool, err error)
	lifetime() context.Context
	close()
}

// section binds a [views.List] to a bubbles list for the lifetime of one screen.
type section[T, F any] struct {
	name   string
	data   *views.List[T, F]
	model  list.Model
	toItem func(T) item[T]
}

func newSection[T, F any](
	ctx context.Context,
	route, title string,
	fetch views.Fetcher[T, F],
	filter F,
	toItem func(T) item[T],
	logger *log.Logger,
) *section[T, F] {
	model := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	model.Title = title
	return &section[T, F]{
		name:   route,
		data:   views.NewList(ctx, fetch, filter, logger),
		model:  model,
		toItem: toItem,
	}
}

func (s *section[T, F]) route() string     { return s.name }
func (s *section[T, F]) list() *list.Model { return &s.model }
func (s *section[T, F]) close()            { s.data.Close() }

func (s *section[T, F]) lifetime() context.Context { return s.data.Context() }

func (s *section[T, F]) state() (bool, error) {
	snap := s.data.Snapshot()
	return snap.Loading, snap.Err
}

func (s *section[T, F]) reload() tea.Cmd {
	return func() tea.Msg {
		return sectionLoadedMsg(s.name, s.data.Reload())
	}
}

func (s *section[T, F]) setFilter(f F) tea.Cmd {
	return func() tea.Msg {
		return sectionLoadedMsg(s.name, s.data.SetFilter(f))
	}
}

// mutate runs fn and reloads the section when it succeeds.
func (s *section[T, F]) mutate(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return sectionLoadedMsg(s.name, s.data.Mutate(fn))
	}
}

// sync copies the current items into the bubbles list.
func (s *section[T, F]) sync() {
	items := s.data.Items()
	out := make([]list.Item, len(items))
	for i, v := range items {
		out[i] = s.toItem(v)
	}
	s.model.SetItems(out)
}

func (s *section[T, F]) selected() (T, bool) {
	it, ok := s.model.SelectedItem().(item[T])
	return it.value, ok
}

func (s *section[T, F]) filter() F {
	return s.data.Filter()
}

// discarded reports whether err belongs to a response that must not touch the screen.
func discarded(err error) bool {
	return errors.Is(err, views.ErrStale) || errors.Is(err, views.ErrClosed)
}
