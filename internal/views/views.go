// Package views binds backend list calls to a view's lifetime.
//
// A [List] owns the items of one screen together with its loading and error flags. Every fetch runs under the
// list's own context, so [List.Close] cancels whatever is in flight when the screen goes away, and a generation
// counter drops responses that arrive after a newer reload or a filter change was started.
package views

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

// ErrStale is returned by a reload whose response was superseded before it arrived.
var ErrStale = errors.New("response superseded by a newer request")

// ErrClosed is returned once the list's lifetime has ended.
var ErrClosed = errors.New("view closed")

// Fetcher loads the items matching filter.
type Fetcher[T, F any] func(ctx context.Context, filter F) ([]T, error)

// Snapshot is a copy of a list's state.
type Snapshot[T, F any] struct {
	Items      []T
	Filter     F
	Loading    bool
	Err        error
	Generation uint64
}

// List is the state of one list screen.
type List[T, F any] struct {
	fetch  Fetcher[T, F]
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger

	mu       sync.Mutex
	filter   F
	items    []T
	loading  bool
	err      error
	gen      uint64
	closed   bool
	onChange func(Snapshot[T, F])
}

// NewList creates a list whose lifetime ends when parent is cancelled or [List.Close] is called.
func NewList[T, F any](parent context.Context, fetch Fetcher[T, F], filter F, logger *log.Logger) *List[T, F] {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	ctx, cancel := context.WithCancel(parent)
	return &List[T, F]{fetch: fetch, ctx: ctx, cancel: cancel, filter: filter, logger: logger}
}

// OnChange registers fn to receive a snapshot after every state change.
func (l *List[T, F]) OnChange(fn func(Snapshot[T, F])) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Snapshot returns the current state.
func (l *List[T, F]) Snapshot() Snapshot[T, F] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *List[T, F]) snapshot() Snapshot[T, F] {
	return Snapshot[T, F]{
		Items:      append([]T(nil), l.items...),
		Filter:     l.filter,
		Loading:    l.loading,
		Err:        l.err,
		Generation: l.gen,
	}
}

// Items returns the current items.
func (l *List[T, F]) Items() []T {
	return l.Snapshot().Items
}

// Filter returns the current filter.
func (l *List[T, F]) Filter() F {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Reload fetches the items for the current filter.
//
// Only the newest reload may write its result; an older one returns [ErrStale] and changes nothing.
func (l *List[T, F]) Reload() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.gen++
	gen, filter := l.gen, l.filter
	l.loading = true
	l.mu.Unlock()
	l.notify()

	items, err := l.fetch(l.ctx, filter)

	l.mu.Lock()
	if l.closed || gen != l.gen {
		closed := l.closed
		l.mu.Unlock()
		l.logger.Debug("discarding late response", "generation", gen)
		if closed {
			return ErrClosed
		}
		return ErrStale
	}
	l.loading = false
	if err != nil {
		l.err = err
	} else {
		l.items, l.err = items, nil
	}
	l.mu.Unlock()
	l.notify()
	return err
}

// SetFilter replaces the filter and reloads.
func (l *List[T, F]) SetFilter(filter F) error {
	l.mu.Lock()
	l.filter = filter
	l.mu.Unlock()
	return l.Reload()
}

// Mutate runs fn under the list's lifetime and reloads when it succeeds.
// A failed mutation is recorded as the list's error and the items are left alone.
func (l *List[T, F]) Mutate(fn func(ctx context.Context) error) error {
	if l.isClosed() {
		return ErrClosed
	}

	if err := fn(l.ctx); err != nil {
		l.mu.Lock()
		if !l.closed {
			l.err = err
		}
		l.mu.Unlock()
		l.notify()
		return err
	}
	return l.Reload()
}

// Close cancels every in-flight call and discards their results.
func (l *List[T, F]) Close() {
	l.mu.Lock()
	l.closed = true
	l.loading = false
	l.mu.Unlock()
	l.cancel()
}

// Context returns the list's lifetime.
func (l *List[T, F]) Context() context.Context {
	return l.ctx
}

func (l *List[T, F]) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *List[T, F]) notify() {
	l.mu.Lock()
	fn := l.onChange
	snap := l.snapshot()
	closed := l.closed
	l.mu.Unlock()

	if fn != nil && !closed {
		fn(snap)
	}
}
