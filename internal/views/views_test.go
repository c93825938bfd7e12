package views

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scope string

// gatedFetcher blocks each call until its gate channel is released.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[scope]chan struct{}
	calls []scope
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: map[scope]chan struct{}{}}
}

func (g *gatedFetcher) gate(s scope) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.gates[s]; !ok {
		g.gates[s] = make(chan struct{})
	}
	return g.gates[s]
}

func (g *gatedFetcher) fetch(ctx context.Context, s scope) ([]string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, s)
	g.mu.Unlock()

	select {
	case <-g.gate(s):
		return []string{string(s) + "-1", string(s) + "-2"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func staticFetcher(items ...string) Fetcher[string, scope] {
	return func(context.Context, scope) ([]string, error) {
		return items, nil
	}
}

func newTestList(fetch Fetcher[string, scope], filter scope) *List[string, scope] {
	return NewList(context.Background(), fetch, filter, shared.NewLogger(io.Discard))
}

func TestList(t *testing.T) {
	t.Run("Reload stores items and clears flags", func(t *testing.T) {
		l := newTestList(staticFetcher("a", "b"), "all")
		require.NoError(t, l.Reload())

		snap := l.Snapshot()
		assert.Equal(t, []string{"a", "b"}, snap.Items)
		assert.False(t, snap.Loading)
		assert.NoError(t, snap.Err)
		assert.Equal(t, scope("all"), snap.Filter)
	})

	t.Run("a failed reload keeps the previous items", func(t *testing.T) {
		fail := false
		l := newTestList(func(context.Context, scope) ([]string, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []string{"kept"}, nil
		}, "all")
		require.NoError(t, l.Reload())

		fail = true
		assert.EqualError(t, l.Reload(), "boom")
		snap := l.Snapshot()
		assert.Equal(t, []string{"kept"}, snap.Items)
		assert.EqualError(t, snap.Err, "boom")
	})

	t.Run("a late response for an old filter is discarded", func(t *testing.T) {
		g := newGatedFetcher()
		l := newTestList(g.fetch, "archived")

		oldDone := make(chan error, 1)
		go func() { oldDone <- l.Reload() }()
		require.Eventually(t, func() bool { return l.Snapshot().Generation == 1 }, time.Second, 5*time.Millisecond)

		newDone := make(chan error, 1)
		go func() { newDone <- l.SetFilter("trashed") }()
		require.Eventually(t, func() bool { return l.Snapshot().Generation == 2 }, time.Second, 5*time.Millisecond)

		close(g.gate("trashed"))
		require.NoError(t, <-newDone)

		close(g.gate("archived"))
		assert.ErrorIs(t, <-oldDone, ErrStale)

		assert.Equal(t, []string{"trashed-1", "trashed-2"}, l.Items())
		assert.Equal(t, scope("trashed"), l.Filter())
	})

	t.Run("Close cancels in-flight calls", func(t *testing.T) {
		g := newGatedFetcher()
		l := newTestList(g.fetch, "all")

		done := make(chan error, 1)
		go func() { done <- l.Reload() }()
		require.Eventually(t, func() bool { return l.Snapshot().Loading }, time.Second, 5*time.Millisecond)

		l.Close()
		assert.ErrorIs(t, <-done, ErrClosed)
		assert.ErrorIs(t, l.Reload(), ErrClosed)
		assert.ErrorIs(t, l.Context().Err(), context.Canceled)
		assert.Empty(t, l.Items())
	})

	t.Run("Mutate reloads after success", func(t *testing.T) {
		items := []string{"a"}
		l := newTestList(func(context.Context, scope) ([]string, error) {
			return append([]string(nil), items...), nil
		}, "all")
		require.NoError(t, l.Reload())

		err := l.Mutate(func(context.Context) error {
			items = append(items, "b")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, l.Items())
	})

	t.Run("Mutate failure skips the reload", func(t *testing.T) {
		calls := 0
		l := newTestList(func(context.Context, scope) ([]string, error) {
			calls++
			return []string{"a"}, nil
		}, "all")
		require.NoError(t, l.Reload())

		err := l.Mutate(func(context.Context) error { return errors.New("rejected") })
		assert.EqualError(t, err, "rejected")
		assert.Equal(t, 1, calls)
		assert.EqualError(t, l.Snapshot().Err, "rejected")
		assert.Equal(t, []string{"a"}, l.Items())
	})

	t.Run("OnChange sees loading then loaded", func(t *testing.T) {
		l := newTestList(staticFetcher("x"), "all")
		var states []bool
		l.OnChange(func(s Snapshot[string, scope]) { states = append(states, s.Loading) })

		require.NoError(t, l.Reload())
		assert.Equal(t, []bool{true, false}, states)
	})

	t.Run("Snapshot is a copy", func(t *testing.T) {
		l := newTestList(staticFetcher("x"), "all")
		require.NoError(t, l.Reload())
		snap := l.Snapshot()
		snap.Items[0] = "changed"
		assert.Equal(t, []string{"x"}, l.Items())
	})
}
