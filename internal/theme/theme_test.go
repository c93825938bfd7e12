package theme

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFlag bool

func (a authFlag) Authenticated() bool { return bool(a) }

type fakeProfiles struct {
	profile    *models.Profile
	profileErr error
	themes     []models.Theme
	themesErr  error
	setErr     error
	setRef     *models.ThemeRef

	gets, themeCalls, listCalls int
}

func (f *fakeProfiles) Get(context.Context) (*models.Profile, error) {
	f.gets++
	return f.profile, f.profileErr
}

func (f *fakeProfiles) Themes(context.Context) ([]models.Theme, error) {
	f.listCalls++
	return f.themes, f.themesErr
}

func (f *fakeProfiles) Theme(_ context.Context, id int) (*models.Theme, error) {
	f.themeCalls++
	for _, t := range f.themes {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProfiles) SetTheme(_ context.Context, id int) (*models.Profile, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	ref := models.ThemeRef{ID: id}
	if f.setRef != nil {
		ref = *f.setRef
	}
	return &models.Profile{ID: 1, CurrentTheme: &ref}, nil
}

var (
	dusk  = models.Theme{ID: 2, Name: "Dusk", PrimaryColor: "#111111", SecondaryColor: "#222222", BackgroundColor: "#333333", TextColor: "#444444"}
	ocean = models.Theme{ID: 3, Name: "Ocean", PrimaryColor: "#0000ff", SecondaryColor: "#00ffff", BackgroundColor: "#ffffff", TextColor: "#000000", SidebarColor: "#000080"}
)

func newTestContext(api ProfileAPI, authed bool) *Context {
	return New(api, authFlag(authed), shared.NewLogger(io.Discard))
}

func TestPalette(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := Default()
		assert.Equal(t, "#6366f1", p.Primary)
		assert.Equal(t, "#8b5cf6", p.Secondary)
		assert.Equal(t, "#f9fafb", p.Background)
		assert.Equal(t, "#111827", p.Text)
		assert.Equal(t, "#1f2937", p.Sidebar)
	})

	t.Run("FromTheme keeps defaults for empty fields", func(t *testing.T) {
		p := FromTheme(dusk)
		assert.Equal(t, 2, p.ID)
		assert.Equal(t, "#111111", p.Primary)
		assert.Equal(t, "#1f2937", p.Sidebar)
	})

	t.Run("Vars", func(t *testing.T) {
		vars := FromTheme(ocean).Vars()
		assert.Equal(t, map[string]string{
			"--color-primary":    "#0000ff",
			"--color-secondary":  "#00ffff",
			"--color-background": "#ffffff",
			"--color-text":       "#000000",
			"--color-sidebar":    "#000080",
		}, vars)
	})

	t.Run("Styles render text", func(t *testing.T) {
		s := Default().Styles()
		assert.Contains(t, s.Title.Render("Habits"), "Habits")
		assert.Contains(t, s.Selected.Render("Notes"), "Notes")
	})
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	t.Run("starts with defaults", func(t *testing.T) {
		c := newTestContext(&fakeProfiles{}, false)
		assert.Equal(t, Default(), c.Current())
		assert.Empty(t, c.Themes())
	})

	t.Run("Load does nothing without a session", func(t *testing.T) {
		api := &fakeProfiles{}
		c := newTestContext(api, false)
		require.NoError(t, c.Load(ctx))
		assert.Zero(t, api.gets)
		assert.Equal(t, Default(), c.Current())
	})

	t.Run("Load applies a nested current theme", func(t *testing.T) {
		api := &fakeProfiles{
			profile: &models.Profile{CurrentTheme: &models.ThemeRef{ID: 2, Theme: &dusk}},
			themes:  []models.Theme{dusk, ocean},
		}
		c := newTestContext(api, true)
		require.NoError(t, c.Load(ctx))
		assert.Equal(t, "Dusk", c.Current().Name)
		assert.Len(t, c.Themes(), 2)
	})

	t.Run("Load resolves a bare id from the list", func(t *testing.T) {
		api := &fakeProfiles{
			profile: &models.Profile{CurrentTheme: &models.ThemeRef{ID: 3}},
			themes:  []models.Theme{dusk, ocean},
		}
		c := newTestContext(api, true)
		require.NoError(t, c.Load(ctx))
		assert.Equal(t, "#0000ff", c.Current().Primary)
		assert.Zero(t, api.themeCalls)
	})

	t.Run("Load keeps defaults when the profile has no theme", func(t *testing.T) {
		c := newTestContext(&fakeProfiles{profile: &models.Profile{}}, true)
		require.NoError(t, c.Load(ctx))
		assert.Equal(t, Default(), c.Current())
	})

	t.Run("Load failure keeps defaults", func(t *testing.T) {
		c := newTestContext(&fakeProfiles{profileErr: errors.New("offline")}, true)
		assert.Error(t, c.Load(ctx))
		assert.Equal(t, Default(), c.Current())
	})

	t.Run("Change applies after the backend accepts", func(t *testing.T) {
		api := &fakeProfiles{themes: []models.Theme{dusk, ocean}}
		c := newTestContext(api, true)

		var seen []Palette
		c.Subscribe(func(p Palette) { seen = append(seen, p) })

		require.NoError(t, c.Change(ctx, 3))
		assert.Equal(t, "Ocean", c.Current().Name)
		require.Len(t, seen, 1)
		assert.Equal(t, "#0000ff", seen[0].Primary)
		assert.Equal(t, 1, api.listCalls)
	})

	t.Run("Change uses the returned nested theme", func(t *testing.T) {
		api := &fakeProfiles{setRef: &models.ThemeRef{ID: 2, Theme: &dusk}}
		c := newTestContext(api, true)
		require.NoError(t, c.Change(ctx, 2))
		assert.Equal(t, "#111111", c.Current().Primary)
		assert.Zero(t, api.themeCalls)
	})

	t.Run("failed Change leaves the palette alone", func(t *testing.T) {
		api := &fakeProfiles{setErr: errors.New("bad theme")}
		c := newTestContext(api, true)

		notified := false
		c.Subscribe(func(Palette) { notified = true })

		assert.Error(t, c.Change(ctx, 9))
		assert.Equal(t, Default(), c.Current())
		assert.False(t, notified)
		assert.Zero(t, api.listCalls)
	})

	t.Run("unsubscribe stops notifications", func(t *testing.T) {
		c := newTestContext(&fakeProfiles{themes: []models.Theme{dusk}}, true)
		calls := 0
		stop := c.Subscribe(func(Palette) { calls++ })
		require.NoError(t, c.Change(ctx, 2))
		stop()
		require.NoError(t, c.Change(ctx, 2))
		assert.Equal(t, 1, calls)
	})
}
