package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

// ProfileAPI is the part of the profile group the theme context calls.
type ProfileAPI interface {
	Get(ctx context.Context) (*models.Profile, error)
	Themes(ctx context.Context) ([]models.Theme, error)
	Theme(ctx context.Context, id int) (*models.Theme, error)
	SetTheme(ctx context.Context, id int) (*models.Profile, error)
}

// Context owns the active palette and the list of selectable themes.
type Context struct {
	api    ProfileAPI
	auth   session.Authenticator
	logger *log.Logger

	mu      sync.RWMutex
	current Palette
	themes  []models.Theme
	subs    map[int]func(Palette)
	nextSub int
}

// New creates a Context holding [Default].
func New(api ProfileAPI, auth session.Authenticator, logger *log.Logger) *Context {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Context{
		api:     api,
		auth:    auth,
		logger:  shared.WithLogger(logger, "component", "theme"),
		current: Default(),
		subs:    map[int]func(Palette){},
	}
}

// Current returns the active palette.
func (c *Context) Current() Palette {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Themes returns the last fetched theme list.
func (c *Context) Themes() []models.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Theme(nil), c.themes...)
}

// Subscribe registers fn for palette changes and returns a function that removes it.
func (c *Context) Subscribe(fn func(Palette)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Load replaces the defaults with the profile's current theme and fetches the theme list.
//
// Nothing is fetched without a session. Failures are logged and returned; the palette stays as it was.
func (c *Context) Load(ctx context.Context) error {
	if c.auth == nil || !c.auth.Authenticated() {
		return nil
	}

	profile, err := c.api.Get(ctx)
	if err != nil {
		c.logger.Warn("failed to load profile theme, keeping defaults", "error", err)
		return fmt.Errorf("failed to load profile: %w", err)
	}

	themes, err := c.api.Themes(ctx)
	if err != nil {
		c.logger.Warn("failed to load themes", "error", err)
	} else {
		c.setThemes(themes)
	}

	if profile.CurrentTheme == nil {
		return nil
	}
	palette, err := c.resolve(ctx, *profile.CurrentTheme)
	if err != nil {
		c.logger.Warn("failed to resolve current theme, keeping defaults", "theme", profile.CurrentTheme.ID, "error", err)
		return err
	}
	c.apply(palette)
	return nil
}

// Change selects theme id on the backend and applies it once the backend accepts.
// The theme list is re-fetched afterwards; a failure there does not undo the change.
func (c *Context) Change(ctx context.Context, id int) error {
	profile, err := c.api.SetTheme(ctx, id)
	if err != nil {
		c.logger.Error("failed to change theme", "theme", id, "error", err)
		return fmt.Errorf("failed to change theme: %w", err)
	}

	ref := models.ThemeRef{ID: id}
	if profile != nil && profile.CurrentTheme != nil {
		ref = *profile.CurrentTheme
	}

	palette, err := c.resolve(ctx, ref)
	if err != nil {
		return err
	}
	c.apply(palette)

	if themes, err := c.api.Themes(ctx); err != nil {
		c.logger.Warn("failed to refresh themes", "error", err)
	} else {
		c.setThemes(themes)
	}
	return nil
}

// resolve turns a reference into a palette, using the cached list before asking the backend.
func (c *Context) resolve(ctx context.Context, ref models.ThemeRef) (Palette, error) {
	if ref.Theme != nil {
		return FromTheme(*ref.Theme), nil
	}

	for _, t := range c.Themes() {
		if t.ID == ref.ID {
			return FromTheme(t), nil
		}
	}

	t, err := c.api.Theme(ctx, ref.ID)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to fetch theme %d: %w", ref.ID, err)
	}
	return FromTheme(*t), nil
}

func (c *Context) setThemes(themes []models.Theme) {
	c.mu.Lock()
	c.themes = themes
	c.mu.Unlock()
}

func (c *Context) apply(p Palette) {
	c.mu.Lock()
	c.current = p
	subs := make([]func(Palette), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}
