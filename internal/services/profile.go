package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/hobbyhub/internal/models"
)

// DefaultActivityLimit is how many activities are fetched when no limit is given.
const DefaultActivityLimit = 10

// ProfileService wraps the /profile group: the extended profile, palettes and the activity log.
type ProfileService struct {
	client *Client
	themes *Resource[models.Theme, models.Theme]
}

// NewProfileService creates a ProfileService on client.
func NewProfileService(client *Client) *ProfileService {
	return &ProfileService{client: client, themes: NewResource[models.Theme, models.Theme](client, "/themes/")}
}

// Get fetches the profile.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := s.client.Get(ctx, "/profile/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update sends the set fields of upd as multipart, with avatar when non-nil.
func (s *ProfileService) Update(ctx context.Context, upd models.ProfileUpdate, avatar *FormFile) (*models.Profile, error) {
	form := &Form{Fields: upd.Fields()}
	if avatar != nil {
		f := *avatar
		f.Field = "avatar"
		form.Files = append(form.Files, f)
	}

	var p models.Profile
	if err := s.client.Upload(ctx, http.MethodPut, "/profile/", form, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Themes lists every palette.
func (s *ProfileService) Themes(ctx context.Context) ([]models.Theme, error) {
	return s.themes.List(ctx, nil)
}

// Theme fetches one palette.
func (s *ProfileService) Theme(ctx context.Context, id int) (*models.Theme, error) {
	return s.themes.Get(ctx, id)
}

// CreateTheme stores a new palette.
func (s *ProfileService) CreateTheme(ctx context.Context, t models.Theme) (*models.Theme, error) {
	return s.themes.Create(ctx, t)
}

// UpdateTheme replaces a palette.
func (s *ProfileService) UpdateTheme(ctx context.Context, id int, t models.Theme) (*models.Theme, error) {
	return s.themes.Update(ctx, id, t)
}

// DeleteTheme removes a palette.
func (s *ProfileService) DeleteTheme(ctx context.Context, id int) error {
	return s.themes.Delete(ctx, id)
}

// SetTheme selects the active palette and returns the updated profile.
func (s *ProfileService) SetTheme(ctx context.Context, id int) (*models.Profile, error) {
	var p models.Profile
	if err := s.client.Post(ctx, "/set-theme/", map[string]int{"theme_id": id}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Activities returns the newest limit audit entries; limit <= 0 means [DefaultActivityLimit].
func (s *ProfileService) Activities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var out []models.Activity
	if err := s.client.Get(ctx, "/activities/", url.Values{"limit": {strconv.Itoa(limit)}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
