package services

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/hobbyhub/internal/models"
)

// HabitService wraps the /habits group.
type HabitService struct {
	client *Client
	habits *Resource[models.Habit, models.HabitInput]
}

// NewHabitService creates a HabitService on client.
func NewHabitService(client *Client) *HabitService {
	return &HabitService{client: client, habits: NewResource[models.Habit, models.HabitInput](client, "/")}
}

// List fetches every habit.
func (s *HabitService) List(ctx context.Context) ([]models.Habit, error) {
	return s.habits.List(ctx, nil)
}

// Get fetches one habit.
func (s *HabitService) Get(ctx context.Context, id int) (*models.Habit, error) {
	return s.habits.Get(ctx, id)
}

// Create validates and stores a habit.
func (s *HabitService) Create(ctx context.Context, in models.HabitInput) (*models.Habit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.habits.Create(ctx, in)
}

// Update patches the set fields of in.
func (s *HabitService) Update(ctx context.Context, id int, in models.HabitInput) (*models.Habit, error) {
	return s.habits.Patch(ctx, id, in)
}

// Delete removes a habit with its logs.
func (s *HabitService) Delete(ctx context.Context, id int) error {
	return s.habits.Delete(ctx, id)
}

// Logs fetches every log of a habit.
func (s *HabitService) Logs(ctx context.Context, id int) ([]models.HabitLog, error) {
	var out []models.HabitLog
	if err := s.client.Get(ctx, s.habits.Item(id, "logs"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleLog records completion of a habit on date.
func (s *HabitService) ToggleLog(ctx context.Context, id int, date time.Time, completed bool) (*models.HabitLog, error) {
	var out models.HabitLog
	body := models.ToggleLog{Date: models.FormatDate(date), Completed: completed}
	req := Request{Method: http.MethodPost, Path: s.habits.Item(id, "toggle_log"), JSON: body}
	if err := s.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DueToday lists reminder-enabled habits due today and not yet completed.
func (s *HabitService) DueToday(ctx context.Context) ([]models.Habit, error) {
	return s.habits.Collection(ctx, "due_today", nil)
}

// Analytics fetches the four-week summary.
func (s *HabitService) Analytics(ctx context.Context) (*models.Analytics, error) {
	var out models.Analytics
	if err := s.client.Get(ctx, "/analytics/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Gamification fetches points, level and badges.
func (s *HabitService) Gamification(ctx context.Context) (*models.Gamification, error) {
	var out models.Gamification
	if err := s.client.Get(ctx, "/gamification/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Achievements lists every badge with its unlocked flag.
func (s *HabitService) Achievements(ctx context.Context) ([]models.Achievement, error) {
	var out []models.Achievement
	if err := s.client.Get(ctx, "/achievements/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
