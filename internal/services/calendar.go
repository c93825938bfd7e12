package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/hobbyhub/internal/models"
)

// TaskRange names a server-side task query.
type TaskRange string

const (
	RangeAll      TaskRange = "all"
	RangeToday    TaskRange = "today"
	RangeUpcoming TaskRange = "upcoming"
	RangePast     TaskRange = "past"
)

// ParseTaskRange validates a range name; "" means [RangeUpcoming].
func ParseTaskRange(s string) (TaskRange, error) {
	switch r := TaskRange(s); r {
	case "":
		return RangeUpcoming, nil
	case RangeAll, RangeToday, RangeUpcoming, RangePast:
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q (want all, today, upcoming or past)", s)
}

// CalendarService wraps the /calendar group.
type CalendarService struct {
	client *Client
	tasks  *Resource[models.Task, models.TaskInput]
}

// NewCalendarService creates a CalendarService on client.
func NewCalendarService(client *Client) *CalendarService {
	return &CalendarService{client: client, tasks: NewResource[models.Task, models.TaskInput](client, "/tasks/")}
}

// Range fetches the tasks of a named range.
func (s *CalendarService) Range(ctx context.Context, r TaskRange) ([]models.Task, error) {
	return s.tasks.Collection(ctx, string(r), nil)
}

func (s *CalendarService) All(ctx context.Context) ([]models.Task, error) {
	return s.Range(ctx, RangeAll)
}

func (s *CalendarService) Today(ctx context.Context) ([]models.Task, error) {
	return s.Range(ctx, RangeToday)
}

func (s *CalendarService) Upcoming(ctx context.Context) ([]models.Task, error) {
	return s.Range(ctx, RangeUpcoming)
}

func (s *CalendarService) Past(ctx context.Context) ([]models.Task, error) {
	return s.Range(ctx, RangePast)
}

// ByDate fetches the tasks on one day.
func (s *CalendarService) ByDate(ctx context.Context, day time.Time) ([]models.Task, error) {
	return s.tasks.Collection(ctx, "by_date", url.Values{"date": {models.FormatDate(day)}})
}

func (s *CalendarService) Get(ctx context.Context, id int) (*models.Task, error) {
	return s.tasks.Get(ctx, id)
}

// Create validates and stores a task.
func (s *CalendarService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.tasks.Create(ctx, in)
}

func (s *CalendarService) Update(ctx context.Context, id int, in models.TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, id, in)
}

func (s *CalendarService) Delete(ctx context.Context, id int) error {
	return s.tasks.Delete(ctx, id)
}

// ToggleComplete flips the completed flag.
func (s *CalendarService) ToggleComplete(ctx context.Context, id int) (*models.Task, error) {
	return s.tasks.Action(ctx, http.MethodPost, id, "toggle_complete", nil)
}
