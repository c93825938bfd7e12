package models

import "fmt"

// ProjectStatus is a project's lifecycle state.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusOnHold    ProjectStatus = "on_hold"
)

// ParseProjectStatus validates a status name.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(s); st {
	case StatusActive, StatusCompleted, StatusOnHold:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q (want active, completed or on_hold)", s)
}

// Collection groups projects.
type Collection struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	CreatedAt    string `json:"created_at,omitempty"`
	ProjectCount int    `json:"project_count"`
}

// ProjectTag labels projects.
type ProjectTag struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Project is a tracked project. Tags holds tag ids; TagsData the expanded tags.
type Project struct {
	ID              int           `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	URL             *string       `json:"url"`
	Collection      *int          `json:"collection"`
	CollectionName  string        `json:"collection_name,omitempty"`
	CollectionColor string        `json:"collection_color,omitempty"`
	Tags            []int         `json:"tags"`
	TagsData        []ProjectTag  `json:"tags_data,omitempty"`
	Status          ProjectStatus `json:"status"`
	DueDate         *string       `json:"due_date"`
	Progress        int           `json:"progress"`
	IsPinned        bool          `json:"is_pinned"`
	CreatedAt       string        `json:"created_at,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
}

// ProjectInput is the writable part of a project.
type ProjectInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         *string       `json:"url"`
	Collection  *int          `json:"collection"`
	Tags        []int         `json:"tags"`
	Status      ProjectStatus `json:"status,omitempty"`
	DueDate     *string       `json:"due_date"`
	Progress    int           `json:"progress"`
	IsPinned    bool          `json:"is_pinned"`
}

// Validate checks the fields a create requires.
func (p ProjectInput) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("project title is required")
	}
	return ValidateProgress(p.Progress)
}

// ValidateProgress checks that a progress value is a percentage.
func ValidateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress %d out of range 0-100", progress)
	}
	return nil
}

// Input returns the writable fields of p, for a full update.
func (p Project) Input() ProjectInput {
	tags := p.Tags
	if tags == nil {
		tags = []int{}
	}
	return ProjectInput{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Collection:  p.Collection,
		Tags:        tags,
		Status:      p.Status,
		DueDate:     p.DueDate,
		Progress:    p.Progress,
		IsPinned:    p.IsPinned,
	}
}
