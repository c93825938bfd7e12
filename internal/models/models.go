package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// DateLayout is the wire format of calendar dates ("2024-03-09").
const DateLayout = "2006-01-02"

// FormatDate renders t in [DateLayout].
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a [DateLayout] string in the local zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Deleted is the body of bulk delete responses.
type Deleted struct {
	Deleted int `json:"deleted"`
}

// Message is the body of endpoints that only answer with a status line.
type Message struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
