package models

import "fmt"

// Task is a calendar entry.
type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Priority    string  `json:"priority"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// TaskInput is the writable part of a task.
type TaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Priority    string  `json:"priority,omitempty"`
	Completed   bool    `json:"completed"`
}

// Validate checks the fields a create requires.
func (t TaskInput) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	return nil
}

// Input returns the writable fields of t, for a full update.
func (t Task) Input() TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Priority:    t.Priority,
		Completed:   t.Completed,
	}
}
