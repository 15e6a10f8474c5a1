package task

import (
	"strings"
	"time"
)

// Task is a single to-do item. CompletedAt is set only while Completed is true.
type Task struct {
	ID          ID
	Text        string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Clock returns the current time.
type Clock func() time.Time

// ValidationError reports task text that is empty after trimming.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " cannot be empty"
}

func Create(text string, id ID, now time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, &ValidationError{Field: "task text"}
	}
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: now,
	}, nil
}

// Rename reports whether the text changed.
func Rename(t *Task, newText string) bool {
	newText = strings.TrimSpace(newText)
	if newText == "" || newText == t.Text {
		return false
	}
	t.Text = newText
	return true
}

func SetCompleted(t *Task, completed bool, now time.Time) {
	if completed && !t.Completed {
		stamp := now
		t.CompletedAt = &stamp
	}
	if !completed {
		t.CompletedAt = nil
	}
	t.Completed = completed
}
