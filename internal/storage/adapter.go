package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/task"
)

// DefaultKey is the slot the task collection lives under.
const DefaultKey = "tasks"

// timeLayout matches the ISO strings browsers produce, millisecond precision in UTC.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ReadError reports a stored payload that could not be turned back into tasks.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read tasks from slot %q: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

type record struct {
	ID          task.ID `json:"id"`
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt string  `json:"completedAt,omitempty"`
}

// Adapter serializes the whole task collection into one slot.
type Adapter struct {
	slot Slot
	key  string
}

func NewAdapter(slot Slot, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{slot: slot, key: key}
}

func (a *Adapter) Key() string { return a.key }

// Save overwrites the slot with a snapshot of tasks, in the order given.
func (a *Adapter) Save(ctx context.Context, tasks []task.Task) error {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		r := record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: formatTime(t.CreatedAt),
		}
		if t.Completed && t.CompletedAt != nil {
			r.CompletedAt = formatTime(*t.CompletedAt)
		}
		records = append(records, r)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return a.slot.Put(ctx, a.key, data)
}

// Load returns the saved collection. ok is false when the slot is empty or
// its contents are unusable; in the latter case err is a *ReadError.
// Records sharing an id are returned as stored; callers decide how to
// separate them.
func (a *Adapter) Load(ctx context.Context) (tasks []task.Task, ok bool, err error) {
	data, found, err := a.slot.Get(ctx, a.key)
	if err != nil {
		return nil, false, &ReadError{Key: a.key, Err: err}
	}
	if !found || len(data) == 0 {
		return nil, false, nil
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, &ReadError{Key: a.key, Err: err}
	}
	if records == nil {
		return nil, false, &ReadError{Key: a.key, Err: fmt.Errorf("payload is null")}
	}
	tasks = make([]task.Task, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, false, &ReadError{Key: a.key, Err: fmt.Errorf("record %d has no id", i)}
		}
		t, err := task.Create(r.Text, r.ID, parseTime(r.CreatedAt))
		if err != nil {
			return nil, false, &ReadError{Key: a.key, Err: fmt.Errorf("record %s: %w", r.ID, err)}
		}
		if r.Completed {
			t.Completed = true
			done := parseTime(r.CompletedAt)
			if done.IsZero() {
				done = t.CreatedAt
			}
			if !done.IsZero() {
				t.CompletedAt = &done
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, true, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
