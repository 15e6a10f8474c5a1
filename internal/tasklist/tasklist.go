// Package tasklist owns the task collection and applies user actions to it.
//
// Every task is either pending or completed; deletion is terminal. After each
// mutation the controller re-renders the affected item into the matching
// container and saves a snapshot of the whole collection.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"taskboard/internal/notify"
	"taskboard/internal/task"
	"taskboard/internal/view"
)

var ErrNotFound = errors.New("task not found")

const DeletePrompt = "Are you sure you want to delete this task?"

// Store persists full snapshots of the collection.
type Store interface {
	Save(ctx context.Context, tasks []task.Task) error
	Load(ctx context.Context) ([]task.Task, bool, error)
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Env carries everything the controller touches outside its own state.
type Env struct {
	Pending   *html.Node
	Completed *html.Node
	Store     Store
	Confirm   Confirmer
	Notifier  notify.Notifier
	Clock     task.Clock
	IDs       task.IDSource
	Location  *time.Location
	Logger    *slog.Logger
}

type Controller struct {
	env      Env
	tasks    []*task.Task
	items    map[task.ID]*view.Item
	renderer view.Renderer
}

func New(env Env) (*Controller, error) {
	if env.Pending == nil || env.Completed == nil {
		return nil, errors.New("tasklist: both containers are required")
	}
	if env.Store == nil {
		return nil, errors.New("tasklist: store is required")
	}
	if env.Confirm == nil {
		env.Confirm = ConfirmFunc(func(string) bool { return false })
	}
	if env.Notifier == nil {
		env.Notifier = notify.NewLogger(env.Logger)
	}
	if env.Clock == nil {
		env.Clock = time.Now
	}
	if env.IDs == nil {
		env.IDs = task.UUIDs{}
	}
	if env.Logger == nil {
		env.Logger = slog.Default()
	}
	if env.Location == nil {
		env.Location = time.Local
	}
	c := &Controller{
		env:   env,
		items: make(map[task.ID]*view.Item),
	}
	c.renderer = view.Renderer{Actions: c, Location: env.Location}
	return c, nil
}

// Load replaces the in-memory collection with the saved one. When nothing
// usable is saved it seeds example tasks and saves them right away.
func (c *Controller) Load(ctx context.Context) error {
	c.reset()

	saved, ok, err := c.env.Store.Load(ctx)
	if err != nil {
		c.env.Logger.Warn("saved tasks unreadable, starting fresh", "error", err)
	}
	if !ok {
		return c.seed(ctx)
	}

	now := c.env.Clock()
	repaired := false
	seen := make(map[task.ID]bool, len(saved))
	for i := range saved {
		t := saved[i]
		if seen[t.ID] {
			// ids minted from the same millisecond can collide
			old := t.ID
			t.ID = c.freshID(seen)
			c.env.Logger.Warn("duplicate task id reassigned", "old", old, "new", t.ID)
			repaired = true
		}
		seen[t.ID] = true
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
			repaired = true
		}
		if t.Completed && (t.CompletedAt == nil || t.CompletedAt.IsZero()) {
			stamp := t.CreatedAt
			t.CompletedAt = &stamp
			repaired = true
		}
		c.insert(&t)
	}
	c.env.Logger.Debug("tasks loaded", "count", len(saved))
	if repaired {
		return c.persist(ctx)
	}
	return nil
}

func (c *Controller) freshID(taken map[task.ID]bool) task.ID {
	for {
		if id := c.env.IDs.NewID(); !taken[id] {
			return id
		}
	}
}

func (c *Controller) seed(ctx context.Context) error {
	now := c.env.Clock()
	samples := []struct {
		text      string
		completed bool
	}{
		{"Create a new task", false},
		{"Mark a task as complete", true},
		{"Edit or delete a task", false},
	}
	for _, s := range samples {
		t, err := task.Create(s.text, c.env.IDs.NewID(), now)
		if err != nil {
			return err
		}
		task.SetCompleted(&t, s.completed, now)
		c.insert(&t)
	}
	c.env.Logger.Debug("seeded example tasks", "count", len(samples))
	return c.persist(ctx)
}

func (c *Controller) Add(ctx context.Context, text string) (task.Task, error) {
	t, err := task.Create(text, c.env.IDs.NewID(), c.env.Clock())
	if err != nil {
		c.env.Notifier.Notify("Please enter a task", notify.Warning)
		return task.Task{}, err
	}
	c.insert(&t)
	if err := c.persist(ctx); err != nil {
		return t, err
	}
	c.env.Notifier.Notify("Task added successfully!", notify.Success)
	return t, nil
}

func (c *Controller) Toggle(ctx context.Context, id task.ID) error {
	i, t := c.find(id)
	if t == nil {
		return fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	task.SetCompleted(t, !t.Completed, c.env.Clock())

	// the task joins the end of its new partition
	c.tasks = append(append(c.tasks[:i:i], c.tasks[i+1:]...), t)
	it := c.items[id]
	it.SetCompleted(t.Completed)
	view.Attach(c.container(t), it)

	if err := c.persist(ctx); err != nil {
		return err
	}
	if t.Completed {
		c.env.Notifier.Notify("Task completed!", notify.Success)
	} else {
		c.env.Notifier.Notify("Task marked as pending", notify.Info)
	}
	return nil
}

// BeginEdit puts the task's view into edit mode.
func (c *Controller) BeginEdit(id task.ID) error {
	it, ok := c.items[id]
	if !ok {
		return fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	it.BeginEdit()
	return nil
}

// CommitEdit applies newText and leaves edit mode. It reports whether the
// text changed; unchanged or empty input restores the previous label.
func (c *Controller) CommitEdit(ctx context.Context, id task.ID, newText string) (bool, error) {
	_, t := c.find(id)
	if t == nil {
		return false, fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	it := c.items[id]
	changed := task.Rename(t, newText)
	it.SetText(t.Text)
	if !changed {
		if strings.TrimSpace(newText) == "" {
			c.env.Notifier.Notify("Task text cannot be empty", notify.Warning)
		}
		return false, nil
	}
	if err := c.persist(ctx); err != nil {
		return true, err
	}
	c.env.Notifier.Notify("Task updated!", notify.Success)
	return true, nil
}

func (c *Controller) Edit(ctx context.Context, id task.ID, newText string) (bool, error) {
	if err := c.BeginEdit(id); err != nil {
		return false, err
	}
	return c.CommitEdit(ctx, id, newText)
}

// Delete removes the task after the user confirms. A declined prompt changes nothing.
func (c *Controller) Delete(ctx context.Context, id task.ID) error {
	i, t := c.find(id)
	if t == nil {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if !c.env.Confirm.Confirm(DeletePrompt) {
		return nil
	}
	view.Detach(c.items[id])
	delete(c.items, id)
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)

	if err := c.persist(ctx); err != nil {
		return err
	}
	c.env.Notifier.Notify("Task deleted", notify.Info)
	return nil
}

// Tasks returns a copy of the collection, pending tasks first.
func (c *Controller) Tasks() []task.Task {
	return append(c.Pending(), c.Completed()...)
}

func (c *Controller) Pending() []task.Task { return c.partition(false) }

func (c *Controller) Completed() []task.Task { return c.partition(true) }

func (c *Controller) Get(id task.ID) (task.Task, bool) {
	_, t := c.find(id)
	if t == nil {
		return task.Task{}, false
	}
	return *t, true
}

// Item returns the rendered view of a task.
func (c *Controller) Item(id task.ID) (*view.Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Location is the time zone task times are displayed in.
func (c *Controller) Location() *time.Location { return c.env.Location }

func (c *Controller) Counts() (pending, completed int) {
	for _, t := range c.tasks {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

func (c *Controller) partition(completed bool) []task.Task {
	out := make([]task.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if t.Completed == completed {
			out = append(out, *t)
		}
	}
	return out
}

func (c *Controller) insert(t *task.Task) {
	c.tasks = append(c.tasks, t)
	it := c.renderer.Render(*t)
	c.items[t.ID] = it
	view.Attach(c.container(t), it)
}

func (c *Controller) reset() {
	for _, it := range c.items {
		view.Detach(it)
	}
	c.items = make(map[task.ID]*view.Item)
	c.tasks = nil
}

func (c *Controller) find(id task.ID) (int, *task.Task) {
	for i, t := range c.tasks {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (c *Controller) container(t *task.Task) *html.Node {
	if t.Completed {
		return c.env.Completed
	}
	return c.env.Pending
}

func (c *Controller) persist(ctx context.Context) error {
	if err := c.env.Store.Save(ctx, c.Tasks()); err != nil {
		c.env.Logger.Error("save tasks", "error", err)
		c.env.Notifier.Notify("Could not save tasks", notify.Warning)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
