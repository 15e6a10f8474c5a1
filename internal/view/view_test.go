package view

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/task"
)

type pressLog struct {
	calls []string
}

func (p *pressLog) Toggle(_ context.Context, id task.ID) error {
	p.calls = append(p.calls, "toggle:"+string(id))
	return nil
}

func (p *pressLog) BeginEdit(id task.ID) error {
	p.calls = append(p.calls, "edit:"+string(id))
	return nil
}

func (p *pressLog) Delete(_ context.Context, id task.ID) error {
	p.calls = append(p.calls, "delete:"+string(id))
	return nil
}

func newItem(t *testing.T, tk task.Task) (*Item, *pressLog) {
	t.Helper()
	log := &pressLog{}
	r := &Renderer{Actions: log, Location: time.UTC}
	return r.Render(tk), log
}

var created = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func TestRenderEscapesText(t *testing.T) {
	it, _ := newItem(t, task.Task{ID: "7", Text: `<script>alert("x")</script> & it's`, CreatedAt: created})
	out := it.HTML()

	assert.Contains(t, out, `data-id="7"`)
	assert.Contains(t, out, `&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; it&#39;s`)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Added: 2:05 PM")
	assert.Equal(t, `<script>alert("x")</script> & it's`, it.Text())
}

func TestRenderPendingAndCompleted(t *testing.T) {
	it, _ := newItem(t, task.Task{ID: "1", Text: "a", CreatedAt: created})
	out := it.HTML()
	assert.Contains(t, out, `class="task-item"`)
	assert.Contains(t, out, `title="Mark as complete"`)
	assert.Contains(t, out, `fa-check`)
	assert.False(t, it.Completed())

	it.SetCompleted(true)
	out = it.HTML()
	assert.Contains(t, out, `class="task-item completed"`)
	assert.Contains(t, out, `title="Mark as pending"`)
	assert.Contains(t, out, `fa-undo`)
	assert.True(t, it.Completed())
}

func TestPressDispatchesWithTaskID(t *testing.T) {
	it, log := newItem(t, task.Task{ID: "42", Text: "a", CreatedAt: created})
	ctx := context.Background()
	require.NoError(t, it.Press(ctx, ToggleControl))
	require.NoError(t, it.Press(ctx, EditControl))
	require.NoError(t, it.Press(ctx, DeleteControl))
	require.NoError(t, it.Press(ctx, Control("unknown")))
	assert.Equal(t, []string{"toggle:42", "edit:42", "delete:42"}, log.calls)
}

func TestEditMode(t *testing.T) {
	it, _ := newItem(t, task.Task{ID: "1", Text: "Buy milk", CreatedAt: created})

	input := it.BeginEdit()
	require.True(t, it.Editing())
	assert.Same(t, input, it.BeginEdit())
	assert.Equal(t, "Buy milk", attr(input, "value"))
	assert.Equal(t, "Buy milk", it.Text())
	out := it.HTML()
	assert.Contains(t, out, `class="edit-input"`)
	assert.Contains(t, out, `autofocus`)

	it.EndEdit("Buy oat milk")
	assert.False(t, it.Editing())
	assert.Equal(t, "Buy oat milk", it.Text())
	assert.NotContains(t, it.HTML(), "edit-input")

	it.BeginEdit()
	it.SetText("again")
	assert.False(t, it.Editing())
	assert.Equal(t, "again", it.Text())
}

func TestAttachMovesBetweenContainers(t *testing.T) {
	p := NewPage()
	a, _ := newItem(t, task.Task{ID: "a", Text: "a", CreatedAt: created})
	b, _ := newItem(t, task.Task{ID: "b", Text: "b", CreatedAt: created})

	Attach(p.Pending, a)
	Attach(p.Pending, b)
	assert.Equal(t, []task.ID{"a", "b"}, IDs(p.Pending))

	Attach(p.Completed, a)
	assert.Equal(t, []task.ID{"b"}, IDs(p.Pending))
	assert.Equal(t, []task.ID{"a"}, IDs(p.Completed))

	Detach(a)
	Detach(a)
	assert.Empty(t, IDs(p.Completed))
}

func TestWriteDocument(t *testing.T) {
	p := NewPage()
	a, _ := newItem(t, task.Task{ID: "a", Text: "x < y", CreatedAt: created})
	Attach(p.Pending, a)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, p, created))
	out := buf.String()
	assert.Contains(t, out, "Saturday, March 9, 2024")
	assert.Contains(t, out, "2:05:00 PM")
	assert.Contains(t, out, `<ul class="task-list" id="pendingList">`)
	assert.Contains(t, out, "Pending (1)")
	assert.Contains(t, out, "Completed (0)")
	assert.Contains(t, out, "x &lt; y")
}
