// Package view renders tasks as HTML list items and keeps them in sync with
// the task state they were built from. Containers are supplied by the caller.
package view

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"taskboard/internal/task"
)

type Control string

const (
	ToggleControl Control = "complete-btn"
	EditControl   Control = "edit-btn"
	DeleteControl Control = "delete-btn"
)

// Actions receives user intent from rendered controls.
type Actions interface {
	Toggle(ctx context.Context, id task.ID) error
	BeginEdit(id task.ID) error
	Delete(ctx context.Context, id task.ID) error
}

// Item is the rendered form of one task.
type Item struct {
	ID   task.ID
	Node *html.Node

	text   *html.Node
	toggle *html.Node
	icon   *html.Node
	input  *html.Node

	actions Actions
}

type Renderer struct {
	Actions  Actions
	Location *time.Location
}

func (r *Renderer) Render(t task.Task) *Item {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	it := &Item{ID: t.ID, actions: r.Actions}

	it.Node = element(atom.Li, "task-item", html.Attribute{Key: "data-id", Val: string(t.ID)})

	content := element(atom.Div, "task-content")
	it.text = element(atom.Div, "task-text")
	it.text.AppendChild(textNode(t.Text))
	added := element(atom.Div, "task-time")
	added.AppendChild(textNode("Added: " + t.CreatedAt.In(loc).Format("3:04 PM")))
	content.AppendChild(it.text)
	content.AppendChild(added)

	actions := element(atom.Div, "task-actions")
	it.toggle = element(atom.Button, string(ToggleControl))
	it.icon = element(atom.I, "")
	it.toggle.AppendChild(it.icon)
	edit := element(atom.Button, string(EditControl), html.Attribute{Key: "title", Val: "Edit task"})
	edit.AppendChild(element(atom.I, "fas fa-edit"))
	del := element(atom.Button, string(DeleteControl), html.Attribute{Key: "title", Val: "Delete task"})
	del.AppendChild(element(atom.I, "fas fa-trash"))
	actions.AppendChild(it.toggle)
	actions.AppendChild(edit)
	actions.AppendChild(del)

	it.Node.AppendChild(content)
	it.Node.AppendChild(actions)
	it.SetCompleted(t.Completed)
	return it
}

// Press forwards a control activation to the wired Actions.
func (it *Item) Press(ctx context.Context, c Control) error {
	if it.actions == nil {
		return nil
	}
	switch c {
	case ToggleControl:
		return it.actions.Toggle(ctx, it.ID)
	case EditControl:
		return it.actions.BeginEdit(it.ID)
	case DeleteControl:
		return it.actions.Delete(ctx, it.ID)
	}
	return nil
}

// SetCompleted updates the item class and the toggle control.
func (it *Item) SetCompleted(completed bool) {
	class := "task-item"
	icon := "fas fa-check"
	title := "Mark as complete"
	if completed {
		class = "task-item completed"
		icon = "fas fa-undo"
		title = "Mark as pending"
	}
	setAttr(it.Node, "class", class)
	setAttr(it.icon, "class", icon)
	setAttr(it.toggle, "title", title)
}

func (it *Item) Completed() bool {
	return strings.Contains(attr(it.Node, "class"), "completed")
}

// Text returns the label text, or the original text while editing.
func (it *Item) Text() string {
	if it.input != nil {
		return attr(it.input, "data-original")
	}
	return textContent(it.text)
}

func (it *Item) Editing() bool { return it.input != nil }

// BeginEdit swaps the label for a focused text input pre-filled with the
// current text. Calling it twice returns the existing input.
func (it *Item) BeginEdit() *html.Node {
	if it.input != nil {
		return it.input
	}
	current := strings.TrimSpace(textContent(it.text))
	it.input = element(atom.Input, "edit-input",
		html.Attribute{Key: "type", Val: "text"},
		html.Attribute{Key: "value", Val: current},
		html.Attribute{Key: "data-original", Val: current},
		html.Attribute{Key: "autofocus"},
	)
	clearChildren(it.text)
	it.text.AppendChild(it.input)
	return it.input
}

// EndEdit leaves edit mode showing text.
func (it *Item) EndEdit(text string) {
	it.input = nil
	clearChildren(it.text)
	it.text.AppendChild(textNode(text))
}

// SetText replaces the label outside of edit mode.
func (it *Item) SetText(text string) {
	if it.input != nil {
		it.EndEdit(text)
		return
	}
	clearChildren(it.text)
	it.text.AppendChild(textNode(text))
}

// HTML renders the item markup with text escaped.
func (it *Item) HTML() string {
	return renderNode(it.Node)
}

// Attach appends the item to container, moving it out of any previous one.
func Attach(container *html.Node, it *Item) {
	Detach(it)
	container.AppendChild(it.Node)
}

func Detach(it *Item) {
	if it.Node.Parent != nil {
		it.Node.Parent.RemoveChild(it.Node)
	}
}

// IDs lists the data-id of each item in container, in order.
func IDs(container *html.Node) []task.ID {
	var ids []task.ID
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			ids = append(ids, task.ID(attr(c, "data-id")))
		}
	}
	return ids
}

func element(a atom.Atom, class string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	n.Attr = append(n.Attr, attrs...)
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func renderNode(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}
