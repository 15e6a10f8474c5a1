package view

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page holds the two list containers tasks are rendered into.
type Page struct {
	Pending   *html.Node
	Completed *html.Node
}

func NewPage() Page {
	return Page{
		Pending:   element(atom.Ul, "task-list", html.Attribute{Key: "id", Val: "pendingList"}),
		Completed: element(atom.Ul, "task-list", html.Attribute{Key: "id", Val: "completedList"}),
	}
}

func FormatDate(t time.Time) string { return t.Format("Monday, January 2, 2006") }

func FormatClock(t time.Time) string { return t.Format("3:04:05 PM") }

// WriteDocument writes a standalone HTML page containing both lists.
func WriteDocument(w io.Writer, p Page, now time.Time) error {
	if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Tasks</title></head>
<body>
<header><div id="date">%s</div><div id="time">%s</div></header>
<section class="pending"><h2>Pending (%d)</h2>
`, html.EscapeString(FormatDate(now)), html.EscapeString(FormatClock(now)), len(IDs(p.Pending))); err != nil {
		return err
	}
	if err := html.Render(w, p.Pending); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n</section>\n<section class=\"completed\"><h2>Completed (%d)</h2>\n", len(IDs(p.Completed))); err != nil {
		return err
	}
	if err := html.Render(w, p.Completed); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n</section>\n</body>\n</html>\n")
	return err
}
