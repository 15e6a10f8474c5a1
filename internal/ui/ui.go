package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"taskboard/internal/config"
	"taskboard/internal/notify"
	"taskboard/internal/task"
	"taskboard/internal/tasklist"
	"taskboard/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type pane int

const (
	panePending pane = iota
	paneCompleted
)

type tickMsg time.Time

// addCharLimit caps new task text. Edits are uncapped so stored text longer
// than this survives an unchanged commit.
const addCharLimit = 256

// Answer is the Confirmer the controller is built with. The model sets the
// user's y/n reply on it right before asking the controller to delete.
type Answer struct {
	yes bool
}

func (a *Answer) Confirm(string) bool { return a.yes }

type Model struct {
	ctx    context.Context
	ctl    *tasklist.Controller
	notes  *notify.Recorder
	answer *Answer
	cfg    config.Config
	keys   keyMap
	help   help.Model

	pane    pane
	cursor  [2]int
	mode    mode
	input   textinput.Model
	editID  task.ID
	delID   task.ID
	status  string
	statusN notify.Notification
	hasNote bool
	now     time.Time
	width   int
}

// New builds the model. notes must be the recorder the controller notifies
// and answer the controller's Confirmer.
func New(ctx context.Context, ctl *tasklist.Controller, notes *notify.Recorder, answer *Answer, cfg config.Config, clock task.Clock) Model {
	if clock == nil {
		clock = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = addCharLimit
	ti.Width = 40

	m := Model{
		ctx:    ctx,
		ctl:    ctl,
		notes:  notes,
		answer: answer,
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		input:  ti,
		mode:   modeList,
		now:    clock(),
		status: fmt.Sprintf("Press '%s' to add, %s to complete, '%s' to delete.", cfg.Keys.Add, displayKey(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	m.syncStatus()
	return m
}

func Run(ctx context.Context, ctl *tasklist.Controller, notes *notify.Recorder, answer *Answer, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, ctl, notes, answer, cfg, time.Now), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = msg.Width/2 - 10
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		default:
			return m.updateListMode(msg)
		}
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor[m.pane] = clampCursor(m.cursor[m.pane]+1, len(m.visible()))
	case key.Matches(msg, m.keys.Up):
		m.cursor[m.pane] = clampCursor(m.cursor[m.pane]-1, len(m.visible()))
	case key.Matches(msg, m.keys.Switch):
		m.pane = 1 - m.pane
		m.cursor[m.pane] = clampCursor(m.cursor[m.pane], len(m.visible()))
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.CharLimit = addCharLimit
		m.input.SetValue("")
		m.input.Placeholder = "Add a new task..."
		m.status = "Type a task and press Enter"
		m.hasNote = false
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.ctl.Toggle(m.ctx, t.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
		}
		m.cursor[m.pane] = clampCursor(m.cursor[m.pane], len(m.visible()))
		m.syncStatus()
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			m.status = "No task to edit"
			m.hasNote = false
			return m, nil
		}
		if err := m.ctl.BeginEdit(t.ID); err != nil {
			m.status = fmt.Sprintf("edit failed: %v", err)
			return m, nil
		}
		m.mode = modeEdit
		m.editID = t.ID
		m.input.CharLimit = 0
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.delID = t.ID
		m.status = fmt.Sprintf("%s %q y/n", tasklist.DeletePrompt, t.Text)
		m.hasNote = false
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		m.hasNote = false
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		_, err := m.ctl.Add(m.ctx, m.input.Value())
		m.syncStatus()
		if err != nil {
			// stay in add mode so the user can fix the input
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.pane = panePending
		m.cursor[panePending] = clampCursor(len(m.visible())-1, len(m.visible()))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// updateEditMode commits on Enter and on leaving the field, the way a text
// box commits on blur.
func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		if _, err := m.ctl.CommitEdit(m.ctx, m.editID, m.input.Value()); err != nil {
			m.status = fmt.Sprintf("edit failed: %v", err)
		}
		m.syncStatus()
		m.mode = modeList
		m.editID = ""
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var yes bool
	switch {
	case key.Matches(msg, m.keys.Yes):
		yes = true
	case key.Matches(msg, m.keys.No):
		yes = false
	default:
		return m, nil
	}
	m.answer.yes = yes
	err := m.ctl.Delete(m.ctx, m.delID)
	m.answer.yes = false
	m.mode = modeList
	m.delID = ""
	switch {
	case err != nil:
		m.status = fmt.Sprintf("delete failed: %v", err)
		m.hasNote = false
	case !yes:
		m.status = "Delete cancelled"
		m.hasNote = false
	default:
		m.syncStatus()
	}
	m.cursor[m.pane] = clampCursor(m.cursor[m.pane], len(m.visible()))
	return m, nil
}

// syncStatus shows the newest notification, if one arrived since the last call.
func (m *Model) syncStatus() {
	n, ok := m.notes.Last()
	if !ok {
		return
	}
	m.notes.Reset()
	m.statusN = n
	m.hasNote = true
	m.status = n.Message
}

func (m Model) visible() []task.Task {
	if m.pane == paneCompleted {
		return m.ctl.Completed()
	}
	return m.ctl.Pending()
}

func (m Model) selected() (task.Task, bool) {
	tasks := m.visible()
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	return tasks[clampCursor(m.cursor[m.pane], len(tasks))], true
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(t task.Task) string {
	if t.Completed && t.CompletedAt != nil {
		return "completed " + humanize.Time(*t.CompletedAt)
	}
	if t.Completed {
		return "completed"
	}
	return "pending"
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	clockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activePane    = paneStyle.BorderForeground(lipgloss.Color("63"))
	doneTextStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	severityStyle = map[notify.Severity]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("  ")
	now := m.now.In(m.ctl.Location())
	b.WriteString(clockStyle.Render(view.FormatDate(now) + " · " + view.FormatClock(now)))
	b.WriteString("\n\n")

	pending, completed := m.ctl.Pending(), m.ctl.Completed()
	left := m.renderPane(panePending, fmt.Sprintf("Pending (%d)", len(pending)), pending, "No pending tasks")
	right := m.renderPane(paneCompleted, fmt.Sprintf("Completed (%d)", len(completed)), completed, "No completed tasks")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("Add Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if t, ok := m.selected(); ok && m.mode == modeList {
		b.WriteString(timeStyle.Render(fmt.Sprintf("added %s • %s", humanize.Time(t.CreatedAt), humanDone(t))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderPane(p pane, title string, tasks []task.Task, empty string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString(timeStyle.Render(empty))
	}
	for i, t := range tasks {
		cursor := " "
		if p == m.pane && i == clampCursor(m.cursor[p], len(tasks)) && m.mode != modeAdd {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		text := t.Text
		switch {
		case m.mode == modeEdit && t.ID == m.editID:
			text = m.input.View()
		case t.Completed:
			text = doneTextStyle.Render(text)
		}
		added := timeStyle.Render(t.CreatedAt.In(m.ctl.Location()).Format("3:04 PM"))
		fmt.Fprintf(&b, "%s %s %s  %s", cursor, checkbox, text, added)
		if i < len(tasks)-1 {
			b.WriteString("\n")
		}
	}
	style := paneStyle
	if p == m.pane {
		style = activePane
	}
	if m.width > 0 {
		style = style.Width(m.width/2 - 4)
	}
	return style.Render(b.String())
}

func (m Model) renderStatus() string {
	if !m.hasNote {
		return m.status
	}
	style, ok := severityStyle[m.statusN.Severity]
	if !ok {
		return m.status
	}
	return style.Render(m.statusN.Severity.Tag() + " " + m.status)
}
