package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/dotask/internal/intake"
	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/parser"
	"github.com/balkashynov/dotask/internal/recurrence"
	"github.com/balkashynov/dotask/internal/store"
	"github.com/balkashynov/dotask/internal/views"
)

// activityLimit caps the activity feed shown in the UI
const activityLimit = 50

// Store is the part of the task store the UI needs
type Store interface {
	Dispatch(cmd store.Command) store.Result
	Tasks() []models.Task
	Lists() []models.TaskList
	Labels() []models.Label
	ListName(id string) string
	LabelName(id string) string
	Reload() error
}

// Scheduler fires due reminders
type Scheduler interface {
	Tick(now time.Time) []store.FiredReminder
	Interval() time.Duration
}

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusAdd
)

type intakeDoneMsg struct {
	text  string
	draft intake.Draft
}

type reminderTickMsg time.Time

// Model is the interactive task list
type Model struct {
	width  int
	height int

	store     Store
	parser    intake.Parser
	scheduler Scheduler
	now       func() time.Time
	logger    *log.Logger

	// View state
	view     views.View
	prevView views.View
	sort     views.SortOption
	tasks    []models.Task
	activity []views.ActivityEntry

	selectedTask int // index in tasks slice
	currentPage  int
	tasksPerPage int

	focus   Focus
	search  textinput.Model
	add     textinput.Model
	spinner spinner.Model

	// pending is set while an intake request is in flight
	pending bool
	status  string
}

// Options configures a Model
type Options struct {
	Store     Store
	Parser    intake.Parser
	Scheduler Scheduler
	View      views.View
	Sort      views.SortOption
	Now       func() time.Time
	Logger    *log.Logger
}

// NewModel creates the task list model and loads the initial view
func NewModel(opts Options) Model {
	search := newInput("Search title or description...", 100)
	add := newInput("Describe a task, e.g. \"call mom tomorrow at 6pm\"", 300)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := Model{
		store:        opts.Store,
		parser:       opts.Parser,
		scheduler:    opts.Scheduler,
		now:          opts.Now,
		logger:       opts.Logger,
		view:         opts.View,
		sort:         opts.Sort,
		focus:        FocusTable,
		search:       search,
		add:          add,
		spinner:      s,
		tasksPerPage: 10,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard, "", 0)
	}
	if m.view.Kind == "" {
		m.view = views.View{Kind: views.KindInbox}
	}
	if m.sort == "" {
		m.sort = views.SortSmart
	}
	return m.refresh()
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 60
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return in
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.scheduler == nil {
		return nil
	}
	// Catch reminders that came due while the app was closed
	return func() tea.Msg { return reminderTickMsg(m.now()) }
}

func (m Model) scheduleReminderTick() tea.Cmd {
	return tea.Tick(m.scheduler.Interval(), func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Height - header(2) - pagination(1) - help/status(2) - borders(4) - margins(4)
		availableHeight := m.height - 13
		if availableHeight < 3 {
			availableHeight = 3
		}
		m.tasksPerPage = availableHeight
		m.search.Width = m.width - 12
		m.add.Width = m.width - 12
		return m.clampSelection(), nil

	case reminderTickMsg:
		if m.scheduler == nil {
			return m, nil
		}
		if fired := m.scheduler.Tick(time.Time(msg)); len(fired) > 0 {
			m.status = fmt.Sprintf("🔔 %s", fired[0].TaskTitle)
			if len(fired) > 1 {
				m.status += fmt.Sprintf(" (+%d more)", len(fired)-1)
			}
		}
		return m.refresh(), m.scheduleReminderTick()

	case intakeDoneMsg:
		m.pending = false
		return m.addDraft(msg.text, msg.draft), nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.pending {
			return m, nil
		}
		switch m.focus {
		case FocusSearch:
			return m.handleSearchKeys(msg)
		case FocusAdd:
			return m.handleAddKeys(msg)
		}
		return m.handleTableKeys(msg)
	}

	return m, nil
}

// handleTableKeys handles keys while the task table has focus
func (m Model) handleTableKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		// Leave search view first, otherwise quit
		if m.view.Kind == views.KindSearch {
			m.view = m.prevView
			m.search.SetValue("")
			return m.refresh(), nil
		}
		return m, tea.Quit

	case "up", "k":
		return m.moveSelectionUp(), nil

	case "down", "j":
		return m.moveSelectionDown(), nil

	case "left", "h":
		return m.prevPage(), nil

	case "right", "l":
		return m.nextPage(), nil

	case "tab":
		return m.cycleView(1), nil

	case "shift+tab":
		return m.cycleView(-1), nil

	case "s":
		m.sort = nextSort(m.sort)
		m.status = "Sort: " + string(m.sort)
		return m.refresh(), nil

	case "/":
		if m.view.Kind != views.KindSearch {
			m.prevView = m.view
		}
		m.view = views.View{Kind: views.KindSearch}
		m.focus = FocusSearch
		m.status = ""
		return m.refresh(), m.search.Focus()

	case "a":
		m.focus = FocusAdd
		m.status = ""
		m.add.SetValue("")
		return m, m.add.Focus()

	case " ", "x", "enter":
		return m.toggleSelected(), nil

	case "d":
		return m.deleteSelected(), nil

	case "r":
		return m.refresh(), nil
	}
	return m, nil
}

// handleSearchKeys handles key input when in search mode
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusTable
		m.search.Blur()
		m.search.SetValue("")
		m.view = m.prevView
		return m.refresh(), nil

	case "enter":
		// Keep the results and return to the table
		m.focus = FocusTable
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selectedTask = 0
	m.currentPage = 0
	return m.refresh(), cmd
}

// handleAddKeys handles key input while typing a new task
func (m Model) handleAddKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusTable
		m.add.Blur()
		m.add.SetValue("")
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.add.Value())
		if text == "" {
			return m, nil
		}
		m.focus = FocusTable
		m.add.Blur()
		m.add.SetValue("")
		if m.parser == nil {
			return m.addDraft(text, intake.Fallback(text)), nil
		}
		m.pending = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.submitIntake(text))
	}

	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	return m, cmd
}

// submitIntake parses text in the background
func (m Model) submitIntake(text string) tea.Cmd {
	p, now, logger := m.parser, m.now(), m.logger
	return func() tea.Msg {
		draft := intake.Resolve(context.Background(), p, text, now, logger)
		return intakeDoneMsg{text: text, draft: draft}
	}
}

// addDraft stores the draft in the list of the current view
func (m Model) addDraft(text string, draft intake.Draft) Model {
	m.reload()
	res := m.store.Dispatch(store.AddTask{Task: draft.ToTask(views.ListIDFor(m.view))})
	if res.Task == nil {
		return m
	}
	m.status = fmt.Sprintf("Added \"%s\"", res.Task.Title)
	if m.parser != nil && draft == intake.Fallback(text) {
		m.status = "Couldn't understand that, task added as plain text"
	}
	return m.refresh()
}

func (m Model) toggleSelected() Model {
	task, ok := m.selected()
	if !ok {
		return m
	}
	m.reload()
	res := m.store.Dispatch(store.ToggleComplete{ID: task.ID})
	switch {
	case res.Spawned != nil:
		m.status = fmt.Sprintf("Completed. Next: %s", parser.FormatDueDate(res.Spawned.DueDate, m.now()))
	case res.Task != nil && res.Task.Completed:
		m.status = "Completed \"" + res.Task.Title + "\""
	case res.Task != nil:
		m.status = "Reopened \"" + res.Task.Title + "\""
	}
	return m.refresh()
}

func (m Model) deleteSelected() Model {
	task, ok := m.selected()
	if !ok {
		return m
	}
	m.reload()
	if res := m.store.Dispatch(store.DeleteTask{ID: task.ID}); res.Changed {
		m.status = "Deleted \"" + task.Title + "\""
	}
	return m.refresh()
}

func (m Model) selected() (models.Task, bool) {
	if m.selectedTask < 0 || m.selectedTask >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.selectedTask], true
}

// navViews returns the views reachable with tab: builtins, then lists, then labels
func (m Model) navViews() []views.View {
	var out []views.View
	for _, k := range views.Builtin {
		if k != views.KindSearch {
			out = append(out, views.View{Kind: k})
		}
	}
	for _, l := range m.store.Lists() {
		if !models.IsInbox(l.ID) {
			out = append(out, views.View{Kind: views.KindList, ID: l.ID})
		}
	}
	for _, l := range m.store.Labels() {
		out = append(out, views.View{Kind: views.KindLabel, ID: l.ID})
	}
	return out
}

func (m Model) cycleView(step int) Model {
	nav := m.navViews()
	current := m.view
	if current.Kind == views.KindSearch {
		current = m.prevView
		m.search.SetValue("")
	}

	i := 0
	for j, v := range nav {
		if v == current {
			i = j
			break
		}
	}
	m.view = nav[(i+step+len(nav))%len(nav)]
	m.selectedTask = 0
	m.currentPage = 0
	m.status = ""
	return m.refresh()
}

func nextSort(s views.SortOption) views.SortOption {
	for i, o := range views.SortOptions {
		if o == s {
			return views.SortOptions[(i+1)%len(views.SortOptions)]
		}
	}
	return views.SortSmart
}

// refresh recomputes the visible tasks from the store
// reload picks up changes other dotask processes saved
func (m Model) reload() {
	if err := m.store.Reload(); err != nil {
		m.logger.Printf("reload failed: %v", err)
	}
}

func (m Model) refresh() Model {
	m.reload()
	all := m.store.Tasks()
	tasks, ok := views.Select(all, m.view, m.search.Value(), m.sort, m.now())
	if !ok {
		m.tasks = nil
		m.activity = views.Activity(all, activityLimit)
		return m.clampSelection()
	}
	m.tasks = tasks
	m.activity = nil
	return m.clampSelection()
}

func (m Model) clampSelection() Model {
	if m.selectedTask >= len(m.tasks) {
		m.selectedTask = len(m.tasks) - 1
	}
	if m.selectedTask < 0 {
		m.selectedTask = 0
	}
	if m.tasksPerPage > 0 {
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
	return m
}

// moveSelectionUp moves the selection up
func (m Model) moveSelectionUp() Model {
	if m.selectedTask > 0 {
		m.selectedTask--

		// Auto-pagination: if we scrolled above current page, go to previous page
		currentPageStart := m.currentPage * m.tasksPerPage
		if m.selectedTask < currentPageStart && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down
func (m Model) moveSelectionDown() Model {
	if m.selectedTask < len(m.tasks)-1 {
		m.selectedTask++

		// Auto-pagination: if we scrolled below current page, go to next page
		currentPageEnd := min((m.currentPage+1)*m.tasksPerPage-1, len(m.tasks)-1)
		if m.selectedTask > currentPageEnd && m.currentPage < m.pageCount()-1 {
			m.currentPage++
		}
	}
	return m
}

// prevPage goes to previous page
func (m Model) prevPage() Model {
	if m.currentPage > 0 {
		m.currentPage--
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// nextPage goes to next page
func (m Model) nextPage() Model {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

func (m Model) pageCount() int {
	return (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100 // 60% for table
	rightWidth := m.width - leftWidth - 1

	var content string
	if m.view.Kind == views.KindActivity {
		content = m.renderActivity(m.width - 2)
	} else {
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderTaskTable(leftWidth),
			" ",
			m.renderTaskDetails(rightWidth),
		)
	}

	var bottom string
	switch {
	case m.pending:
		bottom = m.renderBar(m.spinner.View() + " Understanding your task...")
	case m.focus == FocusSearch:
		bottom = m.renderBar("Search: " + m.search.View())
	case m.focus == FocusAdd:
		bottom = m.renderBar("New task: " + m.add.View())
	default:
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderStatus(),
		bottom,
	)
}

func (m Model) renderHeader() string {
	title := views.Title(m.view, m.store.Lists(), m.store.Labels())
	if m.view.Kind == views.KindSearch && m.search.Value() != "" {
		title += ": " + m.search.Value()
	}
	left := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain)).
		Render("dotask · " + title)
	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render("sort: " + string(m.sort))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderTaskTable renders the left panel with the task table
func (m Model) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render(fmt.Sprintf("📋 Tasks (%d)", len(m.tasks))))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks here. Press a to add one."))
		return panelStyle(width).Render(b.String())
	}

	availableWidth := width - 4 // Account for borders
	checkWidth := 3
	prioWidth := 4
	dueWidth := 10
	titleWidth := availableWidth - checkWidth - prioWidth - dueWidth - 6
	if titleWidth < 20 {
		titleWidth = 20
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	headers := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		checkWidth, "",
		titleWidth, "TITLE",
		prioWidth, "PRIO",
		dueWidth, "DUE")
	b.WriteString(columnHeaderStyle.Render(headers))
	b.WriteString("\n\n")

	now := m.now()
	startIndex := m.currentPage * m.tasksPerPage
	endIndex := min(startIndex+m.tasksPerPage, len(m.tasks))

	for i := startIndex; i < endIndex; i++ {
		task := m.tasks[i]

		check := "○"
		titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		if task.Completed {
			check = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓")
			titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Strikethrough(true)
		}

		title := truncate(task.Title, titleWidth)
		if task.Recurrence.IsSet() {
			title = truncate("↻ "+task.Title, titleWidth)
		}

		rowContent := fmt.Sprintf("%s %s %s %s",
			padRight(check, checkWidth),
			padRight(titleStyle.Render(title), titleWidth),
			padRight(priorityBadge(task.Priority), prioWidth),
			padRight(dueBadge(task.DueDate, now), dueWidth))

		if i == m.selectedTask {
			selectedBorder := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selectedBorder.Render(rowContent))
		} else {
			b.WriteString(" " + rowContent)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		pageInfo := fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, m.pageCount(), len(m.tasks))
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(pageInfo))
	}

	return panelStyle(width).Render(b.String())
}

// renderTaskDetails renders the right panel with task details
func (m Model) renderTaskDetails(width int) string {
	var b strings.Builder

	task, ok := m.selected()
	if !ok {
		logoStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		b.WriteString(logoStyle.Render("dotask"))

		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			MarginTop(2)
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render("Select a task to view details"))
		return panelStyle(width).Render(b.String())
	}

	now := m.now()
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width - 2)
	b.WriteString(titleStyle.Render(task.Title))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(name + ": " + value + "\n")
	}

	if task.Completed {
		field("Status", lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true).Render("done"))
	} else {
		field("Status", muted.Render("todo"))
	}
	field("List", accent.Render(m.store.ListName(task.ListID)))
	if task.Priority != models.PriorityNone {
		field("Priority", priorityBadge(task.Priority))
	}
	if len(task.LabelIDs) > 0 {
		names := make([]string, 0, len(task.LabelIDs))
		for _, id := range task.LabelIDs {
			names = append(names, "#"+m.store.LabelName(id))
		}
		field("Labels", accent.Render(strings.Join(names, " ")))
	}
	if task.DueDate != nil {
		field("Due", parser.FormatDueDate(task.DueDate, now))
	}
	if task.Deadline != nil {
		field("Deadline", task.Deadline.Format("02/01/2006 15:04"))
	}
	if task.Recurrence.IsSet() {
		field("Repeats", recurrence.Describe(task.Recurrence, task.CustomRecurrence))
	}
	if task.Estimate != "" || task.ActualTime != "" {
		field("Time", fmt.Sprintf("%s est / %s actual", orDash(task.Estimate), orDash(task.ActualTime)))
	}

	if len(task.Subtasks) > 0 {
		b.WriteString("\nSubtasks:\n")
		for _, st := range task.Subtasks {
			box := "[ ]"
			if st.Completed {
				box = "[x]"
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", box, truncate(st.Title, width-10)))
		}
	}

	if len(task.Reminders) > 0 {
		b.WriteString("\nReminders:\n")
		for _, r := range task.Reminders {
			mark := "⏰"
			if r.Fired {
				mark = "✓"
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", mark, r.Time.Format("02/01/2006 15:04")))
		}
	}

	if len(task.Attachments) > 0 {
		b.WriteString("\nAttachments:\n")
		for _, a := range task.Attachments {
			b.WriteString(fmt.Sprintf("  📎 %s\n", truncate(a.Name, width-10)))
		}
	}

	if task.Description != "" {
		b.WriteString("\nNotes:\n")
		noteStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Width(width - 2)
		b.WriteString(noteStyle.Render(task.Description))
		b.WriteString("\n")
	}

	if n := len(task.Logs); n > 0 {
		b.WriteString("\nHistory:\n")
		for _, l := range task.Logs[max(0, n-3):] {
			b.WriteString(muted.Render(fmt.Sprintf("  %s %s", l.Timestamp.Format("02/01 15:04"), truncate(l.Message, width-18))))
			b.WriteString("\n")
		}
	}

	return panelStyle(width).Render(b.String())
}

// renderActivity renders the cross-task activity feed
func (m Model) renderActivity(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render("🕑 Recent activity"))
	b.WriteString("\n\n")

	if len(m.activity) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("Nothing has happened yet"))
		return panelStyle(width).Render(b.String())
	}

	rows := m.height - 10
	if rows < 3 {
		rows = 3
	}
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	for i, e := range m.activity {
		if i >= rows {
			break
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			timeStyle.Render(e.Log.Timestamp.Format("02/01 15:04")),
			taskStyle.Render(truncate(e.TaskTitle, 30)),
			truncate(e.Log.Message, width-52)))
	}
	return panelStyle(width).Render(b.String())
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)).
		Width(m.width).
		Render(m.status)
}

// renderBar renders an input bar at the bottom
func (m Model) renderBar(content string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(content)
}

// renderHelpBar renders the help bar with hotkey hints
func (m Model) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "↑/↓ nav · ←/→ page · tab view · s sort · / search · a add · space done · d delete · q quit"
	return helpStyle.Render(helpText)
}

func panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

func priorityBadge(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPriorityHigh)).Render("!!!")
	case models.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPriorityMedium)).Render("!!")
	case models.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPriorityLow)).Render("!")
	}
	return ""
}

// dueBadge formats a due date for the table column
func dueBadge(due *time.Time, now time.Time) string {
	if due == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("-")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
	days := int(day.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOverdue)).Render("OVERDUE")
	case days == 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDueSoon)).Render("TODAY")
	case days == 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDueSoon)).Render("TOMORROW")
	case days <= 7:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(fmt.Sprintf("%dd", days))
	}
	return due.Format("02/01")
}

// truncate shortens s to at most n runes, adding "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// padRight pads a possibly styled string to width visible cells
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
