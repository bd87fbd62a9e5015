package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/dotask/internal/intake"
	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/store"
	"github.com/balkashynov/dotask/internal/views"
)

var base = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

type stubParser struct {
	draft *intake.Draft
	err   error
}

func (p stubParser) ParseTask(ctx context.Context, text string, now time.Time) (*intake.Draft, error) {
	return p.draft, p.err
}

type stubScheduler struct {
	fired []store.FiredReminder
	ticks []time.Time
}

func (s *stubScheduler) Tick(now time.Time) []store.FiredReminder {
	s.ticks = append(s.ticks, now)
	return s.fired
}

func (s *stubScheduler) Interval() time.Duration { return 10 * time.Second }

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(&memKV{data: map[string][]byte{}}, store.WithClock(func() time.Time { return base }))
	require.NoError(t, s.Open())
	return s
}

func newModel(st *store.Store, p intake.Parser) Model {
	m := NewModel(Options{Store: st, Parser: p, Now: func() time.Time { return base }})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func add(st *store.Store, task models.Task) models.Task {
	return *st.Dispatch(store.AddTask{Task: task}).Task
}

func TestNewModel_LoadsInboxSortedSmart(t *testing.T) {
	st := newStore(t)
	add(st, models.Task{Title: "low", Priority: models.PriorityLow})
	add(st, models.Task{Title: "high", Priority: models.PriorityHigh})

	m := newModel(st, nil)

	assert.Equal(t, views.KindInbox, m.view.Kind)
	assert.Equal(t, views.SortSmart, m.sort)
	assert.Equal(t, []string{"high", "low"}, titles(m.tasks))
}

func TestToggleCompletesSelectedTask(t *testing.T) {
	st := newStore(t)
	task := add(st, models.Task{Title: "water plants"})

	m := press(newModel(st, nil), " ")

	got, ok := st.Task(task.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Empty(t, m.tasks, "completed tasks leave the inbox")
	assert.Contains(t, m.status, "Completed")
}

func TestToggleRecurringShowsNextOccurrence(t *testing.T) {
	st := newStore(t)
	due := base
	add(st, models.Task{Title: "standup", DueDate: &due, Recurrence: models.RecurrenceDaily})

	m := press(newModel(st, nil), "x")

	assert.Contains(t, m.status, "Next:")
	require.Len(t, m.tasks, 1)
	assert.False(t, m.tasks[0].Completed)
	assert.Equal(t, base.AddDate(0, 0, 1), *m.tasks[0].DueDate)
}

func TestDeleteSelectedTask(t *testing.T) {
	st := newStore(t)
	add(st, models.Task{Title: "junk"})

	m := press(newModel(st, nil), "d")

	assert.Empty(t, st.Tasks())
	assert.Empty(t, m.tasks)
}

func TestTabCyclesViewsAndSkipsSearch(t *testing.T) {
	st := newStore(t)
	m := newModel(st, nil)

	m = press(m, "tab")
	assert.Equal(t, views.KindToday, m.view.Kind)

	m = press(m, "shift+tab", "shift+tab")
	assert.Equal(t, views.View{Kind: views.KindLabel, ID: "later"}, m.view, "wraps to the last label")
}

func TestTabReachesListsAndLabels(t *testing.T) {
	st := newStore(t)
	m := newModel(st, nil)

	var seen []views.View
	for i := 0; i < len(m.navViews()); i++ {
		m = press(m, "tab")
		seen = append(seen, m.view)
	}

	assert.Contains(t, seen, views.View{Kind: views.KindList, ID: "work"})
	assert.Contains(t, seen, views.View{Kind: views.KindLabel, ID: "urgent"})
	assert.NotContains(t, seen, views.View{Kind: views.KindSearch})
	assert.NotContains(t, seen, views.View{Kind: views.KindList, ID: models.InboxListID})
	assert.Equal(t, views.View{Kind: views.KindInbox}, m.view, "full cycle returns to the start")
}

func TestSortKeyCycles(t *testing.T) {
	st := newStore(t)
	m := press(newModel(st, nil), "s")
	assert.Equal(t, views.SortDueDate, m.sort)
}

func TestSearchFiltersAndEscRestoresView(t *testing.T) {
	st := newStore(t)
	add(st, models.Task{Title: "buy milk"})
	add(st, models.Task{Title: "call bank"})

	m := press(newModel(st, nil), "/")
	assert.Equal(t, FocusSearch, m.focus)
	assert.Empty(t, m.tasks, "empty query matches nothing")

	m = typeText(m, "MILK")
	assert.Equal(t, views.KindSearch, m.view.Kind)
	assert.Equal(t, []string{"buy milk"}, titles(m.tasks))

	m = press(m, "esc")
	assert.Equal(t, FocusTable, m.focus)
	assert.Equal(t, views.KindInbox, m.view.Kind)
	assert.Len(t, m.tasks, 2)
}

func TestSearchEnterKeepsResults(t *testing.T) {
	st := newStore(t)
	add(st, models.Task{Title: "buy milk"})
	add(st, models.Task{Title: "call bank"})

	m := press(newModel(st, nil), "/")
	m = typeText(m, "bank")
	m = press(m, "enter")

	assert.Equal(t, FocusTable, m.focus)
	assert.Equal(t, []string{"call bank"}, titles(m.tasks))
}

func TestAddWithoutParserAddsPlainTask(t *testing.T) {
	st := newStore(t)

	m := press(newModel(st, nil), "a")
	assert.Equal(t, FocusAdd, m.focus)
	m = typeText(m, "  buy eggs  ")
	m = press(m, "enter")

	assert.Equal(t, FocusTable, m.focus)
	assert.False(t, m.pending)
	require.Len(t, st.Tasks(), 1)
	assert.Equal(t, "buy eggs", st.Tasks()[0].Title)
	assert.Equal(t, models.InboxListID, st.Tasks()[0].ListID)
	assert.Equal(t, []string{"buy eggs"}, titles(m.tasks))
}

func TestAddBlankIsIgnored(t *testing.T) {
	st := newStore(t)
	m := press(newModel(st, nil), "a")
	m = typeText(m, "   ")
	m = press(m, "enter")

	assert.Equal(t, FocusAdd, m.focus)
	assert.Empty(t, st.Tasks())
}

func TestAddWithParserRunsInBackground(t *testing.T) {
	st := newStore(t)
	due := base.Add(24 * time.Hour)
	p := stubParser{draft: &intake.Draft{Title: "Dentist", Priority: models.PriorityHigh, DueDate: &due}}

	m := press(newModel(st, p), "a")
	m = typeText(m, "dentist tomorrow, urgent")
	next, cmd := m.Update(key("enter"))
	m = next.(Model)

	assert.True(t, m.pending)
	assert.NotNil(t, cmd)
	assert.Empty(t, st.Tasks(), "nothing is added before intake finishes")

	// Input is disabled while pending
	m = press(m, "d", "a")
	assert.Equal(t, FocusTable, m.focus)

	msg := m.submitIntake("dentist tomorrow, urgent")()
	next, _ = m.Update(msg)
	m = next.(Model)

	assert.False(t, m.pending)
	require.Len(t, st.Tasks(), 1)
	got := st.Tasks()[0]
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, due, *got.DueDate)
	assert.Equal(t, `Added "Dentist"`, m.status)
}

func TestAddFallbackShowsNotice(t *testing.T) {
	st := newStore(t)
	m := newModel(st, stubParser{})

	next, _ := m.Update(m.submitIntake("asdf qwer")())
	m = next.(Model)

	require.Len(t, st.Tasks(), 1)
	assert.Equal(t, "asdf qwer", st.Tasks()[0].Title)
	assert.Equal(t, "Couldn't understand that, task added as plain text", m.status)
}

func TestAddGoesToCurrentList(t *testing.T) {
	st := newStore(t)
	m := NewModel(Options{Store: st, View: views.View{Kind: views.KindList, ID: "work"}, Now: func() time.Time { return base }})
	next, _ := m.Update(intakeDoneMsg{text: "report", draft: intake.Fallback("report")})
	m = next.(Model)

	require.Len(t, st.Tasks(), 1)
	assert.Equal(t, "work", st.Tasks()[0].ListID)
	assert.Equal(t, []string{"report"}, titles(m.tasks))
}

func TestReminderTickShowsFiredAndReschedules(t *testing.T) {
	st := newStore(t)
	sch := &stubScheduler{fired: []store.FiredReminder{{TaskTitle: "Call mom"}, {TaskTitle: "Pay rent"}}}

	m := NewModel(Options{Store: st, Scheduler: sch, Now: func() time.Time { return base }})
	initCmd := m.Init()
	require.NotNil(t, initCmd)

	next, cmd := m.Update(initCmd())
	m = next.(Model)

	assert.Equal(t, []time.Time{base}, sch.ticks)
	assert.Equal(t, "🔔 Call mom (+1 more)", m.status)
	assert.NotNil(t, cmd)
}

func TestReminderTickPicksUpTasksFromOtherProcesses(t *testing.T) {
	kv := &memKV{data: map[string][]byte{}}
	ui := store.New(kv, store.WithClock(func() time.Time { return base }))
	require.NoError(t, ui.Open())
	m := NewModel(Options{Store: ui, Scheduler: &stubScheduler{}, Now: func() time.Time { return base }})
	assert.Empty(t, m.tasks)

	cli := store.New(kv, store.WithClock(func() time.Time { return base }))
	require.NoError(t, cli.Open())
	cli.Dispatch(store.AddTask{Task: models.Task{Title: "Added from the shell"}})
	require.NoError(t, cli.Close())

	next, _ := m.Update(reminderTickMsg(base))
	m = next.(Model)
	assert.Equal(t, []string{"Added from the shell"}, titles(m.tasks))

	press(m, " ")
	require.NoError(t, ui.Close())

	again := store.New(kv)
	require.NoError(t, again.Open())
	require.Len(t, again.Tasks(), 1)
	assert.True(t, again.Tasks()[0].Completed)
}

func TestInitWithoutSchedulerDoesNothing(t *testing.T) {
	m := NewModel(Options{Store: newStore(t)})
	assert.Nil(t, m.Init())
}

func TestActivityViewHasFeedInsteadOfTasks(t *testing.T) {
	st := newStore(t)
	add(st, models.Task{Title: "something"})

	m := NewModel(Options{Store: st, View: views.View{Kind: views.KindActivity}, Now: func() time.Time { return base }})

	assert.Nil(t, m.tasks)
	require.Len(t, m.activity, 1)
	assert.Equal(t, "Task created", m.activity[0].Log.Message)
}

func TestPaginationFollowsSelection(t *testing.T) {
	st := newStore(t)
	for i := 0; i < 5; i++ {
		add(st, models.Task{Title: "t"})
	}
	m := newModel(st, nil)
	m.tasksPerPage = 2

	m = press(m, "j", "j")
	assert.Equal(t, 2, m.selectedTask)
	assert.Equal(t, 1, m.currentPage)

	m = press(m, "l")
	assert.Equal(t, 2, m.currentPage)
	assert.Equal(t, 4, m.selectedTask)

	m = press(m, "h")
	assert.Equal(t, 1, m.currentPage)
	assert.Equal(t, 2, m.selectedTask)

	m = press(m, "k")
	assert.Equal(t, 0, m.currentPage)
	assert.Equal(t, 1, m.selectedTask)
}

func TestViewRenders(t *testing.T) {
	st := newStore(t)
	add(st, models.Task{Title: "render me", Description: "details here"})
	m := newModel(st, nil)

	out := m.View()
	assert.Contains(t, out, "render me")
	assert.Contains(t, out, "details here")
	assert.Contains(t, out, "Inbox")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "hé", truncate("héllo", 2))
	assert.Equal(t, "", truncate("x", 0))
}
