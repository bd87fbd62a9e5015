package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/dotask/internal/models"
)

type memKV struct {
	data     map[string][]byte
	puts     map[string]int
	failPuts bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, puts: map[string]int{}}
}

func (m *memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key string, value []byte) error {
	if m.failPuts {
		return errors.New("disk full")
	}
	m.data[key] = append([]byte(nil), value...)
	m.puts[key]++
	return nil
}

var testNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, kv *memKV) *Store {
	t.Helper()
	n := 0
	s := New(kv,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
	require.NoError(t, s.Open())
	return s
}

func dayUTC(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func addTask(t *testing.T, s *Store, task models.Task) models.Task {
	t.Helper()
	res := s.Dispatch(AddTask{Task: task})
	require.True(t, res.Changed)
	require.NotNil(t, res.Task)
	return *res.Task
}

func messages(logs []models.TaskLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Message
	}
	return out
}

func TestOpen_DefaultsWhenEmpty(t *testing.T) {
	s := newTestStore(t, newMemKV())

	assert.Empty(t, s.Tasks())
	assert.Equal(t, models.SeedLists(), s.Lists())
	assert.Equal(t, models.SeedLabels(), s.Labels())
}

func TestOpen_MalformedKeysFallBackIndependently(t *testing.T) {
	kv := newMemKV()
	kv.data[KeyTasks] = []byte("{not json")
	kv.data[KeyLists] = []byte(`[{"id":"home","name":"Home","color":"#fff","icon":"house"}]`)
	kv.data[KeyLabels] = []byte(`42`)

	s := newTestStore(t, kv)

	assert.Empty(t, s.Tasks())
	assert.Equal(t, []models.TaskList{{ID: "home", Name: "Home", Color: "#fff", Icon: "house"}}, s.Lists())
	assert.Equal(t, models.SeedLabels(), s.Labels())
}

func TestAddTask_DefaultsAndOrdering(t *testing.T) {
	s := newTestStore(t, newMemKV())

	first := addTask(t, s, models.Task{Title: "first"})
	second := addTask(t, s, models.Task{Title: "second", ListID: "work", Priority: models.PriorityHigh})

	assert.Equal(t, models.InboxListID, first.ListID)
	assert.Equal(t, models.PriorityNone, first.Priority)
	assert.Equal(t, models.RecurrenceNone, first.Recurrence)
	assert.Equal(t, testNow, first.CreatedAt)
	assert.NotNil(t, first.Reminders)
	assert.NotNil(t, first.LabelIDs)
	assert.Equal(t, []string{"Task created"}, messages(first.Logs))

	assert.Equal(t, "work", second.ListID)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Title, "new tasks go to the front")
	assert.Equal(t, "first", tasks[1].Title)
}

func TestAddTask_AssignsFreshIDEvenIfProvided(t *testing.T) {
	s := newTestStore(t, newMemKV())
	a := addTask(t, s, models.Task{ID: "dup", Title: "a"})
	b := addTask(t, s, models.Task{ID: "dup", Title: "b"})
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, "dup", a.ID)
}

func TestToggleComplete_TwiceRestoresState(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "laundry"})

	s.Dispatch(ToggleComplete{ID: task.ID})
	res := s.Dispatch(ToggleComplete{ID: task.ID})
	require.True(t, res.Changed)
	assert.Nil(t, res.Spawned)

	got, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.False(t, got.Completed)
	assert.Len(t, got.Logs, len(task.Logs)+2)
	assert.Equal(t, []string{"Task created", "Completed task", "Uncompleted task"}, messages(got.Logs))
	assert.Len(t, s.Tasks(), 1)
}

func TestToggleComplete_UnknownIDIsNoop(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	res := s.Dispatch(ToggleComplete{ID: "missing"})
	assert.False(t, res.Changed)
	assert.Zero(t, kv.puts[KeyTasks])
}

func TestToggleComplete_WeeklySpawnsNextOccurrence(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{
		Title:      "review budget",
		DueDate:    dayUTC(2024, time.January, 1),
		Recurrence: models.RecurrenceWeekly,
		LabelIDs:   []string{"work"},
		Reminders:  []models.Reminder{{Time: testNow}},
		Attachments: []models.Attachment{
			NewLinkAttachment("sheet", "https://example.com/sheet"),
		},
		Subtasks: []models.SubTask{{Title: "collect receipts"}},
	})

	res := s.Dispatch(ToggleComplete{ID: task.ID})
	require.NotNil(t, res.Spawned)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)

	spawned := tasks[0]
	assert.Equal(t, res.Spawned.ID, spawned.ID)
	assert.NotEqual(t, task.ID, spawned.ID)
	assert.False(t, spawned.Completed)
	require.NotNil(t, spawned.DueDate)
	assert.Equal(t, *dayUTC(2024, time.January, 8), *spawned.DueDate)
	assert.Empty(t, spawned.Reminders)
	assert.Empty(t, spawned.Attachments)
	assert.Equal(t, []string{"Recurring task created from 'review budget'"}, messages(spawned.Logs))
	assert.Equal(t, testNow, spawned.CreatedAt)
	assert.Equal(t, []string{"work"}, spawned.LabelIDs)
	assert.Equal(t, models.RecurrenceWeekly, spawned.Recurrence)
	require.Len(t, spawned.Subtasks, 1)
	assert.Equal(t, "collect receipts", spawned.Subtasks[0].Title)

	original := tasks[1]
	assert.True(t, original.Completed)
	assert.Len(t, original.Attachments, 1, "original keeps its attachments")
}

func TestToggleComplete_RecurringWithoutDueAnchorsOnNow(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "water plants", Recurrence: models.RecurrenceDaily})

	res := s.Dispatch(ToggleComplete{ID: task.ID})
	require.NotNil(t, res.Spawned)
	require.NotNil(t, res.Spawned.DueDate)
	assert.Equal(t, testNow.AddDate(0, 0, 1), *res.Spawned.DueDate)
}

func TestToggleComplete_NoSpawnWhenUncompletingOrNotRecurring(t *testing.T) {
	s := newTestStore(t, newMemKV())
	recurring := addTask(t, s, models.Task{Title: "standup", Recurrence: models.RecurrenceWeekdays, DueDate: dayUTC(2024, time.January, 5)})
	plain := addTask(t, s, models.Task{Title: "plain", DueDate: dayUTC(2024, time.January, 5)})

	assert.Nil(t, s.Dispatch(ToggleComplete{ID: plain.ID}).Spawned)

	first := s.Dispatch(ToggleComplete{ID: recurring.ID})
	require.NotNil(t, first.Spawned)
	assert.Equal(t, *dayUTC(2024, time.January, 8), *first.Spawned.DueDate, "Friday rolls to Monday")

	second := s.Dispatch(ToggleComplete{ID: recurring.ID})
	assert.Nil(t, second.Spawned)
	assert.Len(t, s.Tasks(), 3)
}

func TestUpdateTask_TitleOnly(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "A"})

	task.Title = "B"
	res := s.Dispatch(UpdateTask{Task: task})
	require.True(t, res.Changed)

	got, _ := s.Task(task.ID)
	require.Len(t, got.Logs, 2)
	assert.Contains(t, got.Logs[1].Message, "B")
	assert.Equal(t, "B", got.Title)
}

func TestUpdateTask_NoChangesAddsNothing(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "same"})

	s.Dispatch(UpdateTask{Task: task})
	got, _ := s.Task(task.ID)
	assert.Len(t, got.Logs, 1)
}

func TestUpdateTask_PlaceholderIsFilteredAndNewLogsKept(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "draft"})

	task.Logs = append(task.Logs,
		models.TaskLog{ID: "modal", Timestamp: testNow, Message: PlaceholderLogMessage},
		models.TaskLog{ID: "note", Timestamp: testNow, Message: "Shared with Sam"},
	)
	task.Title = "final"
	s.Dispatch(UpdateTask{Task: task})

	got, _ := s.Task(task.ID)
	assert.Equal(t, []string{
		"Task created",
		"Shared with Sam",
		`Renamed task from "draft" to "final"`,
	}, messages(got.Logs))
}

func TestUpdateTask_UnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t, newMemKV())
	res := s.Dispatch(UpdateTask{Task: models.Task{ID: "ghost", Title: "x"}})
	assert.False(t, res.Changed)
	assert.Empty(t, s.Tasks())
}

func TestUpdateTask_FieldDiffs(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{
		Title:       "plan trip",
		Description: "flights",
		DueDate:     dayUTC(2024, time.February, 1),
		Priority:    models.PriorityLow,
		LabelIDs:    []string{"urgent", "later"},
		Estimate:    "2h",
	})

	task.Description = ""
	task.DueDate = dayUTC(2024, time.February, 3)
	deadline := time.Date(2024, time.February, 10, 17, 30, 0, 0, time.UTC)
	task.Deadline = &deadline
	task.Priority = models.PriorityHigh
	task.ListID = "work"
	task.Estimate = ""
	task.ActualTime = "3h"
	task.LabelIDs = []string{"later", "important", "gone"}
	task.Recurrence = models.RecurrenceMonthly
	s.Dispatch(UpdateTask{Task: task})

	got, _ := s.Task(task.ID)
	assert.Equal(t, []string{
		"Task created",
		"Removed description",
		"Rescheduled from Feb 1, 2024 to Feb 3, 2024",
		"Set deadline to Feb 10, 2024 17:30",
		"Changed priority from Low to High",
		`Moved from "Inbox" to "Work"`,
		"Removed estimate",
		"Set actual time to 3h",
		"Changed recurrence from never to every month",
		`Added label "Important"`,
		`Added label "Unknown"`,
		`Removed label "Urgent"`,
	}, messages(got.Logs))
}

func TestUpdateTask_SubtaskAndAttachmentDiffs(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{
		Title: "move house",
		Subtasks: []models.SubTask{
			{Title: "book van"},
			{Title: "pack books", DueDate: dayUTC(2024, time.March, 1)},
			{Title: "cancel internet"},
		},
		Attachments: []models.Attachment{NewLinkAttachment("lease", "https://example.com/lease")},
	})
	require.Len(t, task.Subtasks, 3)

	van, books, internet := task.Subtasks[0], task.Subtasks[1], task.Subtasks[2]
	van.Completed = true
	van.Title = "book big van"
	van.DueDate = dayUTC(2024, time.February, 28)
	books.DueDate = nil
	task.Subtasks = []models.SubTask{van, books, {Title: "label boxes"}}
	_ = internet
	task.Attachments = []models.Attachment{NewLinkAttachment("checklist", "https://example.com/list")}

	s.Dispatch(UpdateTask{Task: task})
	got, _ := s.Task(task.ID)

	assert.Equal(t, []string{
		"Task created",
		`Added attachment "checklist"`,
		`Removed attachment "lease"`,
		`Completed subtask "book big van"`,
		`Renamed subtask from "book van" to "book big van"`,
		`Set due date of subtask "book big van" to Feb 28, 2024`,
		`Removed due date of subtask "pack books"`,
		`Added subtask "label boxes"`,
		`Deleted subtask "cancel internet"`,
	}, messages(got.Logs))
	assert.NotEmpty(t, got.Subtasks[2].ID, "new subtasks get ids")
}

func TestConvenienceCommandsLogThroughUpdate(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "taxes"})

	s.Dispatch(AddSubtask{TaskID: task.ID, Title: "find W-2"})
	s.Dispatch(AddAttachment{TaskID: task.ID, Attachment: NewLinkAttachment("", "https://irs.gov")})
	res := s.Dispatch(AddReminder{TaskID: task.ID, At: testNow.Add(time.Hour)})
	require.True(t, res.Changed)

	got, _ := s.Task(task.ID)
	assert.Equal(t, []string{
		"Task created",
		`Added subtask "find W-2"`,
		`Added attachment "https://irs.gov"`,
	}, messages(got.Logs))
	require.Len(t, got.Reminders, 1)
	assert.False(t, got.Reminders[0].Fired)

	assert.False(t, s.Dispatch(AddSubtask{TaskID: "nope", Title: "x"}).Changed)
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t, newMemKV())
	a := addTask(t, s, models.Task{Title: "a"})
	b := addTask(t, s, models.Task{Title: "b"})

	assert.True(t, s.Dispatch(DeleteTask{ID: a.ID}).Changed)
	assert.False(t, s.Dispatch(DeleteTask{ID: a.ID}).Changed)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)
}

func TestDeleteList_ReassignsToInbox(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "report", ListID: "work"})
	other := addTask(t, s, models.Task{Title: "groceries", ListID: "personal"})

	assert.True(t, s.Dispatch(DeleteList{ID: "work"}).Changed)

	got, _ := s.Task(task.ID)
	assert.Equal(t, models.InboxListID, got.ListID)
	kept, _ := s.Task(other.ID)
	assert.Equal(t, "personal", kept.ListID)
	for _, l := range s.Lists() {
		assert.NotEqual(t, "work", l.ID)
	}
}

func TestDeleteList_InboxIsReserved(t *testing.T) {
	s := newTestStore(t, newMemKV())
	assert.False(t, s.Dispatch(DeleteList{ID: models.InboxListID}).Changed)
	assert.False(t, s.Dispatch(AddList{List: models.TaskList{ID: models.InboxListID}}).Changed, "name is required")

	res := s.Dispatch(AddList{List: models.TaskList{ID: models.InboxListID, Name: "Shadow"}})
	require.NotNil(t, res.List)
	assert.NotEqual(t, models.InboxListID, res.List.ID)
}

func TestDeleteLabel_StripsFromTasks(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "call bank", LabelIDs: []string{"urgent", "later"}})

	s.Dispatch(DeleteLabel{ID: "urgent"})

	got, _ := s.Task(task.ID)
	assert.Equal(t, []string{"later"}, got.LabelIDs)
	for _, l := range s.Labels() {
		assert.NotEqual(t, "urgent", l.ID)
	}
	assert.Equal(t, "Unknown", s.LabelName("urgent"))
}

func TestUpdateListAndLabel(t *testing.T) {
	s := newTestStore(t, newMemKV())

	assert.True(t, s.Dispatch(UpdateList{List: models.TaskList{ID: "work", Name: "Job"}}).Changed)
	assert.Equal(t, "Job", s.ListName("work"))
	assert.Equal(t, "Inbox", s.ListName("nope"))

	assert.True(t, s.Dispatch(UpdateLabel{Label: models.Label{ID: "later", Name: "Someday"}}).Changed)
	assert.Equal(t, "Someday", s.LabelName("later"))

	assert.False(t, s.Dispatch(UpdateLabel{Label: models.Label{ID: "nope", Name: "x"}}).Changed)
}

func TestFireDueReminders(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	due := addTask(t, s, models.Task{
		Title:       "pay rent",
		Description: "landlord",
		Reminders: []models.Reminder{
			{Time: testNow.Add(-time.Minute)},
			{Time: testNow.Add(-time.Hour), Fired: true},
			{Time: testNow.Add(time.Hour)},
		},
	})
	done := addTask(t, s, models.Task{Title: "done", Reminders: []models.Reminder{{Time: testNow.Add(-time.Minute)}}})
	s.Dispatch(ToggleComplete{ID: done.ID})

	putsBefore := kv.puts[KeyTasks]
	res := s.Dispatch(FireDueReminders{Now: testNow})
	require.True(t, res.Changed)
	require.Len(t, res.Fired, 1)
	assert.Equal(t, "pay rent", res.Fired[0].TaskTitle)
	assert.Equal(t, "landlord", res.Fired[0].Description)
	assert.True(t, res.Fired[0].Reminder.Fired)
	assert.Equal(t, putsBefore+1, kv.puts[KeyTasks])

	got, _ := s.Task(due.ID)
	assert.True(t, got.Reminders[0].Fired)
	assert.True(t, got.Reminders[1].Fired)
	assert.False(t, got.Reminders[2].Fired)

	completed, _ := s.Task(done.ID)
	assert.False(t, completed.Reminders[0].Fired, "completed tasks are skipped")

	again := s.Dispatch(FireDueReminders{Now: testNow})
	assert.False(t, again.Changed)
	assert.Equal(t, putsBefore+1, kv.puts[KeyTasks], "no write without changes")
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	addTask(t, s, models.Task{
		Title:            "renew passport",
		Description:      "bring photos",
		DueDate:          dayUTC(2024, time.May, 2),
		Priority:         models.PriorityMedium,
		Recurrence:       models.RecurrenceCustom,
		CustomRecurrence: &models.CustomRecurrence{Amount: 10, Unit: models.UnitYears},
		LabelIDs:         []string{"important"},
		Subtasks:         []models.SubTask{{Title: "photos", DueDate: dayUTC(2024, time.April, 30)}},
		Reminders:        []models.Reminder{{Time: testNow}},
		Color:            "#ff00ff",
	})
	addTask(t, s, models.Task{Title: "second", ListID: "work"})
	s.Dispatch(AddLabel{Label: models.Label{Name: "Errand", Color: "#000"}})
	s.Dispatch(DeleteList{ID: "personal"})
	want := s.Tasks()
	wantLists := s.Lists()
	wantLabels := s.Labels()
	require.NoError(t, s.Close())

	reloaded := newTestStore(t, kv)
	assert.Equal(t, want, reloaded.Tasks())
	assert.Equal(t, wantLists, reloaded.Lists())
	assert.Equal(t, wantLabels, reloaded.Labels())
}

func openOther(t *testing.T, kv *memKV, prefix string) *Store {
	t.Helper()
	n := 0
	s := New(kv,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%s-%03d", prefix, n)
		}),
	)
	require.NoError(t, s.Open())
	return s
}

func TestReload_SharedKVFiresRemindersWithoutLosingData(t *testing.T) {
	kv := newMemKV()
	watcher := newTestStore(t, kv)

	cli := openOther(t, kv, "cli")
	addTask(t, cli, models.Task{Title: "call mom", Reminders: []models.Reminder{{Time: testNow.Add(-time.Minute)}}})
	cli.Dispatch(AddList{List: models.TaskList{Name: "Garden"}})
	require.NoError(t, cli.Close())

	require.NoError(t, watcher.Reload())
	res := watcher.Dispatch(FireDueReminders{Now: testNow})
	require.Len(t, res.Fired, 1)
	assert.Equal(t, "call mom", res.Fired[0].TaskTitle)
	require.NoError(t, watcher.Close())

	after := newTestStore(t, kv)
	tasks := after.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Reminders[0].Fired)
	assert.Len(t, after.Lists(), len(models.SeedLists())+1)
}

func TestClose_DoesNotOverwriteNewerData(t *testing.T) {
	kv := newMemKV()
	watcher := newTestStore(t, kv)

	cli := openOther(t, kv, "cli")
	addTask(t, cli, models.Task{Title: "from cli"})
	cli.Dispatch(AddLabel{Label: models.Label{Name: "Errand"}})
	require.NoError(t, cli.Close())

	putsBefore := kv.puts[KeyTasks]
	require.NoError(t, watcher.Close())
	assert.Equal(t, putsBefore, kv.puts[KeyTasks])

	after := newTestStore(t, kv)
	assert.Equal(t, []string{"from cli"}, titlesOf(after.Tasks()))
	assert.Len(t, after.Labels(), len(models.SeedLabels())+1)
}

func TestReload_KeepsUnsavedChangesUntilWritten(t *testing.T) {
	kv := newMemKV()
	s := newTestStore(t, kv)

	kv.failPuts = true
	addTask(t, s, models.Task{Title: "offline"})
	require.NoError(t, s.Reload())
	assert.Equal(t, []string{"offline"}, titlesOf(s.Tasks()))

	kv.failPuts = false
	require.NoError(t, s.Close())

	after := newTestStore(t, kv)
	assert.Equal(t, []string{"offline"}, titlesOf(after.Tasks()))
}

func titlesOf(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestDispatchAfterCloseIsNoop(t *testing.T) {
	s := newTestStore(t, newMemKV())
	require.NoError(t, s.Close())
	assert.False(t, s.Dispatch(AddTask{Task: models.Task{Title: "late"}}).Changed)
}

func TestResolveTaskID(t *testing.T) {
	s := newTestStore(t, newMemKV())
	a := addTask(t, s, models.Task{Title: "a"})
	addTask(t, s, models.Task{Title: "b"})

	id, err := s.ResolveTaskID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = s.ResolveTaskID("id-")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = s.ResolveTaskID("zzz")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore(t, newMemKV())
	task := addTask(t, s, models.Task{Title: "immutable", LabelIDs: []string{"urgent"}})

	got, _ := s.Task(task.ID)
	got.LabelIDs[0] = "hacked"
	got.Title = "hacked"

	again, _ := s.Task(task.ID)
	assert.Equal(t, "immutable", again.Title)
	assert.Equal(t, []string{"urgent"}, again.LabelIDs)
}

func TestNewFileAttachment(t *testing.T) {
	a, err := NewFileAttachment("notes.txt", []byte("hello"), 1024)
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentFile, a.Kind)
	assert.Equal(t, int64(5), a.Size)
	assert.True(t, strings.HasPrefix(a.URL, "data:text/plain"))
	assert.True(t, strings.HasSuffix(a.URL, ";base64,aGVsbG8="))

	_, err = NewFileAttachment("big.bin", make([]byte, 2048), 1024)
	assert.ErrorIs(t, err, ErrAttachmentTooLarge)
}
