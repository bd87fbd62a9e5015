package store

import (
	"fmt"
	"time"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/recurrence"
)

// Command is a mutation request handled by Store.Dispatch
type Command interface {
	apply(s *Store) Result
}

type dirty uint8

const (
	dirtyTasks dirty = 1 << iota
	dirtyLists
	dirtyLabels
)

// Result describes what a dispatched command did
type Result struct {
	Changed bool

	// Task is the created or updated task, when there is one
	Task *models.Task
	// Spawned is the next occurrence created by completing a recurring task
	Spawned *models.Task
	// List and Label are set by the list/label commands
	List  *models.TaskList
	Label *models.Label
	// Fired holds the reminders marked fired by FireDueReminders
	Fired []FiredReminder

	dirty dirty
}

func changed(d dirty) Result {
	return Result{Changed: true, dirty: d}
}

// AddTask inserts a new task at the front of the collection.
// Unset fields get their defaults; ID and CreatedAt are always assigned.
type AddTask struct {
	Task models.Task
}

func (c AddTask) apply(s *Store) Result {
	t := c.Task.Clone()
	t.ID = s.newID()
	t.CreatedAt = s.now()
	t.Completed = false
	t.Normalize()
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = s.newID()
		}
	}
	for i := range t.Reminders {
		if t.Reminders[i].ID == "" {
			t.Reminders[i].ID = s.newID()
		}
	}
	for i := range t.Attachments {
		if t.Attachments[i].ID == "" {
			t.Attachments[i].ID = s.newID()
		}
	}
	t.Logs = append(t.Logs, s.newLog("Task created"))

	s.tasks = append([]models.Task{t}, s.tasks...)

	res := changed(dirtyTasks)
	out := t.Clone()
	res.Task = &out
	return res
}

// ToggleComplete flips the completion flag. Completing a recurring task
// spawns its next occurrence.
type ToggleComplete struct {
	ID string
}

func (c ToggleComplete) apply(s *Store) Result {
	i := s.indexOf(c.ID)
	if i < 0 {
		return Result{}
	}

	t := s.tasks[i].Clone()
	t.Completed = !t.Completed
	if t.Completed {
		t.Logs = append(t.Logs, s.newLog("Completed task"))
	} else {
		t.Logs = append(t.Logs, s.newLog("Uncompleted task"))
	}
	s.tasks[i] = t

	res := changed(dirtyTasks)
	out := t.Clone()
	res.Task = &out

	if t.Completed && t.Recurrence.IsSet() {
		next := s.spawnNext(t)
		s.tasks = append([]models.Task{next}, s.tasks...)
		spawned := next.Clone()
		res.Spawned = &spawned
	}
	return res
}

// spawnNext builds the follow-up occurrence of a completed recurring task
func (s *Store) spawnNext(t models.Task) models.Task {
	anchor := s.now()
	if t.DueDate != nil {
		anchor = *t.DueDate
	}

	next := t.Clone()
	next.ID = s.newID()
	next.Completed = false
	next.DueDate = recurrence.NextDueDate(&anchor, t.Recurrence, t.CustomRecurrence)
	next.Reminders = []models.Reminder{}
	next.Attachments = []models.Attachment{}
	next.Logs = []models.TaskLog{
		s.newLog(fmt.Sprintf("Recurring task created from '%s'", t.Title)),
	}
	next.CreatedAt = s.now()
	return next
}

// UpdateTask replaces the stored task with the given snapshot and logs
// every difference between the two.
type UpdateTask struct {
	Task models.Task
}

func (c UpdateTask) apply(s *Store) Result {
	return s.updateTask(c.Task)
}

func (s *Store) updateTask(snapshot models.Task) Result {
	i := s.indexOf(snapshot.ID)
	if i < 0 {
		return Result{}
	}

	stored := s.tasks[i]
	updated := snapshot.Clone()
	for j := range updated.Subtasks {
		if updated.Subtasks[j].ID == "" {
			updated.Subtasks[j].ID = s.newID()
		}
	}
	for j := range updated.Reminders {
		if updated.Reminders[j].ID == "" {
			updated.Reminders[j].ID = s.newID()
		}
	}
	for j := range updated.Attachments {
		if updated.Attachments[j].ID == "" {
			updated.Attachments[j].ID = s.newID()
		}
	}

	logs := mergeLogs(stored.Logs, updated.Logs)
	for _, msg := range s.diffMessages(stored, updated) {
		logs = append(logs, s.newLog(msg))
	}
	updated.Logs = logs
	s.tasks[i] = updated

	res := changed(dirtyTasks)
	out := updated.Clone()
	res.Task = &out
	return res
}

// DeleteTask removes a task. Callers must drop any selection pointing at it.
type DeleteTask struct {
	ID string
}

func (c DeleteTask) apply(s *Store) Result {
	i := s.indexOf(c.ID)
	if i < 0 {
		return Result{}
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return changed(dirtyTasks)
}

// AddSubtask appends a subtask through the update path so that it is logged
type AddSubtask struct {
	TaskID  string
	Title   string
	DueDate *time.Time
}

func (c AddSubtask) apply(s *Store) Result {
	i := s.indexOf(c.TaskID)
	if i < 0 || c.Title == "" {
		return Result{}
	}
	t := s.tasks[i].Clone()
	sub := models.SubTask{ID: s.newID(), Title: c.Title}
	if c.DueDate != nil {
		d := *c.DueDate
		sub.DueDate = &d
	}
	t.Subtasks = append(t.Subtasks, sub)
	return s.updateTask(t)
}

// AddReminder schedules a reminder on a task
type AddReminder struct {
	TaskID string
	At     time.Time
}

func (c AddReminder) apply(s *Store) Result {
	i := s.indexOf(c.TaskID)
	if i < 0 {
		return Result{}
	}
	t := s.tasks[i].Clone()
	t.Reminders = append(t.Reminders, models.Reminder{ID: s.newID(), Time: c.At})
	return s.updateTask(t)
}

// AddAttachment attaches a file or link built with NewFileAttachment / NewLinkAttachment
type AddAttachment struct {
	TaskID     string
	Attachment models.Attachment
}

func (c AddAttachment) apply(s *Store) Result {
	i := s.indexOf(c.TaskID)
	if i < 0 {
		return Result{}
	}
	t := s.tasks[i].Clone()
	a := c.Attachment
	if a.ID == "" {
		a.ID = s.newID()
	}
	t.Attachments = append(t.Attachments, a)
	return s.updateTask(t)
}

// AddList creates a list. A missing or taken ID is replaced with a fresh one.
type AddList struct {
	List models.TaskList
}

func (c AddList) apply(s *Store) Result {
	if c.List.Name == "" {
		return Result{}
	}
	l := c.List
	if l.ID == "" || models.IsInbox(l.ID) || s.listIndex(l.ID) >= 0 {
		l.ID = s.newID()
	}
	s.lists = append(s.lists, l)

	res := changed(dirtyLists)
	res.List = &l
	return res
}

// UpdateList renames or restyles a list
type UpdateList struct {
	List models.TaskList
}

func (c UpdateList) apply(s *Store) Result {
	i := s.listIndex(c.List.ID)
	if i < 0 {
		return Result{}
	}
	s.lists[i] = c.List

	res := changed(dirtyLists)
	l := c.List
	res.List = &l
	return res
}

// DeleteList moves the list's tasks to the inbox, then removes the list.
// The inbox itself cannot be deleted.
type DeleteList struct {
	ID string
}

func (c DeleteList) apply(s *Store) Result {
	if models.IsInbox(c.ID) {
		return Result{}
	}
	i := s.listIndex(c.ID)
	if i < 0 {
		return Result{}
	}

	d := dirtyLists
	for j := range s.tasks {
		if s.tasks[j].ListID == c.ID {
			s.tasks[j].ListID = models.InboxListID
			d |= dirtyTasks
		}
	}
	s.lists = append(s.lists[:i:i], s.lists[i+1:]...)
	return changed(d)
}

// AddLabel creates a label. A missing or taken ID is replaced with a fresh one.
type AddLabel struct {
	Label models.Label
}

func (c AddLabel) apply(s *Store) Result {
	if c.Label.Name == "" {
		return Result{}
	}
	l := c.Label
	if l.ID == "" || s.labelIndex(l.ID) >= 0 {
		l.ID = s.newID()
	}
	s.labels = append(s.labels, l)

	res := changed(dirtyLabels)
	res.Label = &l
	return res
}

// UpdateLabel renames or recolours a label
type UpdateLabel struct {
	Label models.Label
}

func (c UpdateLabel) apply(s *Store) Result {
	i := s.labelIndex(c.Label.ID)
	if i < 0 {
		return Result{}
	}
	s.labels[i] = c.Label

	res := changed(dirtyLabels)
	l := c.Label
	res.Label = &l
	return res
}

// DeleteLabel strips the label from every task, then removes it
type DeleteLabel struct {
	ID string
}

func (c DeleteLabel) apply(s *Store) Result {
	i := s.labelIndex(c.ID)
	if i < 0 {
		return Result{}
	}

	d := dirtyLabels
	for j := range s.tasks {
		if !s.tasks[j].HasLabel(c.ID) {
			continue
		}
		kept := make([]string, 0, len(s.tasks[j].LabelIDs))
		for _, id := range s.tasks[j].LabelIDs {
			if id != c.ID {
				kept = append(kept, id)
			}
		}
		s.tasks[j].LabelIDs = kept
		d |= dirtyTasks
	}
	s.labels = append(s.labels[:i:i], s.labels[i+1:]...)
	return changed(d)
}

func (s *Store) listIndex(id string) int {
	for i, l := range s.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) labelIndex(id string) int {
	for i, l := range s.labels {
		if l.ID == id {
			return i
		}
	}
	return -1
}
