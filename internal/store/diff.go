package store

import (
	"fmt"
	"time"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/recurrence"
)

// PlaceholderLogMessage is the generic entry an editor may attach to a
// snapshot. It is never merged into the stored log.
const PlaceholderLogMessage = "Updated task details"

// mergeLogs keeps the stored logs and appends incoming entries that are new
// (by id) and not the editor placeholder.
func mergeLogs(stored, incoming []models.TaskLog) []models.TaskLog {
	known := make(map[string]bool, len(stored))
	out := make([]models.TaskLog, 0, len(stored)+len(incoming))
	for _, l := range stored {
		known[l.ID] = true
		out = append(out, l)
	}
	for _, l := range incoming {
		if known[l.ID] || l.Message == PlaceholderLogMessage {
			continue
		}
		known[l.ID] = true
		out = append(out, l)
	}
	return out
}

// diffMessages describes every change between old and upd, in field order
func (s *Store) diffMessages(old, upd models.Task) []string {
	var msgs []string
	add := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}

	if old.Title != upd.Title {
		add("Renamed task from %q to %q", old.Title, upd.Title)
	}

	switch {
	case old.Description == "" && upd.Description != "":
		add("Added description")
	case old.Description != "" && upd.Description == "":
		add("Removed description")
	case old.Description != upd.Description:
		add("Updated description")
	}

	switch {
	case old.DueDate == nil && upd.DueDate != nil:
		add("Set due date to %s", formatDate(*upd.DueDate))
	case old.DueDate != nil && upd.DueDate == nil:
		add("Removed due date")
	case !sameTime(old.DueDate, upd.DueDate):
		add("Rescheduled from %s to %s", formatDate(*old.DueDate), formatDate(*upd.DueDate))
	}

	switch {
	case old.Deadline == nil && upd.Deadline != nil:
		add("Set deadline to %s", formatDate(*upd.Deadline))
	case old.Deadline != nil && upd.Deadline == nil:
		add("Removed deadline")
	case !sameTime(old.Deadline, upd.Deadline):
		add("Changed deadline from %s to %s", formatDate(*old.Deadline), formatDate(*upd.Deadline))
	}

	if op, np := priorityOf(old), priorityOf(upd); op != np {
		add("Changed priority from %s to %s", op, np)
	}

	if listOf(old) != listOf(upd) {
		add("Moved from %q to %q", s.listName(old.ListID), s.listName(upd.ListID))
	}

	if old.Estimate != upd.Estimate {
		if upd.Estimate == "" {
			add("Removed estimate")
		} else {
			add("Set estimate to %s", upd.Estimate)
		}
	}

	if old.ActualTime != upd.ActualTime {
		if upd.ActualTime == "" {
			add("Removed actual time")
		} else {
			add("Set actual time to %s", upd.ActualTime)
		}
	}

	if !sameRecurrence(old, upd) {
		add("Changed recurrence from %s to %s",
			recurrence.Describe(old.Recurrence, old.CustomRecurrence),
			recurrence.Describe(upd.Recurrence, upd.CustomRecurrence))
	}

	for _, id := range missingFrom(upd.LabelIDs, old.LabelIDs) {
		add("Added label %q", s.labelName(id))
	}
	for _, id := range missingFrom(old.LabelIDs, upd.LabelIDs) {
		add("Removed label %q", s.labelName(id))
	}

	oldAtt := attachmentsByID(old.Attachments)
	newAtt := attachmentsByID(upd.Attachments)
	for _, a := range upd.Attachments {
		if _, ok := oldAtt[a.ID]; !ok {
			add("Added attachment %q", a.Name)
		}
	}
	for _, a := range old.Attachments {
		if _, ok := newAtt[a.ID]; !ok {
			add("Removed attachment %q", a.Name)
		}
	}

	msgs = append(msgs, subtaskMessages(old.Subtasks, upd.Subtasks)...)
	return msgs
}

// subtaskMessages diffs two subtask lists. A subtask present in both can
// produce several entries in one update.
func subtaskMessages(old, upd []models.SubTask) []string {
	var msgs []string
	add := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}

	oldByID := make(map[string]models.SubTask, len(old))
	for _, st := range old {
		oldByID[st.ID] = st
	}
	newIDs := make(map[string]bool, len(upd))

	for _, st := range upd {
		newIDs[st.ID] = true
		prev, ok := oldByID[st.ID]
		if !ok {
			add("Added subtask %q", st.Title)
			continue
		}

		if prev.Completed != st.Completed {
			if st.Completed {
				add("Completed subtask %q", st.Title)
			} else {
				add("Uncompleted subtask %q", st.Title)
			}
		}
		if prev.Title != st.Title {
			add("Renamed subtask from %q to %q", prev.Title, st.Title)
		}
		switch {
		case prev.DueDate == nil && st.DueDate != nil:
			add("Set due date of subtask %q to %s", st.Title, formatDate(*st.DueDate))
		case prev.DueDate != nil && st.DueDate == nil:
			add("Removed due date of subtask %q", st.Title)
		case !sameTime(prev.DueDate, st.DueDate):
			add("Rescheduled subtask %q from %s to %s", st.Title, formatDate(*prev.DueDate), formatDate(*st.DueDate))
		}
	}

	for _, st := range old {
		if !newIDs[st.ID] {
			add("Deleted subtask %q", st.Title)
		}
	}
	return msgs
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameRecurrence(a, b models.Task) bool {
	ra, rb := a.Recurrence, b.Recurrence
	if !ra.IsSet() {
		ra = models.RecurrenceNone
	}
	if !rb.IsSet() {
		rb = models.RecurrenceNone
	}
	if ra != rb {
		return false
	}
	if ra != models.RecurrenceCustom {
		return true
	}
	ca, cb := a.CustomRecurrence, b.CustomRecurrence
	if ca == nil || cb == nil {
		return ca == nil && cb == nil
	}
	return *ca == *cb
}

func priorityOf(t models.Task) models.Priority {
	if t.Priority == "" {
		return models.PriorityNone
	}
	return t.Priority
}

func listOf(t models.Task) string {
	if models.IsInbox(t.ListID) {
		return models.InboxListID
	}
	return t.ListID
}

// missingFrom returns the ids in a that are not in b, in a's order
func missingFrom(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, id := range b {
		in[id] = true
	}
	var out []string
	for _, id := range a {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}

func attachmentsByID(as []models.Attachment) map[string]models.Attachment {
	m := make(map[string]models.Attachment, len(as))
	for _, a := range as {
		m[a.ID] = a
	}
	return m
}

// formatDate renders a date for log lines, with the time only when it is set
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2, 2006 15:04")
}
