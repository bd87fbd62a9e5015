package store

import (
	"time"

	"github.com/balkashynov/dotask/internal/models"
)

// FiredReminder is a reminder that FireDueReminders just marked fired
type FiredReminder struct {
	TaskID      string
	TaskTitle   string
	Description string
	Reminder    models.Reminder
}

// FireDueReminders marks every unfired reminder due at or before Now on an
// incomplete task as fired. The task collection is only replaced when at
// least one reminder changed.
type FireDueReminders struct {
	Now time.Time
}

func (c FireDueReminders) apply(s *Store) Result {
	var fired []FiredReminder
	next := make([]models.Task, len(s.tasks))

	for i, t := range s.tasks {
		next[i] = t
		if t.Completed {
			continue
		}

		var rems []models.Reminder
		for j, r := range t.Reminders {
			if r.Fired || r.Time.After(c.Now) {
				continue
			}
			if rems == nil {
				rems = append([]models.Reminder(nil), t.Reminders...)
			}
			rems[j].Fired = true
			fired = append(fired, FiredReminder{
				TaskID:      t.ID,
				TaskTitle:   t.Title,
				Description: t.Description,
				Reminder:    rems[j],
			})
		}
		if rems != nil {
			next[i].Reminders = rems
		}
	}

	if len(fired) == 0 {
		return Result{}
	}
	s.tasks = next

	res := changed(dirtyTasks)
	res.Fired = fired
	return res
}
