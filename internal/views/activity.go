package views

import (
	"sort"
	"time"

	"github.com/balkashynov/dotask/internal/models"
)

// ActivityEntry is one log line together with the task it belongs to
type ActivityEntry struct {
	TaskID    string
	TaskTitle string
	Log       models.TaskLog
}

// Activity flattens every task's log into a newest-first feed.
// A limit of zero or less returns everything.
func Activity(tasks []models.Task, limit int) []ActivityEntry {
	var out []ActivityEntry
	for _, t := range tasks {
		for _, l := range t.Logs {
			out = append(out, ActivityEntry{TaskID: t.ID, TaskTitle: t.Title, Log: l})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Log.Timestamp.After(out[j].Log.Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Since keeps the entries newer than t
func Since(entries []ActivityEntry, t time.Time) []ActivityEntry {
	var out []ActivityEntry
	for _, e := range entries {
		if e.Log.Timestamp.After(t) {
			out = append(out, e)
		}
	}
	return out
}
