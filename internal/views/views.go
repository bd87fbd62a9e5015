// Package views derives the visible task list from the full collection.
package views

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/balkashynov/dotask/internal/models"
)

// Kind is the type of a view
type Kind string

const (
	KindInbox    Kind = "inbox"
	KindToday    Kind = "today"
	KindNext7    Kind = "next7"
	KindUpcoming Kind = "upcoming"
	KindAll      Kind = "all"
	KindSearch   Kind = "search"
	KindActivity Kind = "activity"
	KindLabel    Kind = "label"
	KindList     Kind = "list"
)

// Builtin lists the views that need no id, in display order
var Builtin = []Kind{KindInbox, KindToday, KindNext7, KindUpcoming, KindAll, KindSearch, KindActivity}

// View selects a partition of the task collection.
// ID is only used by KindLabel and KindList.
type View struct {
	Kind Kind
	ID   string
}

// SortOption orders the filtered tasks
type SortOption string

const (
	SortSmart        SortOption = "smart"
	SortDueDate      SortOption = "dueDate"
	SortPriority     SortOption = "priority"
	SortAdded        SortOption = "added"
	SortAlphabetical SortOption = "alphabetical"
)

// SortOptions lists every sort mode, default first
var SortOptions = []SortOption{SortSmart, SortDueDate, SortPriority, SortAdded, SortAlphabetical}

// ParseSort maps user input to a SortOption, defaulting to smart
func ParseSort(s string) SortOption {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "due", "duedate", "due_date":
		return SortDueDate
	case "priority", "prio":
		return SortPriority
	case "added", "created", "newest":
		return SortAdded
	case "alpha", "alphabetical", "title", "az":
		return SortAlphabetical
	default:
		return SortSmart
	}
}

// ParseView resolves a view name: a builtin, then a list (id or name),
// then a label (id or name). Unknown names return the inbox and false.
func ParseView(name string, lists []models.TaskList, labels []models.Label) (View, bool) {
	n := strings.TrimSpace(name)
	lower := strings.ToLower(n)

	switch lower {
	case "", "inbox":
		return View{Kind: KindInbox}, true
	case "next7", "week", "next 7 days":
		return View{Kind: KindNext7}, true
	}
	for _, k := range Builtin {
		if lower == string(k) {
			return View{Kind: k}, true
		}
	}

	for _, l := range lists {
		if l.ID == n || strings.EqualFold(l.Name, n) {
			return View{Kind: KindList, ID: l.ID}, true
		}
	}
	label := strings.TrimPrefix(n, "#")
	for _, l := range labels {
		if l.ID == label || strings.EqualFold(l.Name, label) {
			return View{Kind: KindLabel, ID: l.ID}, true
		}
	}
	return View{Kind: KindInbox}, false
}

// Select filters and sorts tasks for the view. The second return value is
// false for the activity view, which has no task list.
func Select(tasks []models.Task, v View, query string, by SortOption, now time.Time) ([]models.Task, bool) {
	filtered, ok := Filter(tasks, v, query, now)
	if !ok {
		return nil, false
	}
	Sort(filtered, by)
	return filtered, true
}

// Filter keeps the tasks that belong to the view, in their original order
func Filter(tasks []models.Task, v View, query string, now time.Time) ([]models.Task, bool) {
	if v.Kind == KindActivity {
		return nil, false
	}

	today := startOfDay(now)
	weekEnd := today.AddDate(0, 0, 7)
	q := strings.ToLower(strings.TrimSpace(query))

	match := func(t models.Task) bool {
		switch v.Kind {
		case KindAll:
			return true
		case KindSearch:
			if q == "" {
				return false
			}
			return strings.Contains(strings.ToLower(t.Title), q) ||
				strings.Contains(strings.ToLower(t.Description), q)
		}

		if t.Completed {
			return false
		}

		switch v.Kind {
		case KindInbox:
			return models.IsInbox(t.ListID)
		case KindToday:
			return t.DueDate != nil && startOfDay(t.DueDate.In(now.Location())).Equal(today)
		case KindNext7:
			if t.DueDate == nil {
				return false
			}
			d := startOfDay(t.DueDate.In(now.Location()))
			return !d.Before(today) && !d.After(weekEnd)
		case KindUpcoming:
			return t.DueDate != nil && t.DueDate.After(now)
		case KindLabel:
			return t.HasLabel(v.ID)
		case KindList:
			return t.ListID == v.ID
		default:
			return false
		}
	}

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if match(t) {
			out = append(out, t)
		}
	}
	return out, true
}

// Sort orders tasks in place. Completed tasks always come last; ties keep
// their input order.
func Sort(tasks []models.Task, by SortOption) {
	var less func(a, b models.Task) bool

	switch by {
	case SortDueDate:
		less = dueBefore
	case SortPriority:
		less = func(a, b models.Task) bool {
			return a.Priority.Weight() > b.Priority.Weight()
		}
	case SortAdded:
		less = func(a, b models.Task) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortAlphabetical:
		c := collate.New(language.English)
		less = func(a, b models.Task) bool {
			return c.CompareString(a.Title, b.Title) < 0
		}
	default:
		less = func(a, b models.Task) bool {
			wa, wb := a.Priority.Weight(), b.Priority.Weight()
			if wa != wb {
				return wa > wb
			}
			return dueBefore(a, b)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return less(a, b)
	})
}

// dueBefore orders by due date ascending with undated tasks last
func dueBefore(a, b models.Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Title returns the heading shown for a view
func Title(v View, lists []models.TaskList, labels []models.Label) string {
	switch v.Kind {
	case KindInbox:
		return models.InboxName
	case KindToday:
		return "Today"
	case KindNext7:
		return "Next 7 Days"
	case KindUpcoming:
		return "Upcoming"
	case KindAll:
		return "All Tasks"
	case KindSearch:
		return "Search"
	case KindActivity:
		return "Activity"
	case KindList:
		for _, l := range lists {
			if l.ID == v.ID {
				return l.Name
			}
		}
	case KindLabel:
		for _, l := range labels {
			if l.ID == v.ID {
				return "#" + l.Name
			}
		}
	}
	return models.InboxName
}

// ListIDFor returns the list a task created from this view should go to
func ListIDFor(v View) string {
	if v.Kind == KindList && v.ID != "" {
		return v.ID
	}
	return models.InboxListID
}
