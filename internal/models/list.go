package models

// InboxListID is the reserved list every task falls back to.
// It is always valid and never has a TaskList record.
const InboxListID = "inbox"

// InboxName is the display name of the inbox
const InboxName = "Inbox"

// IsInbox reports whether id refers to the inbox
func IsInbox(id string) bool {
	return id == "" || id == InboxListID
}

// TaskList groups tasks; a task references at most one list
type TaskList struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon" yaml:"icon"`
}

// Label is attached to tasks by id (many-to-many)
type Label struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// SeedLists returns the lists a fresh install starts with
func SeedLists() []TaskList {
	return []TaskList{
		{ID: "personal", Name: "Personal", Color: "#3B82F6", Icon: "user"},
		{ID: "work", Name: "Work", Color: "#EF4444", Icon: "briefcase"},
	}
}

// SeedLabels returns the labels a fresh install starts with
func SeedLabels() []Label {
	return []Label{
		{ID: "urgent", Name: "Urgent", Color: "#EF4444"},
		{ID: "important", Name: "Important", Color: "#F59E0B"},
		{ID: "later", Name: "Later", Color: "#22C55E"},
	}
}
