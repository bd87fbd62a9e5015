package models

import (
	"strings"
	"time"
)

// Priority is the severity of a task
type Priority string

const (
	PriorityNone   Priority = "None"
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Weight returns the sort weight of the priority (High=3 ... None=0)
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority converts user input to a Priority.
// Accepts "low/medium/high", "1/2/3" and the "med" shorthand; anything else is None.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow
	case "medium", "med", "2":
		return PriorityMedium
	case "high", "3":
		return PriorityHigh
	default:
		return PriorityNone
	}
}

// Recurrence is the policy used to compute the next due date of a completed task
type Recurrence string

const (
	RecurrenceNone     Recurrence = "None"
	RecurrenceDaily    Recurrence = "Daily"
	RecurrenceWeekly   Recurrence = "Weekly"
	RecurrenceWeekdays Recurrence = "Weekdays"
	RecurrenceMonthly  Recurrence = "Monthly"
	RecurrenceYearly   Recurrence = "Yearly"
	RecurrenceCustom   Recurrence = "Custom"
)

// IsSet reports whether the rule spawns a follow-up task on completion
func (r Recurrence) IsSet() bool {
	return r != "" && r != RecurrenceNone
}

// RecurrenceUnit is the unit of a custom recurrence interval
type RecurrenceUnit string

const (
	UnitDays   RecurrenceUnit = "days"
	UnitWeeks  RecurrenceUnit = "weeks"
	UnitMonths RecurrenceUnit = "months"
	UnitYears  RecurrenceUnit = "years"
)

// CustomRecurrence holds the interval for RecurrenceCustom
type CustomRecurrence struct {
	Amount int            `json:"amount" yaml:"amount"`
	Unit   RecurrenceUnit `json:"unit" yaml:"unit"`
}

// AttachmentKind distinguishes uploaded files from links
type AttachmentKind string

const (
	AttachmentFile AttachmentKind = "file"
	AttachmentLink AttachmentKind = "link"
)

// Attachment is a file (stored as a data URI) or a link
type Attachment struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Kind     AttachmentKind `json:"type" yaml:"type"`
	URL      string         `json:"url" yaml:"url"`
	MimeType string         `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Size     int64          `json:"size,omitempty" yaml:"size,omitempty"`
}

// Reminder fires once at Time. Fired only ever goes false -> true.
type Reminder struct {
	ID    string    `json:"id" yaml:"id"`
	Time  time.Time `json:"time" yaml:"time"`
	Fired bool      `json:"fired" yaml:"fired"`
}

// SubTask is owned by exactly one Task
type SubTask struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Completed bool       `json:"completed" yaml:"completed"`
	DueDate   *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// TaskLog is one immutable entry of a task's activity trail
type TaskLog struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Message   string    `json:"message" yaml:"message"`
}

// Task represents a todo item
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	ListID      string     `json:"listId" yaml:"listId"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Reminders   []Reminder `json:"reminders" yaml:"reminders"`
	Estimate    string     `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	ActualTime  string     `json:"actualTime,omitempty" yaml:"actualTime,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Subtasks    []SubTask  `json:"subtasks" yaml:"subtasks"`

	Recurrence       Recurrence        `json:"recurrence" yaml:"recurrence"`
	CustomRecurrence *CustomRecurrence `json:"customRecurrence,omitempty" yaml:"customRecurrence,omitempty"`

	LabelIDs    []string     `json:"labelIds" yaml:"labelIds"`
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
	Color       string       `json:"color,omitempty" yaml:"color,omitempty"`
	Logs        []TaskLog    `json:"logs" yaml:"logs"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt"`
}

// HasLabel reports whether the task carries the label id
func (t *Task) HasLabel(id string) bool {
	for _, l := range t.LabelIDs {
		if l == id {
			return true
		}
	}
	return false
}

// Normalize fills unset fields with their defaults so that stored tasks
// never carry nil collections or an empty list/priority/recurrence.
func (t *Task) Normalize() {
	if t.ListID == "" {
		t.ListID = InboxListID
	}
	if t.Priority == "" {
		t.Priority = PriorityNone
	}
	if t.Recurrence == "" {
		t.Recurrence = RecurrenceNone
	}
	if t.Reminders == nil {
		t.Reminders = []Reminder{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []SubTask{}
	}
	if t.LabelIDs == nil {
		t.LabelIDs = []string{}
	}
	if t.Attachments == nil {
		t.Attachments = []Attachment{}
	}
	if t.Logs == nil {
		t.Logs = []TaskLog{}
	}
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.Deadline = cloneTime(t.Deadline)
	if t.CustomRecurrence != nil {
		cr := *t.CustomRecurrence
		c.CustomRecurrence = &cr
	}
	c.Reminders = append([]Reminder(nil), t.Reminders...)
	c.LabelIDs = append([]string(nil), t.LabelIDs...)
	c.Attachments = append([]Attachment(nil), t.Attachments...)
	c.Logs = append([]TaskLog(nil), t.Logs...)
	if t.Subtasks != nil {
		c.Subtasks = make([]SubTask, len(t.Subtasks))
		for i, s := range t.Subtasks {
			s.DueDate = cloneTime(s.DueDate)
			c.Subtasks[i] = s
		}
	}
	c.Normalize()
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
