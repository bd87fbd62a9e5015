// Package intake turns free text into a task draft using a language model,
// falling back to a plain task when the model is unavailable.
package intake

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/balkashynov/dotask/internal/models"
)

// Draft is the structured result of parsing free text
type Draft struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
	Estimate    string
}

// Parser extracts a Draft from text. now lets the parser resolve relative
// phrases such as "tomorrow". A nil draft with a nil error means the
// parser could not make sense of the text.
type Parser interface {
	ParseTask(ctx context.Context, text string, now time.Time) (*Draft, error)
}

// Resolve asks p for a draft and falls back to a plain task titled with
// the raw text whenever p is nil, fails, or returns nothing usable.
// Failures are logged, never returned.
func Resolve(ctx context.Context, p Parser, text string, now time.Time, logger *log.Logger) Draft {
	fallback := Fallback(text)
	text = fallback.Title

	if p == nil {
		return fallback
	}

	d, err := p.ParseTask(ctx, text, now)
	if err != nil {
		if logger != nil {
			logger.Printf("intake: falling back to plain text: %v", err)
		}
		return fallback
	}
	if d == nil || strings.TrimSpace(d.Title) == "" {
		return fallback
	}

	out := *d
	out.Title = strings.TrimSpace(out.Title)
	if out.Priority == "" {
		out.Priority = models.PriorityNone
	}
	return out
}

// Fallback is the plain task used when text could not be parsed
func Fallback(text string) Draft {
	return Draft{Title: strings.TrimSpace(text), Priority: models.PriorityNone}
}

// ToTask converts the draft into a task ready for store.AddTask
func (d Draft) ToTask(listID string) models.Task {
	t := models.Task{
		ListID:      listID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Estimate:    d.Estimate,
	}
	if d.DueDate != nil {
		due := *d.DueDate
		t.DueDate = &due
	}
	t.Normalize()
	return t
}
