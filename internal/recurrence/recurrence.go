// Package recurrence computes the next occurrence of recurring tasks.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/balkashynov/dotask/internal/models"
)

var (
	ErrMissingCustomInterval = errors.New("custom recurrence needs an interval")
	ErrInvalidCustomInterval = errors.New("custom recurrence interval must be at least 1 day, week, month or year")
)

// NextDueDate returns the date a recurring task is due after current.
//
// A nil current yields nil. None, unknown rules, and Custom without an
// interval return current unchanged; callers that need a strictly later
// date should check Validate first.
func NextDueDate(current *time.Time, rule models.Recurrence, custom *models.CustomRecurrence) *time.Time {
	if current == nil {
		return nil
	}
	next := *current

	switch rule {
	case models.RecurrenceDaily:
		next = next.AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		next = next.AddDate(0, 0, 7)
	case models.RecurrenceMonthly:
		next = next.AddDate(0, 1, 0)
	case models.RecurrenceYearly:
		next = next.AddDate(1, 0, 0)
	case models.RecurrenceWeekdays:
		next = next.AddDate(0, 0, 1)
		for isWeekend(next) {
			next = next.AddDate(0, 0, 1)
		}
	case models.RecurrenceCustom:
		if custom != nil {
			next = advance(next, custom.Amount, custom.Unit)
		}
	}

	return &next
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func advance(t time.Time, amount int, unit models.RecurrenceUnit) time.Time {
	switch unit {
	case models.UnitDays:
		return t.AddDate(0, 0, amount)
	case models.UnitWeeks:
		return t.AddDate(0, 0, amount*7)
	case models.UnitMonths:
		return t.AddDate(0, amount, 0)
	case models.UnitYears:
		return t.AddDate(amount, 0, 0)
	default:
		return t
	}
}

// Validate checks that a rule can actually move a date forward
func Validate(rule models.Recurrence, custom *models.CustomRecurrence) error {
	if rule != models.RecurrenceCustom {
		return nil
	}
	if custom == nil {
		return ErrMissingCustomInterval
	}
	if custom.Amount < 1 {
		return ErrInvalidCustomInterval
	}
	switch custom.Unit {
	case models.UnitDays, models.UnitWeeks, models.UnitMonths, models.UnitYears:
		return nil
	default:
		return ErrInvalidCustomInterval
	}
}

// Describe renders a rule for display, e.g. "every 3 weeks"
func Describe(rule models.Recurrence, custom *models.CustomRecurrence) string {
	switch rule {
	case models.RecurrenceDaily:
		return "every day"
	case models.RecurrenceWeekly:
		return "every week"
	case models.RecurrenceWeekdays:
		return "every weekday"
	case models.RecurrenceMonthly:
		return "every month"
	case models.RecurrenceYearly:
		return "every year"
	case models.RecurrenceCustom:
		if custom == nil {
			return "custom"
		}
		unit := string(custom.Unit)
		if custom.Amount == 1 && len(unit) > 1 {
			unit = unit[:len(unit)-1]
		}
		return fmt.Sprintf("every %d %s", custom.Amount, unit)
	default:
		return "never"
	}
}

// ParseUnit maps user input ("d", "day", "weeks", ...) to a RecurrenceUnit
func ParseUnit(s string) (models.RecurrenceUnit, bool) {
	switch s {
	case "d", "day", "days":
		return models.UnitDays, true
	case "w", "week", "weeks":
		return models.UnitWeeks, true
	case "m", "month", "months":
		return models.UnitMonths, true
	case "y", "year", "years":
		return models.UnitYears, true
	default:
		return "", false
	}
}
