package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/recurrence"
)

// ParsedTask represents a task parsed from the smart syntax
type ParsedTask struct {
	Title            string
	List             string
	Labels           []string
	Priority         models.Priority
	DueDate          *time.Time
	Recurrence       models.Recurrence
	CustomRecurrence *models.CustomRecurrence
	Errors           []string
}

var (
	labelRegex    = regexp.MustCompile(`(?:^|\s)#([\pL\pN_,-]+)`)
	listRegex     = regexp.MustCompile(`(?:^|\s)@([\pL\pN_-]+)`)
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z0-9]+)`)
	dueRegex      = regexp.MustCompile(`(?:^|\s)due:(\S+)`)
	everyRegex    = regexp.MustCompile(`(?:^|\s)every:(\S+)`)
	customRegex   = regexp.MustCompile(`^(\d+)\s*([a-z]+)$`)
)

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #label1,label2 @list +priority due:3days every:week"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Labels:     []string{},
		Priority:   models.PriorityNone,
		Recurrence: models.RecurrenceNone,
		Errors:     []string{},
	}

	// Extract labels (#label1,label2 or #label1 #label2)
	for _, match := range labelRegex.FindAllStringSubmatch(input, -1) {
		for _, label := range strings.Split(match[1], ",") {
			label = strings.TrimSpace(label)
			if label != "" {
				result.Labels = append(result.Labels, label)
			}
		}
	}
	input = labelRegex.ReplaceAllString(input, " ")

	// Extract list (@list-name)
	if m := listRegex.FindStringSubmatch(input); m != nil {
		result.List = m[1]
		input = listRegex.ReplaceAllString(input, " ")
	}

	// Extract priority (+high, +3, +medium, etc.)
	if m := priorityRegex.FindStringSubmatch(input); m != nil {
		if isValidPriority(m[1]) {
			result.Priority = models.ParsePriority(m[1])
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	// Extract due date (due:3days, due:15/12/2024, etc.)
	if m := dueRegex.FindStringSubmatch(input); m != nil {
		dueDate, err := ParseDueDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	// Extract recurrence (every:week, every:3days)
	if m := everyRegex.FindStringSubmatch(input); m != nil {
		rule, custom, err := ParseRecurrence(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid recurrence '"+m[1]+"': "+err.Error())
		} else {
			result.Recurrence = rule
			result.CustomRecurrence = custom
		}
		input = everyRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}

// ParseRecurrence maps user input to a recurrence rule.
// "day", "week", "weekdays", "month", "year" (and their -ly forms) give
// the fixed rules, "3days" or "2 weeks" a custom interval, "none" clears it.
func ParseRecurrence(input string) (models.Recurrence, *models.CustomRecurrence, error) {
	s := strings.ToLower(strings.TrimSpace(input))

	switch s {
	case "", "none", "never":
		return models.RecurrenceNone, nil, nil
	case "day", "daily":
		return models.RecurrenceDaily, nil, nil
	case "week", "weekly":
		return models.RecurrenceWeekly, nil, nil
	case "weekday", "weekdays":
		return models.RecurrenceWeekdays, nil, nil
	case "month", "monthly":
		return models.RecurrenceMonthly, nil, nil
	case "year", "yearly", "annually":
		return models.RecurrenceYearly, nil, nil
	}

	m := customRegex.FindStringSubmatch(s)
	if m == nil {
		return "", nil, fmt.Errorf("use day, week, weekdays, month, year or an interval like 3days")
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return "", nil, fmt.Errorf("invalid number")
	}
	unit, ok := recurrence.ParseUnit(m[2])
	if !ok {
		return "", nil, fmt.Errorf("unknown unit %q", m[2])
	}

	custom := &models.CustomRecurrence{Amount: amount, Unit: unit}
	if err := recurrence.Validate(models.RecurrenceCustom, custom); err != nil {
		return "", nil, err
	}
	return models.RecurrenceCustom, custom, nil
}

// isValidPriority checks if a priority value is valid
func isValidPriority(priority string) bool {
	switch strings.ToLower(priority) {
	case "none", "0":
		return true
	}
	return models.ParsePriority(priority) != models.PriorityNone
}
