package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:[ T](\d{1,2}):(\d{2}))?$`)
	isoRegex      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[ T](\d{1,2}):(\d{2}))?$`)
	dayRegex      = regexp.MustCompile(`^(today|tomorrow)(?:\s+(\d{1,2}):(\d{2}))?$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(m|min|mins|minute|minutes|h|hour|hours|d|day|days|w|week|weeks)$`)
)

// ParseDueDate parses the due date formats accepted on the command line.
// Dates without a time of day land on local midnight.
// Supported formats:
// - today, tomorrow, optionally followed by HH:MM
// - dd/mm/yyyy, optionally followed by HH:MM (e.g., "15/12/2024 14:30")
// - yyyy-mm-dd, optionally followed by HH:MM
// - X days / X weeks (e.g., "3days", "2 weeks", "1w")
// - X hours / X minutes (e.g., "24 hours", "30m")
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	// today / tomorrow, optionally with HH:MM
	if m := dayRegex.FindStringSubmatch(strings.ToLower(input)); m != nil {
		d := startOfDay(now)
		if m[1] == "tomorrow" {
			d = d.AddDate(0, 0, 1)
		}
		return buildDate(strconv.Itoa(d.Year()), strconv.Itoa(int(d.Month())), strconv.Itoa(d.Day()), m[2], m[3], now.Location())
	}

	// Try dd/mm/yyyy format first
	if m := dateRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[3], m[2], m[1], m[4], m[5], now.Location())
	}
	if m := isoRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[1], m[2], m[3], m[4], m[5], now.Location())
	}

	// Try relative time formats
	if m := relativeRegex.FindStringSubmatch(strings.ToLower(input)); m != nil {
		return parseRelativeTime(m[1], m[2], now)
	}

	return nil, fmt.Errorf("invalid date format. Use: today, tomorrow, dd/mm/yyyy [HH:MM], yyyy-mm-dd, X days, X weeks, X hours or X minutes")
}

func buildDate(ys, ms, ds, hs, mins string, loc *time.Location) (*time.Time, error) {
	year, _ := strconv.Atoi(ys)
	month, _ := strconv.Atoi(ms)
	day, _ := strconv.Atoi(ds)

	// Validate date ranges
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("year must be between 2000 and 2100")
	}

	hour, minute := 0, 0
	if hs != "" {
		hour, _ = strconv.Atoi(hs)
		minute, _ = strconv.Atoi(mins)
		if hour > 23 || minute > 59 {
			return nil, fmt.Errorf("invalid time of day")
		}
	}

	dueDate := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if dueDate.Day() != day || dueDate.Month() != time.Month(month) || dueDate.Year() != year {
		return nil, fmt.Errorf("invalid date")
	}

	return &dueDate, nil
}

// parseRelativeTime resolves "3 days", "24h", etc. against now
func parseRelativeTime(n, unit string, now time.Time) (*time.Time, error) {
	amount, err := strconv.Atoi(n)
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	switch unit {
	case "m", "min", "mins", "minute", "minutes":
		if amount < 1 || amount > 525600 { // Max 1 year in minutes
			return nil, fmt.Errorf("minutes must be between 1 and 525600")
		}
		dueDate := now.Add(time.Duration(amount) * time.Minute)
		return &dueDate, nil

	case "h", "hour", "hours":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		dueDate := now.Add(time.Duration(amount) * time.Hour)
		return &dueDate, nil

	case "d", "day", "days":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		dueDate := startOfDay(now).AddDate(0, 0, amount)
		return &dueDate, nil

	default:
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		dueDate := startOfDay(now).AddDate(0, 0, amount*7)
		return &dueDate, nil
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDueDate formats a due date for display
func FormatDueDate(dueDate *time.Time, now time.Time) string {
	if dueDate == nil {
		return ""
	}

	// Calculate calendar days difference
	today := startOfDay(now)
	dueDay := startOfDay(dueDate.In(now.Location()))
	daysDiff := int(math.Round(dueDay.Sub(today).Hours() / 24))

	// Always show the actual date to avoid confusion
	dateStr := dueDate.Format("02/01/2006")
	if h, m, _ := dueDate.Clock(); h != 0 || m != 0 {
		dateStr = dueDate.Format("02/01/2006 15:04")
	}

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}
