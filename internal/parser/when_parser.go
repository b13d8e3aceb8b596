package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	agoRegex    = regexp.MustCompile(`^(\d+)\s*(m|min|mins|minute|minutes|h|hour|hours|d|day|days)\s+ago$`)
	windowRegex = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks|m|month|months)?$`)
)

// ParseWhen parses the time a log entry happened
// Supported formats:
// - "" (now)
// - yyyy-mm-dd hh:mm (e.g., "2024-05-01 08:30")
// - yyyy-mm-dd (e.g., "2024-05-01", keeps the current clock time)
// - hh:mm (e.g., "08:30", today)
// - X minutes/hours/days ago (e.g., "20 min ago", "2 hours ago")
func ParseWhen(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == "now" {
		return now, nil
	}

	loc := now.Location()

	if t, err := time.ParseInLocation("2006-01-02 15:04", input, loc); err == nil {
		return t, nil
	}

	if d, err := time.ParseInLocation("2006-01-02", input, loc); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), 0, 0, loc), nil
	}

	if c, err := time.ParseInLocation("15:04", input, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
	}

	if t, err := parseAgo(input, now); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid time format. Use: yyyy-mm-dd hh:mm, yyyy-mm-dd, hh:mm, or X hours ago")
}

// parseAgo parses relative formats like "20 min ago", "3 days ago"
func parseAgo(input string, now time.Time) (time.Time, error) {
	matches := agoRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "m", "min", "mins", "minute", "minutes":
		return now.Add(-time.Duration(amount) * time.Minute), nil
	case "h", "hour", "hours":
		return now.Add(-time.Duration(amount) * time.Hour), nil
	default:
		if amount > 3650 {
			return time.Time{}, fmt.Errorf("days must be at most 3650")
		}
		return now.AddDate(0, 0, -amount), nil
	}
}

// ParseWindow parses a usage window into days
// Supported formats: "30" and "30d" (days), "2w" (weeks), "3m" (months of 30 days)
func ParseWindow(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	matches := windowRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid window %q. Use: 30, 30d, 2w, or 3m", input)
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number")
	}

	days := amount
	switch matches[2] {
	case "w", "week", "weeks":
		days = amount * 7
	case "m", "month", "months":
		days = amount * 30
	}

	if days < 1 || days > 3650 {
		return 0, fmt.Errorf("window must be between 1 and 3650 days")
	}
	return days, nil
}
