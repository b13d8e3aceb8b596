package usage

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/samber/lo"
)

// DayLayout is the calendar-day format used for every date string in this package.
const DayLayout = "2006-01-02"

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseError reports a date string that is not an ISO calendar day.
type ParseError struct {
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
}

// ParseDay validates and parses a YYYY-MM-DD string as a UTC midnight.
func ParseDay(s string) (time.Time, error) {
	if !dayPattern.MatchString(s) {
		return time.Time{}, &ParseError{Value: s, Reason: "expected YYYY-MM-DD"}
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Reason: "not a calendar date"}
	}
	return t, nil
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// AddDays shifts a parsed day by n calendar days.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole calendar days. Both must come from ParseDay.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// DetectPeriods merges calendar days into contiguous runs. The input may be
// unsorted and may contain duplicates; the result is ordered by start.
func DetectPeriods(dates []string) ([]Period, error) {
	if len(dates) == 0 {
		return []Period{}, nil
	}

	sorted := make([]string, len(dates))
	copy(sorted, dates)
	for _, d := range sorted {
		if _, err := ParseDay(d); err != nil {
			return nil, err
		}
	}
	sort.Strings(sorted)

	var periods []Period
	start, _ := ParseDay(sorted[0])
	prev := start
	startStr, prevStr := sorted[0], sorted[0]

	for _, d := range sorted[1:] {
		cur, _ := ParseDay(d)
		if daysBetween(prev, cur) <= 1 {
			prev, prevStr = cur, d
			continue
		}
		periods = append(periods, Period{
			Start:        startStr,
			End:          prevStr,
			DurationDays: daysBetween(start, prev) + 1,
		})
		start, prev = cur, cur
		startStr, prevStr = d, d
	}

	periods = append(periods, Period{
		Start:        startStr,
		End:          prevStr,
		DurationDays: daysBetween(start, prev) + 1,
	})
	return periods, nil
}

// ExpandDates adds the days a multi-day context covers: each date d
// contributes d, d+1, ..., d+duration-1. The result is sorted and unique.
func ExpandDates(dates []string, duration int) ([]string, error) {
	if duration < 1 {
		duration = 1
	}

	var out []string
	for _, d := range dates {
		day, err := ParseDay(d)
		if err != nil {
			return nil, err
		}
		for i := 0; i < duration; i++ {
			out = append(out, AddDays(day, i).Format(DayLayout))
		}
	}

	out = lo.Uniq(out)
	sort.Strings(out)
	return out, nil
}

// lastPeriod returns the period ending most recently.
func lastPeriod(periods []Period) *Period {
	if len(periods) == 0 {
		return nil
	}
	last := periods[0]
	for _, p := range periods[1:] {
		if p.End > last.End {
			last = p
		}
	}
	return &last
}

// longestPeriod returns the first period with the greatest duration.
func longestPeriod(periods []Period) *Period {
	if len(periods) == 0 {
		return nil
	}
	longest := periods[0]
	for _, p := range periods[1:] {
		if p.DurationDays > longest.DurationDays {
			longest = p
		}
	}
	return &longest
}
