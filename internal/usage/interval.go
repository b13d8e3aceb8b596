package usage

import (
	"fmt"
	"math"
	"sort"
)

// NotEnoughEntries is the average text returned when fewer than two entries match.
const NotEnoughEntries = "N/A (need at least 2 entries)"

// IntervalResult holds the gaps between a tracker's consecutive entries.
type IntervalResult struct {
	Intervals        []Interval
	AverageFormatted string
	AverageMinutes   float64
}

// ComputeIntervals filters entries to those referencing tag, sorts them by
// time and measures the gap between each adjacent pair. The input slice is
// not modified and does not need to be sorted.
func ComputeIntervals(entries []Entry, tag string) IntervalResult {
	matching := matchingEntries(entries, tag)
	if len(matching) < 2 {
		return IntervalResult{
			Intervals:        []Interval{},
			AverageFormatted: NotEnoughEntries,
		}
	}

	intervals := make([]Interval, 0, len(matching)-1)
	total := 0
	for i := 1; i < len(matching); i++ {
		minutes := int(matching[i].End.Sub(matching[i-1].End).Minutes())
		total += minutes
		intervals = append(intervals, newInterval(minutes))
	}

	avg := float64(total) / float64(len(intervals))
	return IntervalResult{
		Intervals:        intervals,
		AverageFormatted: FormatAverage(avg),
		AverageMinutes:   avg,
	}
}

// matchingEntries returns the entries referencing tag in ascending time order.
func matchingEntries(entries []Entry, tag string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.HasTag(tag) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].End.Before(out[j].End)
	})
	return out
}

func newInterval(minutes int) Interval {
	h := minutes / 60
	m := minutes % 60
	return Interval{
		Hours:     h,
		Minutes:   m,
		Formatted: FormatHoursMinutes(h, m),
	}
}

// FormatHoursMinutes renders "1 hour 30 minutes", "2 hours", or "45 minutes".
func FormatHoursMinutes(hours, minutes int) string {
	if hours == 0 {
		return plural(minutes, "minute")
	}
	if minutes == 0 {
		return plural(hours, "hour")
	}
	return plural(hours, "hour") + " " + plural(minutes, "minute")
}

// FormatAverage renders a mean gap. Under an hour it is shown as decimal
// hours with one digit ("0.5 hours"), otherwise as hours and minutes.
func FormatAverage(minutes float64) string {
	if minutes < 60 {
		hours := math.Round(minutes/60*10) / 10
		return fmt.Sprintf("%.1f hours", hours)
	}

	h := int(math.Floor(minutes / 60))
	m := int(math.Round(minutes - float64(h)*60))
	if m == 60 {
		h++
		m = 0
	}
	return FormatHoursMinutes(h, m)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
