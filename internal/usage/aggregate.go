package usage

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// TimestampLayout formats entry times in usage records.
const TimestampLayout = "Mon Jan 2, 2006 3:04 PM"

// AggregateUsage builds one UsageRecord per trackable that appears in
// entries. Trackables without matching entries are left out of the result.
func AggregateUsage(entries []Entry, trackables []Trackable) (map[string]*UsageRecord, error) {
	records := make(map[string]*UsageRecord, len(trackables))

	for _, t := range trackables {
		tag := t.TagName()
		matching := matchingEntries(entries, tag)
		if len(matching) == 0 {
			continue
		}

		rec := &UsageRecord{
			Tag:    tag,
			Kind:   t.Kind(),
			Values: []float64{},
			Dates:  make([]string, 0, len(matching)),
		}

		// One value per tag reference, one date and timed entry per log.
		resolved := make([]*float64, len(matching))
		for i, e := range matching {
			refs := e.refs(tag)
			if _, ok := t.(*Context); ok {
				refs = refs[:1]
			}
			for _, tv := range refs {
				v := resolveValue(t, tv.Value)
				if v == nil {
					continue
				}
				rec.Values = append(rec.Values, *v)
				resolved[i] = sumInto(resolved[i], *v)
			}
			rec.Dates = append(rec.Dates, DayOf(e.End))
		}
		fillStats(rec)

		switch v := t.(type) {
		case *Context:
			rec.Aggregate = rec.Total
			days := rec.Dates
			if v.Days() > 1 {
				expanded, err := ExpandDates(rec.Dates, v.Days())
				if err != nil {
					return nil, fmt.Errorf("expand %s: %w", tag, err)
				}
				rec.ExpandedDates = expanded
				days = expanded
			}
			if err := fillPeriods(rec, days); err != nil {
				return nil, fmt.Errorf("periods for %s: %w", tag, err)
			}

		case *Tracker:
			rec.Unit = v.Unit
			rec.Aggregate = rec.Total
			if v.Aggregation == AggregateMean {
				rec.Aggregate = rec.Average
			}
			if v.Type == ValueTally {
				if err := fillPeriods(rec, rec.Dates); err != nil {
					return nil, fmt.Errorf("periods for %s: %w", tag, err)
				}
			}
			if len(matching) >= 2 {
				res := ComputeIntervals(matching, tag)
				rec.Intervals = res.Intervals
				rec.AverageInterval = res.AverageFormatted
				rec.AverageIntervalMinutes = res.AverageMinutes
				rec.Entries = timedEntries(matching, resolved)
			}

		default:
			return nil, fmt.Errorf("unsupported trackable %T", t)
		}

		records[tag] = rec
	}

	return records, nil
}

// resolveValue decides the numeric value of one tag reference. Contexts
// always count as 1. Trackers use the explicit value, then their default;
// tally trackers fall back to 1.
func resolveValue(t Trackable, explicit *float64) *float64 {
	one := 1.0
	switch v := t.(type) {
	case *Context:
		return &one
	case *Tracker:
		if explicit != nil {
			return explicit
		}
		if v.Default != nil {
			d := *v.Default
			return &d
		}
		if v.Type == ValueTally {
			return &one
		}
	}
	return nil
}

func sumInto(acc *float64, v float64) *float64 {
	if acc == nil {
		return &v
	}
	total := *acc + v
	return &total
}

func fillStats(rec *UsageRecord) {
	rec.Count = len(rec.Values)
	rec.Total = lo.Sum(rec.Values)
	if rec.Count > 0 {
		rec.Average = rec.Total / float64(rec.Count)
	}
}

func fillPeriods(rec *UsageRecord, days []string) error {
	periods, err := DetectPeriods(days)
	if err != nil {
		return err
	}
	rec.Periods = periods
	rec.PeriodCount = len(periods)
	rec.LastPeriod = lastPeriod(periods)
	rec.LongestPeriod = longestPeriod(periods)
	return nil
}

func timedEntries(matching []Entry, values []*float64) []TimedEntry {
	out := make([]TimedEntry, len(matching))
	for i, e := range matching {
		out[i] = TimedEntry{
			End:       e.End,
			Formatted: e.End.Format(TimestampLayout),
			Note:      e.Note,
			Value:     values[i],
		}
	}
	return out
}

// SortedTags returns the record keys in alphabetical order.
func SortedTags(records map[string]*UsageRecord) []string {
	tags := lo.Keys(records)
	sort.Strings(tags)
	return tags
}
