package usage

import (
	"fmt"
	"time"
)

// ActiveContext describes a multi-day context still running on a given day.
type ActiveContext struct {
	Tag           string `json:"tag"`
	Start         string `json:"start"`
	End           string `json:"end"`
	RemainingDays int    `json:"remaining_days"`
	Display       string `json:"display"`
}

// ResolveActiveContexts finds contexts with a duration above one day whose
// latest window [d, d+duration-1] contains asOf. Remaining days include asOf.
func ResolveActiveContexts(asOf time.Time, trackables []Trackable, entries []Entry) map[string]ActiveContext {
	active := make(map[string]ActiveContext)
	today, _ := ParseDay(DayOf(asOf))

	for _, t := range trackables {
		ctx, ok := t.(*Context)
		if !ok || ctx.Days() <= 1 {
			continue
		}

		tag := ctx.TagName()
		var best time.Time
		found := false
		for _, e := range entries {
			if !e.HasTag(tag) {
				continue
			}
			start, err := ParseDay(DayOf(e.End.In(asOf.Location())))
			if err != nil {
				continue
			}
			end := AddDays(start, ctx.Days()-1)
			if start.After(today) || end.Before(today) {
				continue
			}
			if !found || start.After(best) {
				best, found = start, true
			}
		}
		if !found {
			continue
		}

		end := AddDays(best, ctx.Days()-1)
		remaining := daysBetween(today, end) + 1
		if remaining <= 0 {
			continue
		}
		active[tag] = ActiveContext{
			Tag:           tag,
			Start:         best.Format(DayLayout),
			End:           end.Format(DayLayout),
			RemainingDays: remaining,
			Display:       RemainingText(remaining),
		}
	}

	return active
}

// RemainingText renders "1 day left" or "N days left".
func RemainingText(days int) string {
	if days == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", days)
}

// MergeActive backfills DisplayValue on records for active contexts and adds
// a synthetic record (value 1) for contexts with no entry on asOf. Existing
// period data is never replaced.
func MergeActive(records map[string]*UsageRecord, active map[string]ActiveContext, asOf time.Time) {
	for tag, a := range active {
		if rec, ok := records[tag]; ok {
			if rec.DisplayValue == "" {
				rec.DisplayValue = a.Display
			}
			continue
		}
		records[tag] = &UsageRecord{
			Tag:          tag,
			Kind:         KindContext,
			Values:       []float64{1},
			Dates:        []string{DayOf(asOf)},
			Count:        1,
			Average:      1,
			Total:        1,
			Aggregate:    1,
			DisplayValue: a.Display,
		}
	}
}

// Today aggregates the entries logged on asOf's calendar day and merges in
// the contexts still active from earlier days.
func Today(asOf time.Time, trackables []Trackable, entries []Entry) (map[string]*UsageRecord, error) {
	day := DayOf(asOf)
	var todays []Entry
	for _, e := range entries {
		if DayOf(e.End.In(asOf.Location())) == day {
			todays = append(todays, e)
		}
	}

	records, err := AggregateUsage(todays, trackables)
	if err != nil {
		return nil, err
	}
	MergeActive(records, ResolveActiveContexts(asOf, trackables, entries), asOf)
	return records, nil
}
