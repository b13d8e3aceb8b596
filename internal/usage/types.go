// Package usage derives per-tag statistics from log entries: value counts,
// contiguous day periods and the time between entries.
//
// Every function in this package is a pure transformation over the slices it
// is given. Callers fetch entries and trackables from storage and pass them in.
package usage

import (
	"strings"
	"time"
)

// ValueType describes what a tracker records.
type ValueType string

const (
	ValueTally   ValueType = "tally"
	ValueNumeric ValueType = "numeric"
	ValueRange   ValueType = "range"
	ValueChoice  ValueType = "choice"
	ValueNote    ValueType = "note"
)

// Aggregation selects how a tracker's values roll up into one number.
type Aggregation string

const (
	AggregateSum  Aggregation = "sum"
	AggregateMean Aggregation = "mean"
)

// Kind names the Trackable variant a record was built from.
type Kind string

const (
	KindTracker Kind = "tracker"
	KindContext Kind = "context"
)

// Trackable is either a *Tracker or a *Context.
type Trackable interface {
	TagName() string
	Kind() Kind
	sealed()
}

// Tracker is a repeatedly logged quantity or event type.
type Tracker struct {
	Tag         string
	Type        ValueType
	Unit        string
	Default     *float64
	Aggregation Aggregation
}

func (t *Tracker) TagName() string { return NormalizeTag(t.Tag) }
func (t *Tracker) Kind() Kind      { return KindTracker }
func (t *Tracker) sealed()         {}

// Context marks a situational period. Duration is in days and defaults to 1.
type Context struct {
	Tag      string
	Duration int
}

func (c *Context) TagName() string { return NormalizeTag(c.Tag) }
func (c *Context) Kind() Kind      { return KindContext }
func (c *Context) sealed()         {}

// Days returns the context duration, treating zero or negative as 1.
func (c *Context) Days() int {
	if c.Duration < 1 {
		return 1
	}
	return c.Duration
}

// TagValue is one tag reference inside an entry. Value is nil when the note
// did not carry an explicit value.
type TagValue struct {
	Tag   string
	Value *float64
}

// Entry is a single logged event.
type Entry struct {
	End  time.Time
	Note string
	Tags []TagValue
}

// HasTag reports whether the entry references tag.
func (e Entry) HasTag(tag string) bool {
	return len(e.refs(tag)) > 0
}

// refs returns every reference to tag in the entry, in note order.
// "#water(500) #water(250)" yields two.
func (e Entry) refs(tag string) []TagValue {
	want := NormalizeTag(tag)
	var out []TagValue
	for _, tv := range e.Tags {
		if NormalizeTag(tv.Tag) == want {
			out = append(out, tv)
		}
	}
	return out
}

// Period is a maximal run of consecutive calendar days.
type Period struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	DurationDays int    `json:"duration_days"`
}

// Interval is the elapsed time between two adjacent entries for a tracker.
type Interval struct {
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
}

// TimedEntry is a matching entry with a display timestamp.
type TimedEntry struct {
	End       time.Time `json:"end"`
	Formatted string    `json:"formatted"`
	Note      string    `json:"note"`
	Value     *float64  `json:"value,omitempty"`
}

// UsageRecord is the aggregation of one tag over a date window.
type UsageRecord struct {
	Tag  string `json:"tag"`
	Kind Kind   `json:"kind"`
	Unit string `json:"unit,omitempty"`

	Values        []float64 `json:"values"`
	Dates         []string  `json:"dates"`
	ExpandedDates []string  `json:"expanded_dates,omitempty"`
	Count         int       `json:"count"`
	Average       float64   `json:"average"`
	Total         float64   `json:"total"`
	Aggregate     float64   `json:"aggregate"`

	Periods       []Period `json:"periods,omitempty"`
	PeriodCount   int      `json:"period_count,omitempty"`
	LastPeriod    *Period  `json:"last_period,omitempty"`
	LongestPeriod *Period  `json:"longest_period,omitempty"`

	Intervals              []Interval   `json:"intervals,omitempty"`
	AverageInterval        string       `json:"average_interval,omitempty"`
	AverageIntervalMinutes float64      `json:"average_interval_minutes,omitempty"`
	Entries                []TimedEntry `json:"entries,omitempty"`

	DisplayValue string `json:"display_value,omitempty"`
}

// NormalizeTag strips a leading # or + so "#foo", "+foo" and "foo" compare equal.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.TrimPrefix(tag, "+")
	return tag
}
