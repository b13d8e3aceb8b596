package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/usage"
)

func TestFormatUsageEmpty(t *testing.T) {
	assert.Equal(t, "No tracked data in this window.\n", FormatUsage(nil))
}

func TestFormatUsage(t *testing.T) {
	day := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	entries := []usage.Entry{
		{End: day, Tags: []usage.TagValue{{Tag: "coffee"}, {Tag: "sick"}}},
		{End: day.Add(90 * time.Minute), Tags: []usage.TagValue{{Tag: "coffee"}}},
		{End: day.AddDate(0, 0, 1), Tags: []usage.TagValue{{Tag: "coffee"}}},
	}
	trackables := []usage.Trackable{
		&usage.Tracker{Tag: "coffee", Type: usage.ValueTally, Unit: "cups"},
		&usage.Context{Tag: "sick", Duration: 3},
	}
	records, err := usage.AggregateUsage(entries, trackables)
	assert.NoError(t, err)

	out := FormatUsage(records)

	assert.Contains(t, out, "#coffee (tracker)\n- logged 3 times, total 3 cups, average 1 cups\n")
	assert.Contains(t, out, "- logged on: 2024-05-01, 2024-05-02\n")
	assert.Contains(t, out, "- 1 period of consecutive days\n")
	assert.Contains(t, out, "- longest period: 2024-05-01 to 2024-05-02 (2 days)\n")
	assert.Contains(t, out, "- time between entries: 1 hour 30 minutes; 22 hours 30 minutes\n")
	assert.Contains(t, out, "- entries: Wed May 1, 2024 8:00 AM (1);")

	assert.Contains(t, out, "+sick (context)\n")
	assert.Contains(t, out, "- context covers: 2024-05-01, 2024-05-02, 2024-05-03\n")
	assert.Contains(t, out, "- last period: 2024-05-01 to 2024-05-03 (3 days)\n")

	assert.Less(t, strings.Index(out, "#coffee"), strings.Index(out, "+sick"), "records are ordered by tag")
}

func TestBuildPrompt(t *testing.T) {
	asOf := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	records := map[string]*usage.UsageRecord{
		"run": {Tag: "run", Kind: usage.KindTracker, Values: []float64{5}, Count: 1, Total: 5, Average: 5, Aggregate: 5, Unit: "km"},
	}

	prompt := BuildPrompt("  What was my longest running streak? ", parser.Intent{
		Outcome:    parser.IntentMatched,
		Tags:       []string{"run"},
		WindowDays: 30,
		Focus:      parser.FocusPeriods,
	}, records, asOf)

	assert.Contains(t, prompt, "Today is Friday, May 10, 2024.")
	assert.Contains(t, prompt, "The question covers the last 30 days.")
	assert.Contains(t, prompt, "The question is about: run.")
	assert.Contains(t, prompt, "Focus on periods of consecutive days.")
	assert.Contains(t, prompt, "#run (tracker)\n- logged 1 time, total 5 km, average 5 km\n")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
	assert.Contains(t, prompt, "Question: What was my longest running streak?\n")
}

func TestBuildPromptAmbiguousAndUnparsed(t *testing.T) {
	asOf := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	ambiguous := BuildPrompt("how did I sleep", parser.Intent{
		Outcome:    parser.IntentAmbiguous,
		Candidates: []string{"sleep_hours", "sleep_quality"},
	}, nil, asOf)
	assert.Contains(t, ambiguous, "could refer to any of: sleep_hours, sleep_quality")
	assert.NotContains(t, ambiguous, "The question covers")
	assert.Contains(t, ambiguous, "No tracked data in this window.")

	unparsed := BuildPrompt("am I ok", parser.Intent{Outcome: parser.IntentUnparsed, Focus: parser.FocusIntervals}, nil, asOf)
	assert.Contains(t, unparsed, "all trackers are included")
	assert.Contains(t, unparsed, "Focus on the time between entries.")
}

func TestTailBoundsLists(t *testing.T) {
	items := make([]int, maxListed+5)
	for i := range items {
		items[i] = i
	}
	got := tail(items)
	assert.Len(t, got, maxListed)
	assert.Equal(t, 5, got[0])
}
