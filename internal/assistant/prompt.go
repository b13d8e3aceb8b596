package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/usage"
)

// maxListed bounds the per-record interval and timestamp lists in a prompt
const maxListed = 30

// FormatUsage renders usage records as plain text for a language model
func FormatUsage(records map[string]*usage.UsageRecord) string {
	if len(records) == 0 {
		return "No tracked data in this window.\n"
	}

	var b strings.Builder
	for _, tag := range usage.SortedTags(records) {
		writeRecord(&b, records[tag])
		b.WriteString("\n")
	}
	return b.String()
}

func writeRecord(b *strings.Builder, rec *usage.UsageRecord) {
	prefix := "#"
	if rec.Kind == usage.KindContext {
		prefix = "+"
	}
	fmt.Fprintf(b, "%s%s (%s)\n", prefix, rec.Tag, rec.Kind)

	unit := ""
	if rec.Unit != "" {
		unit = " " + rec.Unit
	}
	fmt.Fprintf(b, "- logged %s, total %s%s, average %s%s\n",
		plural(rec.Count, "time"), number(rec.Total), unit, number(rec.Average), unit)
	if rec.Aggregate != rec.Total {
		fmt.Fprintf(b, "- aggregate %s%s\n", number(rec.Aggregate), unit)
	}

	if len(rec.Dates) > 0 {
		fmt.Fprintf(b, "- logged on: %s\n", strings.Join(lo.Uniq(rec.Dates), ", "))
	}
	if len(rec.ExpandedDates) > 0 {
		fmt.Fprintf(b, "- context covers: %s\n", strings.Join(rec.ExpandedDates, ", "))
	}

	if rec.PeriodCount > 0 {
		fmt.Fprintf(b, "- %s of consecutive days\n", plural(rec.PeriodCount, "period"))
		if rec.LastPeriod != nil {
			fmt.Fprintf(b, "- last period: %s\n", periodText(*rec.LastPeriod))
		}
		if rec.LongestPeriod != nil {
			fmt.Fprintf(b, "- longest period: %s\n", periodText(*rec.LongestPeriod))
		}
	}

	if rec.AverageInterval != "" {
		fmt.Fprintf(b, "- average time between entries: %s\n", rec.AverageInterval)
	}
	if len(rec.Intervals) > 0 {
		gaps := lo.Map(tail(rec.Intervals), func(iv usage.Interval, _ int) string { return iv.Formatted })
		fmt.Fprintf(b, "- time between entries: %s\n", strings.Join(gaps, "; "))
	}
	if len(rec.Entries) > 0 {
		stamps := lo.Map(tail(rec.Entries), func(e usage.TimedEntry, _ int) string {
			if e.Value != nil {
				return fmt.Sprintf("%s (%s)", e.Formatted, number(*e.Value))
			}
			return e.Formatted
		})
		fmt.Fprintf(b, "- entries: %s\n", strings.Join(stamps, "; "))
	}
}

// BuildPrompt assembles the full prompt for a question
func BuildPrompt(question string, intent parser.Intent, records map[string]*usage.UsageRecord, asOf time.Time) string {
	var b strings.Builder

	b.WriteString("You are a personal tracking assistant. Answer the user's question using only the tracked data below. ")
	b.WriteString("Be brief and concrete. If the data does not answer the question, say so.\n\n")
	fmt.Fprintf(&b, "Today is %s.\n", asOf.Format("Monday, January 2, 2006"))
	if intent.WindowDays > 0 {
		fmt.Fprintf(&b, "The question covers the last %s.\n", plural(intent.WindowDays, "day"))
	}

	switch intent.Outcome {
	case parser.IntentMatched:
		fmt.Fprintf(&b, "The question is about: %s.\n", strings.Join(intent.Tags, ", "))
	case parser.IntentAmbiguous:
		fmt.Fprintf(&b, "The question could refer to any of: %s. If the answer differs between them, say which one you used.\n",
			strings.Join(intent.Candidates, ", "))
	default:
		b.WriteString("The question does not name a specific tracker; all trackers are included.\n")
	}

	switch intent.Focus {
	case parser.FocusIntervals:
		b.WriteString("Focus on the time between entries.\n")
	case parser.FocusPeriods:
		b.WriteString("Focus on periods of consecutive days.\n")
	}

	b.WriteString("\nTracked data:\n")
	b.WriteString(FormatUsage(records))
	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", strings.TrimSpace(question))
	return b.String()
}

func periodText(p usage.Period) string {
	if p.Start == p.End {
		return fmt.Sprintf("%s (1 day)", p.Start)
	}
	return fmt.Sprintf("%s to %s (%s)", p.Start, p.End, plural(p.DurationDays, "day"))
}

func number(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func tail[T any](items []T) []T {
	if len(items) <= maxListed {
		return items
	}
	return items[len(items)-maxListed:]
}
