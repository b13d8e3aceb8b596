package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/models"
	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/usage"
)

var statsCmd = &cobra.Command{
	Use:   "stats [tags...]",
	Short: "Show usage statistics per tag",
	Long: `Show counts, totals, streaks and the time between entries for every tag
logged in the window. Naming tags shows their details.

Examples:
  tracklog stats
  tracklog stats coffee sleep --days 2w
  tracklog stats --json`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		now := time.Now()
		records, err := loadStats(cmd, args, now)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			jsonBytes, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling JSON: %v\n", err)
				return
			}
			fmt.Println(string(jsonBytes))
			return
		}

		renderStatsTable(records)
		if len(args) > 0 {
			for _, tag := range usage.SortedTags(records) {
				fmt.Println()
				renderStatsDetails(records[tag])
			}
		}
	}),
}

func loadStats(cmd *cobra.Command, tags []string, now time.Time) (map[string]*usage.UsageRecord, error) {
	q, err := windowQuery(cmd, now)
	if err != nil {
		return nil, err
	}

	rows, err := db.GetTrackables()
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		wanted := make([]string, 0, len(tags))
		for _, t := range tags {
			n, err := parser.NormalizeTag(t)
			if err != nil {
				return nil, err
			}
			wanted = append(wanted, n)
		}
		rows = lo.Filter(rows, func(t models.Trackable, _ int) bool { return lo.Contains(wanted, t.Tag) })
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: %s", db.ErrTrackableNotFound, strings.Join(wanted, ", "))
		}
	}

	logs, err := db.QueryLogs(q)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("entries", len(logs)).Int("trackables", len(rows)).Msg("aggregating")

	trackables := models.TrackablesToUsage(rows)
	entries := models.LogsToUsage(logs)
	records, err := usage.AggregateUsage(entries, trackables)
	if err != nil {
		return nil, err
	}
	usage.MergeActive(records, usage.ResolveActiveContexts(now, trackables, entries), now)
	return records, nil
}

func renderStatsTable(records map[string]*usage.UsageRecord) {
	if len(records) == 0 {
		fmt.Println("Nothing logged in this window.")
		return
	}

	fmt.Printf("%-20s %-6s %10s %10s %10s %-22s %s\n", "TAG", "COUNT", "TOTAL", "AVG", "AGG", "AVG GAP", "LONGEST RUN")
	fmt.Println(strings.Repeat("-", 96))

	for _, tag := range usage.SortedTags(records) {
		rec := records[tag]
		gap := rec.AverageInterval
		if gap == "" {
			gap = "-"
		}
		run := "-"
		if rec.LongestPeriod != nil {
			run = dayCount(rec.LongestPeriod.DurationDays)
		}
		fmt.Printf("%-20s %-6d %10s %10s %10s %-22s %s\n",
			tagLabel(rec), rec.Count, num(rec.Total), num(rec.Average), num(rec.Aggregate), gap, run)
	}
}

func renderStatsDetails(rec *usage.UsageRecord) {
	fmt.Printf("%s (%s)\n", tagLabel(rec), rec.Kind)
	if rec.DisplayValue != "" {
		fmt.Printf("  Active:     %s\n", rec.DisplayValue)
	}
	if rec.Unit != "" {
		fmt.Printf("  Unit:       %s\n", rec.Unit)
	}
	fmt.Printf("  Days:       %s\n", strings.Join(lo.Uniq(rec.Dates), ", "))
	if len(rec.ExpandedDates) > 0 {
		fmt.Printf("  Covers:     %s\n", strings.Join(rec.ExpandedDates, ", "))
	}
	if rec.PeriodCount > 0 {
		fmt.Printf("  Periods:    %d\n", rec.PeriodCount)
		for _, p := range rec.Periods {
			fmt.Printf("    %s → %s  %s\n", p.Start, p.End, dayCount(p.DurationDays))
		}
	}
	if rec.AverageInterval != "" {
		fmt.Printf("  Avg gap:    %s\n", rec.AverageInterval)
	}
	for _, e := range rec.Entries {
		line := "    " + e.Formatted
		if e.Value != nil {
			line += "  " + num(*e.Value)
		}
		fmt.Println(line)
	}
}

func tagLabel(rec *usage.UsageRecord) string {
	if rec.Kind == usage.KindContext {
		return "+" + rec.Tag
	}
	return "#" + rec.Tag
}

func num(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}

func init() {
	statsCmd.Flags().StringP("days", "d", "", "Window: 30, 30d, 2w, 3m")
	statsCmd.Flags().IntP("limit", "l", 0, "Maximum entries read (most recent kept)")
	statsCmd.Flags().Bool("json", false, "Output as JSON")
}
