package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/models"
	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/tui"
	"github.com/balkashynov/tracklog/internal/usage"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's usage and active contexts",
	Long: `Show what was logged on a day, including multi-day contexts that are
still running. Opens an interactive view by default.

Examples:
  tracklog today
  tracklog today --date 2024-05-01 --no-ui`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		asOf := time.Now()
		if raw, _ := cmd.Flags().GetString("date"); raw != "" {
			t, err := parser.ParseWhen(raw, asOf)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			asOf = t
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if !noUI && !jsonOutput {
			if err := tui.RunToday(asOf, loadToday, saveNote); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		records, err := loadToday(asOf)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if jsonOutput {
			jsonBytes, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling JSON: %v\n", err)
				return
			}
			fmt.Println(string(jsonBytes))
			return
		}

		fmt.Println(asOf.Format("Monday, January 2"))
		renderStatsTable(records)
	}),
}

// loadToday reads enough history to resolve contexts still active on asOf's day
func loadToday(asOf time.Time) (map[string]*usage.UsageRecord, error) {
	rows, err := db.GetTrackables()
	if err != nil {
		return nil, err
	}

	y, m, d := asOf.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location())
	logs, err := db.QueryLogs(db.LogQuery{
		Start: dayStart.AddDate(0, 0, -(cfg.WindowDays - 1)),
		End:   dayStart.AddDate(0, 0, 1).Add(-time.Second),
		Limit: cfg.QueryLimit,
	})
	if err != nil {
		return nil, err
	}

	return usage.Today(asOf, models.TrackablesToUsage(rows), models.LogsToUsage(logs))
}

func init() {
	todayCmd.Flags().String("date", "", "Day to show: 2024-05-01, 3 days ago")
	todayCmd.Flags().Bool("no-ui", false, "Print a table instead of the interactive view")
	todayCmd.Flags().Bool("json", false, "Output as JSON")
}
