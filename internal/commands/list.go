package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/models"
	"github.com/balkashynov/tracklog/internal/parser"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List logged entries",
	Long: `List logged entries, oldest first.

Examples:
  tracklog ls                 # configured window (default 90 days)
  tracklog ls --days 7d
  tracklog ls --tag coffee --json`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		q, err := windowQuery(cmd, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		q.Tag, _ = cmd.Flags().GetString("tag")

		logs, err := db.QueryLogs(q)
		if err != nil {
			fmt.Printf("Error fetching logs: %v\n", err)
			return
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			renderLogsJSON(logs)
			return
		}
		renderLogsTable(logs)
	}),
}

// windowQuery builds a log query from --days and --limit, bounded by the configuration
func windowQuery(cmd *cobra.Command, now time.Time) (db.LogQuery, error) {
	days := cfg.WindowDays
	if raw, _ := cmd.Flags().GetString("days"); raw != "" {
		d, err := parser.ParseWindow(raw)
		if err != nil {
			return db.LogQuery{}, err
		}
		days = d
	}

	limit := cfg.QueryLimit
	if l, err := cmd.Flags().GetInt("limit"); err == nil && l > 0 && l < limit {
		limit = l
	}

	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	return db.LogQuery{Start: start, End: now, Limit: limit}, nil
}

func renderLogsJSON(logs []models.LogEntry) {
	type jsonLog struct {
		ID   uint      `json:"id"`
		UID  string    `json:"uid"`
		End  time.Time `json:"end"`
		Note string    `json:"note"`
		Tags []string  `json:"tags"`
	}

	out := make([]jsonLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, jsonLog{ID: l.ID, UID: l.UID, End: l.End, Note: l.Note, Tags: l.Tags()})
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(jsonBytes))
}

func renderLogsTable(logs []models.LogEntry) {
	if len(logs) == 0 {
		fmt.Println("No entries found. Use 'tracklog log \"#coffee\"' to log your first one.")
		return
	}

	fmt.Printf("%-5s %-18s %-16s %s\n", "ID", "WHEN", "AT", "NOTE")
	fmt.Println(strings.Repeat("-", 80))

	for _, l := range logs {
		note := l.Note
		if len(note) > 38 {
			note = note[:35] + "..."
		}
		fmt.Printf("%-5d %-18s %-16s %s\n", l.ID, humanize.Time(l.End), l.End.Format("Jan 2 15:04"), note)
	}
	fmt.Printf("\n%d entries\n", len(logs))
}

func init() {
	listCmd.Flags().StringP("days", "d", "", "Window: 30, 30d, 2w, 3m")
	listCmd.Flags().StringP("tag", "t", "", "Only entries with this tag")
	listCmd.Flags().IntP("limit", "l", 0, "Maximum entries (most recent kept)")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
