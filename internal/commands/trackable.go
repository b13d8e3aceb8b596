package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/models"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Manage trackers (#tags)",
}

var trackerAddCmd = &cobra.Command{
	Use:   "add <tag>",
	Short: "Define a tracker",
	Long: `Define a tracker before logging it, to set its value type, unit and default.

Examples:
  tracklog tracker add sleep --type numeric --unit h --agg mean
  tracklog tracker add water --type numeric --unit ml --default 250`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		valueType, _ := cmd.Flags().GetString("type")
		unit, _ := cmd.Flags().GetString("unit")
		label, _ := cmd.Flags().GetString("label")
		agg, _ := cmd.Flags().GetString("agg")

		req := db.CreateTrackableRequest{
			Tag:         args[0],
			Label:       label,
			Kind:        models.KindTracker,
			ValueType:   valueType,
			Unit:        unit,
			Aggregation: agg,
		}
		if raw, _ := cmd.Flags().GetString("default"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				fmt.Printf("Error: invalid default %q\n", raw)
				return
			}
			req.Default = &v
		}

		t, err := db.CreateTrackable(req)
		if err != nil {
			fmt.Printf("Error creating tracker: %v\n", err)
			return
		}
		fmt.Printf("Created tracker #%s (%s, %s)\n", t.Tag, t.ValueType, t.Aggregation)
	}),
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage contexts (+tags)",
}

var contextAddCmd = &cobra.Command{
	Use:   "add <tag>",
	Short: "Define a context",
	Long: `Define a context. A context with --days N covers the day it is logged
and the N-1 following days.

Examples:
  tracklog context add sick --days 3
  tracklog context add travel`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		label, _ := cmd.Flags().GetString("label")

		t, err := db.CreateTrackable(db.CreateTrackableRequest{
			Tag:      args[0],
			Label:    label,
			Kind:     models.KindContext,
			Duration: days,
		})
		if err != nil {
			fmt.Printf("Error creating context: %v\n", err)
			return
		}
		fmt.Printf("Created context +%s (%s)\n", t.Tag, dayCount(t.Duration))
	}),
}

var trackablesCmd = &cobra.Command{
	Use:     "trackables",
	Aliases: []string{"tags"},
	Short:   "List trackers and contexts",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		trackables, err := db.GetTrackables()
		if err != nil {
			fmt.Printf("Error fetching trackables: %v\n", err)
			return
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			jsonBytes, err := json.MarshalIndent(trackables, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling JSON: %v\n", err)
				return
			}
			fmt.Println(string(jsonBytes))
			return
		}

		if len(trackables) == 0 {
			fmt.Println("No trackables yet. Log a note with #tags or +tags to create some.")
			return
		}

		fmt.Printf("%-22s %-8s %-8s %-6s %-8s %s\n", "TAG", "KIND", "TYPE", "UNIT", "AGG", "DEFAULT/DAYS")
		fmt.Println(strings.Repeat("-", 70))
		for _, t := range trackables {
			if t.IsContext() {
				fmt.Printf("%-22s %-8s %-8s %-6s %-8s %s\n", "+"+t.Tag, t.Kind, "-", "-", "-", dayCount(t.Duration))
				continue
			}
			def := "-"
			if t.Default != nil {
				def = humanize.FtoaWithDigits(*t.Default, 2)
			}
			unit := t.Unit
			if unit == "" {
				unit = "-"
			}
			fmt.Printf("%-22s %-8s %-8s %-6s %-8s %s\n", "#"+t.Tag, t.Kind, t.ValueType, unit, t.Aggregation, def)
		}
	}),
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func init() {
	trackerCmd.AddCommand(trackerAddCmd)
	contextCmd.AddCommand(contextAddCmd)

	trackerAddCmd.Flags().String("type", "tally", "Value type: tally, numeric, range, choice, note")
	trackerAddCmd.Flags().String("unit", "", "Unit shown with values, e.g. h, ml, km")
	trackerAddCmd.Flags().String("default", "", "Value used when a reference has none")
	trackerAddCmd.Flags().String("agg", "sum", "Aggregation: sum or mean")
	trackerAddCmd.Flags().String("label", "", "Display label")

	contextAddCmd.Flags().Int("days", 1, "Days the context covers")
	contextAddCmd.Flags().String("label", "", "Display label")

	trackablesCmd.Flags().Bool("json", false, "Output as JSON")
}
