package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/tui"
)

var logCmd = &cobra.Command{
	Use:   "log [note]",
	Short: "Log a note with #trackers and +contexts",
	Long: `Log a note. Tags inside the note are recorded:

  #tag          Tracker reference (tally trackers count 1)
  #tag(5.5)     Tracker with a value
  +tag          Context (e.g. +sick, +travel)

Unknown #tags are created as tally trackers and unknown +tags as one-day contexts.
With no arguments an interactive prompt opens.

Examples:
  tracklog log "Slept badly #sleep(5.5) #coffee +sick"
  tracklog log "#run(8)" --at "2024-05-01 07:30"
  tracklog log "#coffee" --at "20 min ago"`,
	Args: cobra.ArbitraryArgs,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		atFlag, _ := cmd.Flags().GetString("at")
		noUI, _ := cmd.Flags().GetBool("no-ui")

		at, err := parser.ParseWhen(atFlag, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		note := strings.Join(args, " ")
		if strings.TrimSpace(note) == "" {
			if noUI {
				fmt.Println("Error: a note is required with --no-ui")
				return
			}
			if err := tui.RunQuickLog("", at, saveNote); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		result, err := db.CreateLog(note, at)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		log.Info().Str("uid", result.Entry.UID).Strs("tags", result.Entry.Tags()).Msg("logged entry")

		fmt.Printf("Logged #%d %s\n", result.Entry.ID, humanize.Time(result.Entry.End))
		for _, v := range result.Entry.Values {
			prefix := "#"
			for _, t := range result.Trackables {
				if t.Tag == v.Tag && t.IsContext() {
					prefix = "+"
				}
			}
			if v.Value != nil {
				fmt.Printf("  %s%s %s\n", prefix, v.Tag, humanize.FtoaWithDigits(*v.Value, 2))
			} else {
				fmt.Printf("  %s%s\n", prefix, v.Tag)
			}
		}
	}),
}

// saveNote adapts CreateLog for the TUI
func saveNote(note string, at time.Time) error {
	result, err := db.CreateLog(note, at)
	if err != nil {
		return err
	}
	log.Info().Str("uid", result.Entry.UID).Strs("tags", result.Entry.Tags()).Msg("logged entry")
	return nil
}

func init() {
	logCmd.Flags().String("at", "", "When: 2024-05-01 08:30, 2024-05-01, 08:30, 20 min ago")
	logCmd.Flags().Bool("no-ui", false, "Never open the interactive prompt")
}
