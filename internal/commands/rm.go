package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/db"
)

var rmCmd = &cobra.Command{
	Use:   "rm <entry-id | #tag | +tag>",
	Short: "Remove a log entry or a trackable definition",
	Long: `Remove a log entry by ID, or a tracker/context definition by tag.
Removing a definition keeps the logged entries that reference it.

Examples:
  tracklog rm 42
  tracklog rm "#coffee"
  tracklog rm +sick`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		target := strings.TrimSpace(args[0])

		if id, err := strconv.ParseUint(target, 10, 32); err == nil {
			if err := db.DeleteLog(uint(id)); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Removed entry #%d\n", id)
			return
		}

		if err := db.DeleteTrackable(target); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Removed %s\n", target)
	}),
}
