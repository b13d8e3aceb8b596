package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/config"
	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg *config.Config
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "tracklog",
	Short: "A quantified-self tracker for the terminal",
	Long: `tracklog records short notes tagged with #trackers and +contexts, then turns
them into counts, averages, streaks and the time between entries.`,
	SilenceUsage: true,
}

// initDB loads the configuration and opens the database, exiting on failure
func initDB() {
	c, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = c
	log = logger.New(c.LogLevel)

	if err := db.Initialize(c.DBPath); err != nil {
		log.Error().Err(err).Str("path", c.DBPath).Msg("failed to open database")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Debug().Str("path", c.DBPath).Msg("database ready")
}

// withDB wraps a command function to initialize the database first
func withDB(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		initDB()
		defer db.Close()
		fn(cmd, args)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tracklog %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(trackerCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(trackablesCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
