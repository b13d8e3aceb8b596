package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for tracklog",
	Long:  `Display detailed help for all tracklog commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
 _                  _    _
| |_ _ __ __ _  ___| | _| | ___   __ _
| __| '__/ _' |/ __| |/ / |/ _ \ / _' |
| |_| | | (_| | (__|   <| | (_) | (_| |
 \__|_|  \__,_|\___|_|\_\_|\___/ \__, |
                                 |___/

tracklog - quantified-self tracker

COMMANDS:

  log <note>              Log a note (interactive prompt with no note)
    --at                  When: 2024-05-01 08:30, 08:30, 20 min ago
    --no-ui               Never open the prompt

    Note syntax:
      #tag          Tracker reference (tally counts 1)
      #tag(5.5)     Tracker with a value
      +tag          Context (sick, travel, ...)

    Example:
      tracklog log "Rough night #sleep(5.5) #coffee #coffee +sick"

  today                   Today's usage and active contexts (interactive)
    --date                Another day: 2024-05-01, 3 days ago
    --no-ui               Plain table
    --json                JSON output

    Keys:
      ↑/↓           Navigate tags
      ←/→           Previous/next day
      n             Log an entry
      r             Reload
      esc/q         Quit

  ls                      List logged entries
    --days                Window: 30, 30d, 2w, 3m
    --tag                 Only entries with this tag
    --limit               Maximum entries
    --json                JSON output

  stats [tags...]         Counts, totals, streaks and gaps per tag
    --days                Window: 30, 30d, 2w, 3m
    --json                JSON output

  ask <question>          Ask a local Ollama model about your data
    --model               Override TRACKLOG_OLLAMA_MODEL
    --dry-run             Print the prompt only
    --no-ui               No progress display

  tracker add <tag>       Define a tracker
    --type                tally|numeric|range|choice|note
    --unit                Unit, e.g. h, ml, km
    --default             Value when a reference has none
    --agg                 sum|mean

  context add <tag>       Define a context
    --days                Days the context covers

  trackables              List trackers and contexts
  rm <id|#tag|+tag>       Remove an entry or a definition
  version                 Show version
  help                    Show this help

ENVIRONMENT:

  TRACKLOG_DB_PATH        Database file (default ~/.tracklog/tracklog.db)
  TRACKLOG_OLLAMA_URL     Ollama endpoint (default http://localhost:11434)
  TRACKLOG_OLLAMA_MODEL   Model for ask (default llama3.2)
  TRACKLOG_ASK_TIMEOUT    Per-request timeout (default 90s)
  TRACKLOG_ASK_RETRIES    Retries on server errors (default 2)
  TRACKLOG_WINDOW_DAYS    Default look-back window (default 90)
  TRACKLOG_QUERY_LIMIT    Maximum entries read (default 1000)
  TRACKLOG_LOG_LEVEL      debug|info|warn|error (default warn)

`)
}
