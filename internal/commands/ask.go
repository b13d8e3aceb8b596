package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tracklog/internal/assistant"
	"github.com/balkashynov/tracklog/internal/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your data",
	Long: `Ask a natural-language question. The relevant logs are aggregated and sent
to a local Ollama model (TRACKLOG_OLLAMA_URL, TRACKLOG_OLLAMA_MODEL).

Examples:
  tracklog ask "how often did I have coffee in the last 2 weeks?"
  tracklog ask "what was my longest running streak?"
  tracklog ask "how did I sleep this week" --dry-run`,
	Args: cobra.MinimumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")
		now := time.Now()

		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = cfg.OllamaModel
		}
		client := assistant.NewClient(assistant.ClientConfig{
			BaseURL: cfg.OllamaURL,
			Model:   model,
			Timeout: cfg.AskTimeout,
			Retries: cfg.AskRetries,
		}, log)
		a := assistant.New(client, log, cfg.WindowDays, cfg.QueryLimit)

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			prepared, err := a.Prepare(question, now)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Intent: %s %s\n\n", prepared.Intent.Outcome, strings.Join(append(prepared.Intent.Tags, prepared.Intent.Candidates...), ", "))
			fmt.Println(prepared.Prompt)
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		run := func(ctx context.Context) (string, error) {
			answer, err := a.Ask(ctx, question, now)
			if err != nil {
				return "", err
			}
			return answer.Text, nil
		}

		var text string
		var err error
		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			text, err = run(ctx)
		} else {
			text, err = tui.RunAsk(ctx, question, run)
		}
		if err != nil {
			log.Debug().Err(err).Msg("ask failed")
			fmt.Printf("Error: %s\n", describeAskError(err, model))
			return
		}
		fmt.Println(text)
	}),
}

// describeAskError turns assistant failures into actionable messages
func describeAskError(err error, model string) string {
	var upstream *assistant.UpstreamError
	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, assistant.ErrTimeout):
		return "the model did not answer in time (raise TRACKLOG_ASK_TIMEOUT)"
	case errors.Is(err, assistant.ErrEmptyResponse):
		return "the model returned an empty answer, try rephrasing the question"
	case errors.Is(err, assistant.ErrEmptyQuestion):
		return err.Error()
	case errors.As(err, &upstream) && upstream.StatusCode == 404:
		return fmt.Sprintf("model %q not found (run 'ollama pull %s')", model, model)
	case errors.As(err, &upstream):
		return upstream.Error()
	case errors.Is(err, syscall.ECONNREFUSED):
		return "could not reach Ollama; is it running? (TRACKLOG_OLLAMA_URL)"
	}
	return err.Error()
}

func init() {
	askCmd.Flags().String("model", "", "Ollama model (defaults to TRACKLOG_OLLAMA_MODEL)")
	askCmd.Flags().Bool("no-ui", false, "Do not show progress")
	askCmd.Flags().Bool("dry-run", false, "Print the prompt without calling the model")
}
