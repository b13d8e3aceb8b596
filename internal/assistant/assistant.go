// Package assistant answers natural-language questions about tracked data
// by aggregating the relevant logs and asking a language model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/balkashynov/tracklog/internal/db"
	"github.com/balkashynov/tracklog/internal/models"
	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/usage"
)

// ErrEmptyQuestion is returned by Ask for a blank question
var ErrEmptyQuestion = errors.New("question is empty")

// Assistant ties the stored logs to a Completer
type Assistant struct {
	completer  Completer
	log        zerolog.Logger
	windowDays int
	limit      int
}

// Answer is the outcome of a question
type Answer struct {
	Question string
	Intent   parser.Intent
	Records  map[string]*usage.UsageRecord
	Prompt   string
	Text     string
}

// New creates an Assistant. windowDays bounds how far back any question
// looks and limit caps the number of log entries read.
func New(completer Completer, log zerolog.Logger, windowDays, limit int) *Assistant {
	if windowDays <= 0 {
		windowDays = db.DefaultWindowDays
	}
	if limit <= 0 {
		limit = db.DefaultQueryLimit
	}
	return &Assistant{
		completer:  completer,
		log:        log.With().Str("component", "assistant").Logger(),
		windowDays: windowDays,
		limit:      limit,
	}
}

// Prepare reads the logs relevant to a question and builds the prompt
// without calling the model.
func (a *Assistant) Prepare(question string, asOf time.Time) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	rows, err := db.GetTrackables()
	if err != nil {
		return nil, fmt.Errorf("failed to load trackables: %w", err)
	}
	known := lo.Map(rows, func(t models.Trackable, _ int) string { return t.Tag })
	intent := parser.ExtractIntent(question, known)

	window := a.windowDays
	if intent.WindowDays > 0 && intent.WindowDays < window {
		window = intent.WindowDays
	}

	// Calendar-day window ending with asOf's day
	y, m, d := asOf.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location()).AddDate(0, 0, -(window - 1))
	logs, err := db.QueryLogs(db.LogQuery{Start: start, End: asOf, Limit: a.limit})
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}

	selected := rows
	switch intent.Outcome {
	case parser.IntentMatched:
		selected = filterTrackables(rows, intent.Tags)
	case parser.IntentAmbiguous:
		selected = filterTrackables(rows, intent.Candidates)
	}

	trackables := models.TrackablesToUsage(selected)
	entries := models.LogsToUsage(logs)
	records, err := usage.AggregateUsage(entries, trackables)
	if err != nil {
		return nil, err
	}

	a.log.Debug().
		Str("intent", intent.Outcome.String()).
		Strs("tags", intent.Tags).
		Int("window_days", window).
		Int("entries", len(entries)).
		Int("records", len(records)).
		Msg("prepared question")

	return &Answer{
		Question: question,
		Intent:   intent,
		Records:  records,
		Prompt:   BuildPrompt(question, intent, records, asOf),
	}, nil
}

// Ask answers a question about the data logged up to asOf
func (a *Assistant) Ask(ctx context.Context, question string, asOf time.Time) (*Answer, error) {
	answer, err := a.Prepare(question, asOf)
	if err != nil {
		return nil, err
	}

	text, err := a.completer.Complete(ctx, answer.Prompt)
	if err != nil {
		return nil, err
	}
	answer.Text = text
	return answer, nil
}

func filterTrackables(rows []models.Trackable, tags []string) []models.Trackable {
	return lo.Filter(rows, func(t models.Trackable, _ int) bool {
		return lo.Contains(tags, t.Tag)
	})
}
