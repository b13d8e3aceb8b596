package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tracklog/internal/usage"
)

// TodayLoader returns the usage records for asOf's day
type TodayLoader func(asOf time.Time) (map[string]*usage.UsageRecord, error)

// NoteLogger stores a note as a log entry at the given time
type NoteLogger func(note string, at time.Time) error

// RunToday starts the interactive Today view
func RunToday(asOf time.Time, load TodayLoader, save NoteLogger) error {
	p := tea.NewProgram(NewTodayModel(asOf, load, save), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunQuickLog starts the quick-log prompt
func RunQuickLog(prefill string, at time.Time, save NoteLogger) error {
	p := tea.NewProgram(NewQuickLogModel(prefill, at, save))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(QuickLogModel); ok {
		switch {
		case m.cancelled:
			fmt.Println("Cancelled.")
		case m.saved:
			fmt.Printf("Logged at %s\n", m.at.Format("Mon Jan 2 15:04"))
		case m.err != nil:
			return m.err
		}
	}
	return nil
}

// RunAsk shows progress while run answers the question
func RunAsk(ctx context.Context, question string, run AskFunc) (string, error) {
	p := tea.NewProgram(NewAskModel(ctx, question, run))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(AskModel)
	if !ok {
		return "", fmt.Errorf("unexpected model %T", finalModel)
	}
	return m.Result()
}
