package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AskFunc runs a question and returns the answer text
type AskFunc func(ctx context.Context) (string, error)

// AskModel shows a progress line while a question is answered
type AskModel struct {
	width int

	question string
	run      AskFunc
	ctx      context.Context
	cancel   context.CancelFunc

	started time.Time
	elapsed time.Duration
	shimmer *Shimmer

	answer    string
	err       error
	done      bool
	cancelled bool
}

// elapsedTickMsg is sent every second to update the elapsed time
type elapsedTickMsg struct{}

type answerMsg struct {
	text string
	err  error
}

// NewAskModel creates the progress model. The context is cancelled when the
// user quits before the answer arrives.
func NewAskModel(parent context.Context, question string, run AskFunc) AskModel {
	ctx, cancel := context.WithCancel(parent)
	return AskModel{
		question: question,
		run:      run,
		ctx:      ctx,
		cancel:   cancel,
		started:  time.Now(),
		shimmer:  NewShimmer(DefaultShimmerConfig()),
	}
}

// Init starts the question and the tickers
func (m AskModel) Init() tea.Cmd {
	ctx, run := m.ctx, m.run
	return tea.Batch(
		func() tea.Msg {
			text, err := run(ctx)
			return answerMsg{text: text, err: err}
		},
		tea.Tick(time.Second, func(time.Time) tea.Msg { return elapsedTickMsg{} }),
		m.shimmer.Tick(),
	)
}

// Update handles messages
func (m AskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		m.answer, m.err = msg.text, msg.err
		m.done = true
		m.cancel()
		return m, tea.Quit

	case elapsedTickMsg:
		m.elapsed = time.Since(m.started)
		if m.done {
			return m, nil
		}
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return elapsedTickMsg{} })

	case shimmerTickMsg:
		if m.done {
			return m, nil
		}
		m.shimmer.Advance(time.Now())
		return m, m.shimmer.Tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancel()
			m.cancelled = true
			m.done = true
			m.err = context.Canceled
			return m, tea.Quit
		}
	}

	return m, nil
}

// Result returns the answer once the model has finished
func (m AskModel) Result() (string, error) {
	return m.answer, m.err
}

// View renders the progress line
func (m AskModel) View() string {
	if m.done {
		return ""
	}

	width := m.width
	if width == 0 {
		width = 80
	}

	var b strings.Builder
	q := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	b.WriteString(q.Render("? " + truncate(m.question, width-4)))
	b.WriteString("\n")
	b.WriteString(m.shimmer.Render("Thinking...", width))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).
		Render(fmt.Sprintf("  %s", formatElapsed(m.elapsed))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true).Render("esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
