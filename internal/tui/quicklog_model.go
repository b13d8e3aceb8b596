package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tracklog/internal/parser"
)

// QuickLogModel is a single-line prompt that stores one log entry
type QuickLogModel struct {
	width int

	input  textinput.Model
	parsed parser.ParsedNote
	at     time.Time
	save   NoteLogger

	validationErr string
	err           error
	saved         bool
	cancelled     bool
}

// NewQuickLogModel creates a quick-log prompt logging at the given time
func NewQuickLogModel(prefill string, at time.Time, save NoteLogger) QuickLogModel {
	in := newNoteInput(prefill)
	in.Focus()
	return QuickLogModel{
		input:  in,
		parsed: parser.ParseNote(prefill),
		at:     at,
		save:   save,
	}
}

// Init initializes the model
func (m QuickLogModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m QuickLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.parsed = parser.ParseNote(m.input.Value())
	m.validationErr = ""
	return m, cmd
}

func (m QuickLogModel) submit() (QuickLogModel, tea.Cmd) {
	note := strings.TrimSpace(m.input.Value())
	if note == "" {
		m.validationErr = "Note is required"
		return m, nil
	}
	if len(m.parsed.Errors) > 0 {
		m.validationErr = "Fix the tag values before saving"
		return m, nil
	}

	if err := m.save(note, m.at); err != nil {
		m.err = err
		return m, nil
	}
	m.saved = true
	return m, tea.Quit
}

// View renders the prompt with a live preview of the parsed tags
func (m QuickLogModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(title.Render("Log an entry"))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).
		Render("  " + m.at.Format("Mon Jan 2 15:04")))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(renderNotePreview(m.parsed))
	b.WriteString("\n")

	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	if m.validationErr != "" {
		b.WriteString("\n" + errStyle.Render(m.validationErr) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true)
	b.WriteString("\n" + help.Render("enter save · esc cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Render(b.String())
}
