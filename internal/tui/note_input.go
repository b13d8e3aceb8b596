package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/tracklog/internal/parser"
)

// newNoteInput creates the themed text input used to type log notes
func newNoteInput(prefill string) textinput.Model {
	in := textinput.New()
	in.Placeholder = "Slept badly #sleep(5.5) #coffee +sick"
	in.CharLimit = 500
	in.Width = 60
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	in.SetValue(prefill)
	return in
}

// renderNotePreview shows the tags a note will record
func renderNotePreview(parsed parser.ParsedNote) string {
	if !parsed.HasTags() && len(parsed.Errors) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No tags yet. Use #tracker, #tracker(value) or +context")
	}

	trackerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTracker)).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorContext)).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	var chips []string
	for _, t := range parsed.Trackers {
		label := "#" + t.Tag
		if t.Value != nil {
			label += " " + humanize.FtoaWithDigits(*t.Value, 2)
		}
		chips = append(chips, trackerStyle.Render(label))
	}
	for _, c := range parsed.Contexts {
		chips = append(chips, contextStyle.Render("+"+c))
	}

	var b strings.Builder
	b.WriteString(strings.Join(chips, "  "))
	for _, e := range parsed.Errors {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", e)))
	}
	return b.String()
}
