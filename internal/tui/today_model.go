package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/tracklog/internal/parser"
	"github.com/balkashynov/tracklog/internal/usage"
)

// Focus represents what UI element has focus
type Focus int

const (
	FocusList Focus = iota
	FocusInput
)

// TodayModel shows one day's usage with active contexts and a quick-log input
type TodayModel struct {
	width  int
	height int

	asOf  time.Time
	today time.Time
	load  TodayLoader
	save  NoteLogger

	records  []*usage.UsageRecord
	selected int
	loaded   bool

	focus  Focus
	input  textinput.Model
	parsed parser.ParsedNote

	shimmer *Shimmer
	status  string
	err     error
}

type todayLoadedMsg struct {
	asOf    time.Time
	records map[string]*usage.UsageRecord
	err     error
}

type noteSavedMsg struct {
	note string
	err  error
}

// NewTodayModel creates the Today view for asOf's day
func NewTodayModel(asOf time.Time, load TodayLoader, save NoteLogger) TodayModel {
	return TodayModel{
		asOf:    asOf,
		today:   asOf,
		load:    load,
		save:    save,
		focus:   FocusList,
		input:   newNoteInput(""),
		shimmer: NewShimmer(DefaultShimmerConfig()),
	}
}

// Init loads the day and starts the shimmer
func (m TodayModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.shimmer.Tick())
}

func (m TodayModel) loadCmd() tea.Cmd {
	asOf, load := m.asOf, m.load
	return func() tea.Msg {
		records, err := load(asOf)
		return todayLoadedMsg{asOf: asOf, records: records, err: err}
	}
}

func (m TodayModel) saveCmd(note string) tea.Cmd {
	at, save := m.logTime(), m.save
	return func() tea.Msg {
		return noteSavedMsg{note: note, err: save(note, at)}
	}
}

// logTime is now for today, and the same clock time on earlier days
func (m TodayModel) logTime() time.Time {
	if usage.DayOf(m.asOf) == usage.DayOf(m.today) {
		return time.Now()
	}
	return m.asOf
}

// Update handles messages
func (m TodayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.shimmer.Advance(time.Now())
		return m, m.shimmer.Tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-12)
		return m, nil

	case todayLoadedMsg:
		if !msg.asOf.Equal(m.asOf) {
			return m, nil // stale
		}
		m.loaded = true
		m.err = msg.err
		m.records = sortedRecords(msg.records)
		if m.selected >= len(m.records) {
			m.selected = max(0, len(m.records)-1)
		}
		return m, nil

	case noteSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Logged: %s", msg.note)
		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.focus == FocusInput {
			return m.handleInputKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

func (m TodayModel) handleListKeys(msg tea.KeyMsg) (TodayModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.shimmer.Reset()
		}

	case "down", "j":
		if m.selected < len(m.records)-1 {
			m.selected++
			m.shimmer.Reset()
		}

	case "left", "h":
		return m.shiftDay(-1)

	case "right", "l":
		if usage.DayOf(m.asOf) < usage.DayOf(m.today) {
			return m.shiftDay(1)
		}

	case "n", "a":
		m.focus = FocusInput
		m.status = ""
		cmd := m.input.Focus()
		return m, cmd

	case "r":
		return m, m.loadCmd()
	}
	return m, nil
}

func (m TodayModel) handleInputKeys(msg tea.KeyMsg) (TodayModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.focus = FocusList
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		note := strings.TrimSpace(m.input.Value())
		if note == "" {
			return m, nil
		}
		if len(m.parsed.Errors) > 0 {
			return m, nil
		}
		m.input.SetValue("")
		m.parsed = parser.ParsedNote{}
		m.input.Blur()
		m.focus = FocusList
		return m, m.saveCmd(note)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.parsed = parser.ParseNote(m.input.Value())
	return m, cmd
}

func (m TodayModel) shiftDay(days int) (TodayModel, tea.Cmd) {
	m.asOf = m.asOf.AddDate(0, 0, days)
	m.selected = 0
	m.loaded = false
	m.status = ""
	m.shimmer.Reset()
	return m, m.loadCmd()
}

// View renders the TUI
func (m TodayModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderUsageTable(leftWidth),
		" ",
		m.renderDetails(rightWidth),
	)

	var bottom string
	if m.focus == FocusInput {
		bottom = m.renderInputBar()
	} else {
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

func (m TodayModel) renderUsageTable(width int) string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	title := m.asOf.Format("Monday, Jan 2")
	if usage.DayOf(m.asOf) == usage.DayOf(m.today) {
		title = "Today · " + title
	}
	b.WriteString(header.Render(title))
	b.WriteString("\n\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true)
	switch {
	case !m.loaded:
		b.WriteString(muted.Render("Loading..."))
	case len(m.records) == 0:
		b.WriteString(muted.Render("Nothing logged. Press n to add an entry."))
	default:
		tagWidth := max(12, width-30)
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Padding(0, 1).
			Render(fmt.Sprintf("%-*s %-14s %s", tagWidth, "TAG", "VALUE", "COUNT")))
		b.WriteString("\n\n")

		for i, rec := range m.records {
			tag := tagLabel(rec)
			if i == m.selected {
				tag = m.shimmer.Render(tag, tagWidth)
			} else {
				tag = tagStyle(rec).Render(truncate(tag, tagWidth))
			}
			pad := tagWidth - lipgloss.Width(tag)
			row := fmt.Sprintf("%s%s %-14s %d", tag, strings.Repeat(" ", max(0, pad)), valueText(rec), rec.Count)

			if i == m.selected {
				b.WriteString(lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color(ColorAccentMain)).
					Padding(0, 1).
					Render(row))
			} else {
				b.WriteString("  " + row)
			}
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error()))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m TodayModel) renderDetails(width int) string {
	var b strings.Builder

	if len(m.records) == 0 || m.selected >= len(m.records) {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width).
			Render("tracklog"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			MarginTop(2).
			Render("Select a tag to view details"))
	} else {
		b.WriteString(renderRecordDetails(m.records[m.selected], width))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func renderRecordDetails(rec *usage.UsageRecord, width int) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	line := func(name, v string) {
		b.WriteString(label.Render(name+": ") + value.Render(v) + "\n")
	}

	b.WriteString(tagStyle(rec).Width(width).Render(tagLabel(rec)))
	b.WriteString("\n\n")

	line("Kind", string(rec.Kind))
	if rec.DisplayValue != "" {
		b.WriteString(label.Render("Active: "))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Bold(true).Render(rec.DisplayValue))
		b.WriteString("\n")
	}
	line("Count", fmt.Sprintf("%d", rec.Count))
	if rec.Kind == usage.KindTracker {
		line("Total", withUnit(rec.Total, rec.Unit))
		line("Average", withUnit(rec.Average, rec.Unit))
	}
	if rec.AverageInterval != "" {
		line("Avg gap", rec.AverageInterval)
	}
	if rec.LongestPeriod != nil {
		line("Longest run", fmt.Sprintf("%s → %s (%dd)", rec.LongestPeriod.Start, rec.LongestPeriod.End, rec.LongestPeriod.DurationDays))
	}

	if len(rec.Entries) > 0 {
		b.WriteString("\n" + label.Render("Entries:") + "\n")
		noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Width(width - 2)
		for _, e := range rec.Entries {
			b.WriteString(value.Render(e.End.Format("15:04")) + "  ")
			b.WriteString(noteStyle.Render(truncate(e.Note, width-10)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m TodayModel) renderInputBar() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(m.input.View()))
	b.WriteString("\n ")
	b.WriteString(renderNotePreview(m.parsed))
	return b.String()
}

func (m TodayModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/↓ nav · ←/→ day · n log · r reload · q/esc quit")
}

func sortedRecords(records map[string]*usage.UsageRecord) []*usage.UsageRecord {
	out := make([]*usage.UsageRecord, 0, len(records))
	for _, tag := range usage.SortedTags(records) {
		out = append(out, records[tag])
	}
	return out
}

func tagLabel(rec *usage.UsageRecord) string {
	if rec.Kind == usage.KindContext {
		return "+" + rec.Tag
	}
	return "#" + rec.Tag
}

func tagStyle(rec *usage.UsageRecord) lipgloss.Style {
	color := ColorTracker
	if rec.Kind == usage.KindContext {
		color = ColorContext
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// valueText is the one-line summary shown in the table
func valueText(rec *usage.UsageRecord) string {
	if rec.DisplayValue != "" {
		return rec.DisplayValue
	}
	if rec.Kind == usage.KindContext {
		return "active"
	}
	return withUnit(rec.Aggregate, rec.Unit)
}

func withUnit(v float64, unit string) string {
	s := humanize.FtoaWithDigits(v, 2)
	if unit != "" {
		s += " " + unit
	}
	return s
}
