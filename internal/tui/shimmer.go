package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// ShimmerConfig controls the highlight that sweeps across selected text
type ShimmerConfig struct {
	Enabled      bool
	ReduceMotion bool          // static highlight instead of animation
	Speed        time.Duration // frame interval
	WidthRatio   float64       // highlight width relative to the text
	Cycle        time.Duration // one sweep
	Pause        time.Duration // rest between sweeps
}

// DefaultShimmerConfig returns the default animation settings
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Enabled:    true,
		Speed:      100 * time.Millisecond,
		WidthRatio: 0.25,
		Cycle:      1800 * time.Millisecond,
		Pause:      500 * time.Millisecond,
	}
}

// shimmerTickMsg advances the shimmer by one frame
type shimmerTickMsg struct{}

// Shimmer tracks the highlight position as a fraction of the text length,
// running from -WidthRatio to 1+WidthRatio and then pausing.
type Shimmer struct {
	cfg      ShimmerConfig
	pos      float64
	paused   bool
	pausedAt time.Time

	base      colorful.Color
	highlight colorful.Color
}

// NewShimmer creates a shimmer at the start of its sweep
func NewShimmer(cfg ShimmerConfig) *Shimmer {
	base, _ := colorful.Hex(ColorShimmerBase)
	highlight, _ := colorful.Hex(ColorShimmerHighlight)
	if cfg.Speed <= 0 {
		cfg.Speed = 100 * time.Millisecond
	}
	return &Shimmer{cfg: cfg, base: base, highlight: highlight}
}

// Active reports whether the shimmer animates
func (s *Shimmer) Active() bool {
	return s.cfg.Enabled && !s.cfg.ReduceMotion
}

// Tick schedules the next frame. Nil when animation is off.
func (s *Shimmer) Tick() tea.Cmd {
	if !s.Active() {
		return nil
	}
	return tea.Tick(s.cfg.Speed, func(time.Time) tea.Msg {
		return shimmerTickMsg{}
	})
}

// Advance moves the highlight one frame
func (s *Shimmer) Advance(now time.Time) {
	if !s.Active() {
		return
	}

	if s.paused {
		if now.Sub(s.pausedAt) >= s.cfg.Pause {
			s.paused = false
			s.pos = -s.cfg.WidthRatio
		}
		return
	}

	frames := float64(s.cfg.Cycle) / float64(s.cfg.Speed)
	if frames < 1 {
		frames = 1
	}
	s.pos += (1 + 2*s.cfg.WidthRatio) / frames

	if end := 1 + s.cfg.WidthRatio; s.pos >= end {
		s.pos = end
		s.paused = true
		s.pausedAt = now
	}
}

// Reset restarts the sweep, used when the selection changes
func (s *Shimmer) Reset() {
	s.pos = 0
	s.paused = false
}

// Render colors text for the current frame, truncated to maxWidth cells
func (s *Shimmer) Render(text string, maxWidth int) string {
	text = truncate(text, maxWidth)
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	if !s.Active() {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(text)
	}

	n := float64(len(runes))
	center := s.pos * n
	sigma := math.Max(1, s.cfg.WidthRatio*n/2)

	var b strings.Builder
	for i, r := range runes {
		dx := float64(i) - center
		weight := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		color := s.base.BlendRgb(s.highlight, weight).Hex()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	return b.String()
}

func truncate(text string, width int) string {
	if width <= 0 {
		return text
	}
	return runewidth.Truncate(text, width, "...")
}
