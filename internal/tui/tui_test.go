package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tracklog/internal/usage"
)

var day = time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m tea.Model, s string) tea.Model {
	t.Helper()
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

func sampleRecords() map[string]*usage.UsageRecord {
	return map[string]*usage.UsageRecord{
		"sick":   {Tag: "sick", Kind: usage.KindContext, Count: 1, DisplayValue: "2 days left"},
		"coffee": {Tag: "coffee", Kind: usage.KindTracker, Count: 3, Total: 3, Aggregate: 3, Unit: "cups"},
	}
}

func TestShimmerSweepAndPause(t *testing.T) {
	s := NewShimmer(ShimmerConfig{Enabled: true, Speed: 100 * time.Millisecond, WidthRatio: 0.25, Cycle: time.Second, Pause: time.Second})
	now := time.Now()

	for i := 0; i < 20; i++ {
		s.Advance(now)
	}
	assert.True(t, s.paused)
	assert.InDelta(t, 1.25, s.pos, 1e-9)

	s.Advance(now.Add(500 * time.Millisecond))
	assert.True(t, s.paused, "still resting")

	s.Advance(now.Add(2 * time.Second))
	assert.False(t, s.paused)
	assert.InDelta(t, -0.25, s.pos, 1e-9)

	s.Reset()
	assert.Zero(t, s.pos)
}

func TestShimmerReduceMotion(t *testing.T) {
	s := NewShimmer(ShimmerConfig{Enabled: true, ReduceMotion: true})
	assert.False(t, s.Active())
	assert.Nil(t, s.Tick())

	s.Advance(time.Now())
	assert.Zero(t, s.pos)
	assert.Contains(t, s.Render("coffee", 20), "coffee")
	assert.Equal(t, "", s.Render("", 20))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "sleep_q...", truncate("sleep_quality", 10))
	assert.Equal(t, "run", truncate("run", 10))
}

func TestTodayModelLoadsAndNavigates(t *testing.T) {
	m := NewTodayModel(day, func(time.Time) (map[string]*usage.UsageRecord, error) {
		return sampleRecords(), nil
	}, nil)

	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, _ = model.Update(todayLoadedMsg{asOf: day, records: sampleRecords()})

	tm := model.(TodayModel)
	require.Len(t, tm.records, 2)
	assert.Equal(t, "coffee", tm.records[0].Tag, "records are sorted by tag")
	assert.Equal(t, 0, tm.selected)

	model, _ = model.Update(keyRunes("j"))
	assert.Equal(t, 1, model.(TodayModel).selected)
	model, _ = model.Update(keyRunes("j"))
	assert.Equal(t, 1, model.(TodayModel).selected, "selection stops at the last row")

	view := model.View()
	assert.Contains(t, view, "2 days left")
	assert.Contains(t, view, "3 cups")
}

func TestTodayModelIgnoresStaleLoads(t *testing.T) {
	m := NewTodayModel(day, nil, nil)
	model, _ := m.Update(todayLoadedMsg{asOf: day.AddDate(0, 0, -1), records: sampleRecords()})
	assert.False(t, model.(TodayModel).loaded)
}

func TestTodayModelDayNavigation(t *testing.T) {
	m := NewTodayModel(day, func(time.Time) (map[string]*usage.UsageRecord, error) { return nil, nil }, nil)

	model, cmd := m.Update(keyRunes("l"))
	assert.Nil(t, cmd, "cannot move past today")
	assert.True(t, day.Equal(model.(TodayModel).asOf))

	model, cmd = model.Update(keyRunes("h"))
	require.NotNil(t, cmd)
	assert.Equal(t, "2024-05-09", usage.DayOf(model.(TodayModel).asOf))

	msg := cmd().(todayLoadedMsg)
	assert.Equal(t, "2024-05-09", usage.DayOf(msg.asOf))
}

func TestTodayModelQuickLog(t *testing.T) {
	var saved []string
	var savedAt time.Time
	m := NewTodayModel(day.AddDate(0, 0, -1),
		func(time.Time) (map[string]*usage.UsageRecord, error) { return nil, nil },
		func(note string, at time.Time) error {
			saved = append(saved, note)
			savedAt = at
			return nil
		})
	m.today = day

	var model tea.Model = m
	model, _ = model.Update(keyRunes("n"))
	assert.Equal(t, FocusInput, model.(TodayModel).focus)

	model = typeText(t, model, "#coffee(x)")
	assert.NotEmpty(t, model.(TodayModel).parsed.Errors)
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "invalid notes are not saved")

	for i := 0; i < len("(x)"); i++ {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	model, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, FocusList, model.(TodayModel).focus)

	done := cmd().(noteSavedMsg)
	require.NoError(t, done.err)
	assert.Equal(t, []string{"#coffee"}, saved)
	assert.True(t, day.AddDate(0, 0, -1).Equal(savedAt), "past days log at the viewed time")

	model, cmd = model.Update(done)
	assert.NotNil(t, cmd, "saving reloads the day")
	assert.Equal(t, "Logged: #coffee", model.(TodayModel).status)
}

func TestQuickLogModel(t *testing.T) {
	var got string
	m := NewQuickLogModel("", day, func(note string, at time.Time) error {
		got = note
		return nil
	})

	var model tea.Model = m
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Note is required", model.(QuickLogModel).validationErr)

	model = typeText(t, model, "ran #run(5) +travel")
	qm := model.(QuickLogModel)
	require.Len(t, qm.parsed.Trackers, 1)
	assert.Equal(t, []string{"travel"}, qm.parsed.Contexts)
	assert.Contains(t, model.View(), "+travel")

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, model.(QuickLogModel).saved)
	assert.Equal(t, "ran #run(5) +travel", got)
}

func TestQuickLogModelSaveError(t *testing.T) {
	m := NewQuickLogModel("#coffee", day, func(string, time.Time) error { return errors.New("disk full") })

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, model.(QuickLogModel).saved)
	assert.EqualError(t, model.(QuickLogModel).err, "disk full")
}

func TestAskModel(t *testing.T) {
	m := NewAskModel(context.Background(), "how much coffee?", func(context.Context) (string, error) {
		return "Three cups.", nil
	})
	assert.Contains(t, m.View(), "how much coffee?")

	model, cmd := m.Update(answerMsg{text: "Three cups."})
	assert.NotNil(t, cmd)
	text, err := model.(AskModel).Result()
	require.NoError(t, err)
	assert.Equal(t, "Three cups.", text)
	assert.Equal(t, "", model.View())
}

func TestAskModelCancel(t *testing.T) {
	m := NewAskModel(context.Background(), "q", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, err := model.(AskModel).Result()
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Error(t, model.(AskModel).ctx.Err())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "7s", formatElapsed(7*time.Second+300*time.Millisecond))
	assert.Equal(t, "2m05s", formatElapsed(125*time.Second))
}
