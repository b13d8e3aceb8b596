package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNote(t *testing.T) {
	parsed := ParseNote("Slept badly  #Sleep(5.5) #coffee #coffee(x) +sick and 1+1 +sick")

	assert.Equal(t, "Slept badly #Sleep(5.5) #coffee #coffee(x) +sick and 1+1 +sick", parsed.Note)
	require.Len(t, parsed.Trackers, 3)
	assert.Equal(t, "sleep", parsed.Trackers[0].Tag)
	require.NotNil(t, parsed.Trackers[0].Value)
	assert.InDelta(t, 5.5, *parsed.Trackers[0].Value, 0.0001)
	assert.Nil(t, parsed.Trackers[1].Value)
	assert.Nil(t, parsed.Trackers[2].Value)
	assert.Equal(t, []string{"sick"}, parsed.Contexts)
	assert.Equal(t, []string{"Invalid value 'x' for #coffee"}, parsed.Errors)
	assert.Equal(t, []string{"sleep", "coffee"}, parsed.TrackerTags())
	assert.True(t, parsed.HasTags())
}

func TestParseNoteWithoutTags(t *testing.T) {
	parsed := ParseNote("just a thought")
	assert.False(t, parsed.HasTags())
	assert.Empty(t, parsed.Errors)
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#Coffee", "coffee", false},
		{"+sick", "sick", false},
		{" sleep_quality ", "sleep_quality", false},
		{"two words", "", true},
		{"#", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeTag(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.False(t, IsValidTag(tt.in))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 45, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"now", now},
		{"2024-05-01 08:30", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 14, 45, 0, 0, time.UTC)},
		{"08:30", time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)},
		{"20 min ago", now.Add(-20 * time.Minute)},
		{"2 hours ago", now.Add(-2 * time.Hour)},
		{"3 days ago", time.Date(2024, 5, 7, 14, 45, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseWhen(tt.in, now)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%q: got %v want %v", tt.in, got, tt.want)
	}

	_, err := ParseWhen("next tuesday", now)
	assert.Error(t, err)
}

func TestParseWindow(t *testing.T) {
	tests := map[string]int{"30": 30, "30d": 30, "2w": 14, "3m": 90, "1 week": 7}
	for in, want := range tests {
		got, err := ParseWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "0", "abc", "5y", "9999"} {
		_, err := ParseWindow(bad)
		assert.Error(t, err, bad)
	}
}

func TestExtractIntentExplicitTag(t *testing.T) {
	intent := ExtractIntent("How often did I have #coffee in the last 2 weeks?", []string{"coffee", "sleep"})

	assert.Equal(t, IntentMatched, intent.Outcome)
	assert.Equal(t, []string{"coffee"}, intent.Tags)
	assert.Equal(t, 14, intent.WindowDays)
	assert.Equal(t, FocusIntervals, intent.Focus)
}

func TestExtractIntentDeduplicatesTags(t *testing.T) {
	intent := ExtractIntent("#water #coffee and more #water, then +sick", []string{"water", "coffee", "sick"})

	assert.Equal(t, IntentMatched, intent.Outcome)
	assert.Equal(t, []string{"coffee", "sick", "water"}, intent.Tags)

	assert.Equal(t, []string{"a", "b"}, uniqueSorted([]string{"b", "a", "b", "a"}))
}

func TestExtractIntentWholeWord(t *testing.T) {
	intent := ExtractIntent("What was my longest streak of runs?", []string{"run", "sleep_quality"})
	assert.Equal(t, IntentMatched, intent.Outcome)
	assert.Equal(t, []string{"run"}, intent.Tags)
	assert.Equal(t, FocusPeriods, intent.Focus)

	intent = ExtractIntent("how is my sleep quality this week", []string{"run", "sleep_quality"})
	assert.Equal(t, []string{"sleep_quality"}, intent.Tags)
	assert.Equal(t, 7, intent.WindowDays)
}

func TestExtractIntentAmbiguous(t *testing.T) {
	intent := ExtractIntent("how much did I sleep", []string{"sleep_hours", "sleep_quality", "coffee"})

	assert.Equal(t, IntentAmbiguous, intent.Outcome)
	assert.Empty(t, intent.Tags)
	assert.Equal(t, []string{"sleep_hours", "sleep_quality"}, intent.Candidates)
	assert.Equal(t, "ambiguous", intent.Outcome.String())
}

func TestExtractIntentUnparsed(t *testing.T) {
	intent := ExtractIntent("am I doing ok?", []string{"coffee"})

	assert.Equal(t, IntentUnparsed, intent.Outcome)
	assert.Empty(t, intent.Tags)
	assert.Equal(t, 0, intent.WindowDays)
	assert.Equal(t, FocusGeneral, intent.Focus)
}
