package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tracklog/internal/assistant"
	"github.com/balkashynov/tracklog/internal/config"
	"github.com/balkashynov/tracklog/internal/db"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	cfg = config.NewForTesting()
	require.NoError(t, db.Initialize(cfg.DBPath))
	t.Cleanup(func() {
		_ = db.Close()
		db.DB = nil
	})
}

func windowCmd(t *testing.T, days string, limit int) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().String("days", "", "")
	cmd.Flags().Int("limit", 0, "")
	require.NoError(t, cmd.Flags().Set("days", days))
	require.NoError(t, cmd.Flags().Set("limit", fmt.Sprint(limit)))
	return cmd
}

func TestWindowQuery(t *testing.T) {
	cfg = config.NewForTesting()
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.Local)

	q, err := windowQuery(windowCmd(t, "", 0), now)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 11, 0, 0, 0, 0, time.Local).Equal(q.Start), "90 calendar days including today, got %v", q.Start)
	assert.True(t, now.Equal(q.End))
	assert.Equal(t, 1000, q.Limit)

	q, err = windowQuery(windowCmd(t, "1w", 5), now)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 4, 0, 0, 0, 0, time.Local).Equal(q.Start))
	assert.Equal(t, 5, q.Limit)

	q, err = windowQuery(windowCmd(t, "", 5000), now)
	require.NoError(t, err)
	assert.Equal(t, 1000, q.Limit, "the configured cap cannot be raised per command")

	_, err = windowQuery(windowCmd(t, "forever", 0), now)
	assert.Error(t, err)
}

func TestLoadToday(t *testing.T) {
	setupTestDB(t)
	y, m, d := time.Now().Date()
	now := time.Date(y, m, d, 12, 0, 0, 0, time.Local)

	_, err := db.CreateTrackable(db.CreateTrackableRequest{Tag: "sick", Kind: "context", Duration: 3})
	require.NoError(t, err)
	_, err = db.CreateLog("+sick", now.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = db.CreateLog("#coffee", now.Add(-time.Minute))
	require.NoError(t, err)

	records, err := loadToday(now)
	require.NoError(t, err)
	require.Contains(t, records, "sick")
	require.Contains(t, records, "coffee")
	assert.Equal(t, "2 days left", records["sick"].DisplayValue)
	assert.Equal(t, 1, records["coffee"].Count)
}

func TestLoadStatsFiltersTags(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, err := db.CreateLog("#coffee #tea", now.Add(-time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
	}

	records, err := loadStats(windowCmd(t, "", 0), []string{"#coffee"}, now)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records["coffee"].Count)
	assert.Equal(t, "1 hour", records["coffee"].AverageInterval)

	_, err = loadStats(windowCmd(t, "", 0), []string{"water"}, now)
	assert.True(t, errors.Is(err, db.ErrTrackableNotFound))
}

func TestDescribeAskError(t *testing.T) {
	assert.Equal(t, "cancelled", describeAskError(context.Canceled, "m"))
	assert.Contains(t, describeAskError(fmt.Errorf("%w: deadline", assistant.ErrTimeout), "m"), "TRACKLOG_ASK_TIMEOUT")
	assert.Equal(t, `model "llama3.2" not found (run 'ollama pull llama3.2')`,
		describeAskError(&assistant.UpstreamError{StatusCode: 404}, "llama3.2"))
	assert.Contains(t, describeAskError(&assistant.UpstreamError{StatusCode: 500, Message: "boom"}, "m"), "boom")
	refused := &url.Error{Op: "Post", URL: "http://localhost:11434/api/generate", Err: &net.OpError{
		Op:  "dial",
		Net: "tcp",
		Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
	}}
	assert.Contains(t, describeAskError(fmt.Errorf("ollama request: %w", refused), "m"), "TRACKLOG_OLLAMA_URL")
	assert.Equal(t, "dial tcp: connection refused", describeAskError(errors.New("dial tcp: connection refused"), "m"))
	assert.Equal(t, "other", describeAskError(errors.New("other"), "m"))
}

func TestDayCount(t *testing.T) {
	assert.Equal(t, "1 day", dayCount(1))
	assert.Equal(t, "3 days", dayCount(3))
}
