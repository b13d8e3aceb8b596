package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Initialize(":memory:"))
	t.Cleanup(func() {
		_ = Close()
		DB = nil
	})
}
