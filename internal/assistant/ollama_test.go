package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, retries int, timeout time.Duration, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		Model:          "test-model",
		Timeout:        timeout,
		Retries:        retries,
		InitialBackoff: time.Millisecond,
	}, zerolog.Nop())
	return c, &calls
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestCompleteSuccess(t *testing.T) {
	c, calls := newTestClient(t, 0, time.Second, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "how much coffee?", req.Prompt)
		assert.False(t, req.Stream)

		writeJSON(w, http.StatusOK, generateResponse{Model: req.Model, Response: "  Three cups.\n", Done: true})
	})

	text, err := c.Complete(context.Background(), "how much coffee?")
	require.NoError(t, err)
	assert.Equal(t, "Three cups.", text)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, 2, time.Second, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "model is loading"})
			return
		}
		writeJSON(w, http.StatusOK, generateResponse{Response: "ok", Done: true})
	})

	text, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestCompleteGivesUpAfterRetries(t *testing.T) {
	c, calls := newTestClient(t, 1, time.Second, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "boom"})
	})

	_, err := c.Complete(context.Background(), "prompt")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	assert.Equal(t, "boom", upstream.Message)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	c, calls := newTestClient(t, 3, time.Second, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "model 'test-model' not found"})
	})

	_, err := c.Complete(context.Background(), "prompt")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.False(t, upstream.Retryable())
	assert.Contains(t, err.Error(), "not found")
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestCompleteEmptyResponse(t *testing.T) {
	c, calls := newTestClient(t, 3, time.Second, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, generateResponse{Response: "   ", Done: true})
	})

	_, err := c.Complete(context.Background(), "prompt")
	assert.True(t, errors.Is(err, ErrEmptyResponse))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestCompleteTimeout(t *testing.T) {
	c, calls := newTestClient(t, 3, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})

	_, err := c.Complete(context.Background(), "prompt")
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	c, calls := newTestClient(t, 0, time.Second, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Complete(context.Background(), "  ")
	assert.Error(t, err)
	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}
