package assistant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

var (
	// ErrTimeout is returned when the completion service does not answer in time
	ErrTimeout = errors.New("assistant request timed out")
	// ErrEmptyResponse is returned when the service answers with no text
	ErrEmptyResponse = errors.New("assistant returned an empty response")
)

// UpstreamError is a non-2xx answer from the completion service
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assistant upstream error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("assistant upstream error: status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is worth another attempt
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode >= 500
}

// Completer turns a prompt into generated text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ClientConfig configures the Ollama client
type ClientConfig struct {
	BaseURL        string
	Model          string
	Timeout        time.Duration
	Retries        int
	InitialBackoff time.Duration // zero means 500ms
}

// Client calls the Ollama /api/generate endpoint without streaming.
type Client struct {
	http    *resty.Client
	model   string
	retries int
	initial time.Duration
	log     zerolog.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient creates an Ollama client
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "http://localhost:11434"
	}
	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		http:    c,
		model:   cfg.Model,
		retries: retries,
		initial: initial,
		log:     log.With().Str("component", "ollama").Str("model", cfg.Model).Logger(),
	}
}

// Complete sends the prompt and returns the generated text. Transport errors
// and 5xx answers are retried with exponential backoff; everything else fails
// on the first attempt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("empty prompt")
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.initial
	exp.Multiplier = 2
	exp.MaxInterval = 10 * c.initial
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.retries)), ctx)

	attempt := 0
	var text string
	op := func() error {
		attempt++
		out, err := c.generate(ctx, prompt)
		if err == nil {
			text = out
			return nil
		}

		var upstream *UpstreamError
		switch {
		case errors.Is(err, ErrTimeout), errors.Is(err, ErrEmptyResponse):
			return backoff.Permanent(err)
		case errors.As(err, &upstream) && !upstream.Retryable():
			return backoff.Permanent(err)
		case ctx.Err() != nil:
			return backoff.Permanent(err)
		}

		c.log.Warn().Err(err).Int("attempt", attempt).Msg("completion failed, retrying")
		return err
	}

	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}

	c.log.Debug().Int("attempts", attempt).Int("chars", len(text)).Msg("completion received")
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	var apiErr errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&generateRequest{Model: c.model, Prompt: prompt, Stream: false}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/generate")
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("ollama request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return "", &UpstreamError{StatusCode: resp.StatusCode(), Message: msg}
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
