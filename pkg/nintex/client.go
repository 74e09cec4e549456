package nintex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Retry and timeout constants. The backoff between attempts starts at
// backoffFloor and doubles up to backoffCap. Only transport-level faults
// (connection establishment, timeouts) are retried; HTTP error statuses
// surface immediately.
const (
	maxAttempts    = 5
	backoffFloor   = 4 * time.Second
	backoffCap     = 10 * time.Second
	requestTimeout = 30 * time.Second
	userAgent      = "nacwrap-go/0.1"
)

// TokenSource provides bearer tokens for authenticated requests. Defined
// at the consumer per Go convention "accept interfaces, return structs".
// CredentialSource is the real implementation.
type TokenSource interface {
	Token() (string, error)
}

// Client is an HTTP client for the Nintex Workflow Cloud API.
// It handles request construction, authentication, retry with
// exponential backoff, and error classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger

	// sleepFunc is called to wait between retries. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Nintex API client. baseURL is the tenant base URL,
// e.g. "https://us.nintex.io". A nil httpClient gets a default with a
// 30-second request timeout.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, logger *slog.Logger) *Client {
	if tokens == nil {
		panic("nintex: NewClient requires a TokenSource")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
		sleepFunc:  timeSleep,
	}
}

// Do executes an HTTP request against the API. The path is appended to
// the client's base URL; query parameters, when present, are encoded
// onto it. For non-nil bodies, Content-Type is set to application/json
// and the body is rewound before every attempt.
//
// The token is obtained once, before the first attempt. Transport
// failures are retried up to maxAttempts total attempts; any non-2xx
// response returns an *APIError immediately, without retry.
// The caller is responsible for closing the response body on success.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body io.ReadSeeker) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("nintex: obtaining token: %w", err)
	}

	attempt := 1

	for {
		if body != nil {
			if _, seekErr := body.Seek(0, io.SeekStart); seekErr != nil {
				return nil, fmt.Errorf("nintex: rewinding request body for retry: %w", seekErr)
			}
		}

		resp, err := c.doOnce(ctx, method, reqURL, tok, body)
		if err != nil {
			// Context cancellation is not retryable.
			if ctx.Err() != nil {
				return nil, fmt.Errorf("nintex: request canceled: %w", ctx.Err())
			}

			if attempt < maxAttempts {
				backoff := calcBackoff(attempt)
				c.logger.Warn("retrying after network error",
					slog.String("method", method),
					slog.String("path", path),
					slog.Int("attempt", attempt),
					slog.Duration("backoff", backoff),
					slog.String("error", err.Error()),
				)

				if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
					return nil, fmt.Errorf("nintex: request canceled: %w", sleepErr)
				}

				attempt++

				continue
			}

			return nil, fmt.Errorf("nintex: %s %s failed after %d attempts: %w", method, path, maxAttempts, err)
		}

		// 2xx is success.
		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			c.logger.Debug("request succeeded",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
			)

			return resp, nil
		}

		// Any non-2xx status reflects a real request problem (bad ID,
		// permission, validation) unlikely to resolve by repetition, so
		// it surfaces immediately with the body attached.
		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		c.logger.Debug("request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(errBody),
			Err:        classifyStatus(resp.StatusCode),
		}
	}
}

// doOnce executes a single HTTP request (no retry).
func (c *Client) doOnce(ctx context.Context, method, reqURL, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// calcBackoff computes the wait before the next attempt: exponential
// from the 4-second floor, doubling, capped at 10 seconds (4s, 8s, 10s, 10s).
func calcBackoff(attempt int) time.Duration {
	backoff := backoffFloor << (attempt - 1)
	if backoff > backoffCap {
		backoff = backoffCap
	}

	return backoff
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Client.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
