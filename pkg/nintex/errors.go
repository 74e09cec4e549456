// Package nintex provides a client for the Nintex Workflow Cloud API
// with automatic credential refresh, bounded retry for transient network
// faults, and exhaustive pagination across list endpoints.
package nintex

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, nintex.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("nintex: bad request")
	ErrUnauthorized = errors.New("nintex: unauthorized")
	ErrForbidden    = errors.New("nintex: forbidden")
	ErrNotFound     = errors.New("nintex: not found")
	ErrConflict     = errors.New("nintex: conflict")
	ErrThrottled    = errors.New("nintex: throttled")
	ErrServerError  = errors.New("nintex: server error")
)

// APIError wraps a sentinel error with the HTTP status code and the raw
// response body so callers can diagnose rejected requests.
type APIError struct {
	StatusCode int
	Body       string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nintex: HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AuthError reports a failed token exchange: an identity endpoint error,
// a response missing the expected fields, or an unparseable expiry.
// Credential exchange failures are never retried automatically; the raw
// response body is carried for diagnosis.
type AuthError struct {
	Reason string
	Body   string
}

func (e *AuthError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("nintex: token exchange failed: %s", e.Reason)
	}

	return fmt.Sprintf("nintex: token exchange failed: %s: %s", e.Reason, e.Body)
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}
