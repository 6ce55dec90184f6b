package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// AuthenticationError means the provider credential is missing or rejected.
// Never retryable.
type AuthenticationError struct {
	Provider string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: missing or invalid API credential", e.Provider)
}

// RateLimitError is a provider-side 429, distinct from the local limiter
// which throttles proactively. Retryable by the caller.
type RateLimitError struct {
	Provider string
	Err      error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: provider rate limit exceeded: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// TimeoutError means the call exceeded its deadline. Retryable.
type TimeoutError struct {
	Provider string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// PlatformError covers every other provider failure, with a Retryable flag
// (server 5xx = retryable, other 4xx = not).
type PlatformError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *PlatformError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: platform error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: platform error: %v", e.Provider, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// Classify converts a raw provider failure into the adapter taxonomy.
// statusCode is 0 when the transport never produced an HTTP status.
func Classify(providerName string, statusCode int, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: providerName, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Provider: providerName, Err: err}
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &AuthenticationError{Provider: providerName}
	case statusCode == http.StatusTooManyRequests:
		return &RateLimitError{Provider: providerName, Err: err}
	case statusCode >= 500:
		return &PlatformError{Provider: providerName, StatusCode: statusCode, Retryable: true, Err: err}
	default:
		return &PlatformError{Provider: providerName, StatusCode: statusCode, Retryable: false, Err: err}
	}
}

// IsRetryable reports whether the caller may sensibly retry the call.
func IsRetryable(err error) bool {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
