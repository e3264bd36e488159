package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"personal-assistant/pkg/deepseek"
	"personal-assistant/pkg/gemini"
)

var (
	// ErrAllProvidersFailed indicates all providers failed to generate content
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrInvalidRequest indicates the request is malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderTimeout marks a call that hit its deadline or a network timeout.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProviderRateLimited marks an HTTP 429 from the provider. The manager
	// does not retry it and moves on to the next provider.
	ErrProviderRateLimited = errors.New("provider rate limited")
)

// ProviderError wraps provider-specific errors
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError wraps a client error, tagging timeouts and rate limits so
// callers can match them with errors.Is.
func newProviderError(provider string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, gemini.ErrRateLimited), errors.Is(err, deepseek.ErrRateLimited):
		err = fmt.Errorf("%w: %w", ErrProviderRateLimited, err)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		err = fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}
	return &ProviderError{Provider: provider, Err: err}
}
