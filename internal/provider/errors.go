package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrRateLimit indicates the provider returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrProviderDown indicates the provider is temporarily unavailable
	// (network failure, non-2xx response, timeout).
	ErrProviderDown = errors.New("provider unavailable")

	// ErrMalformedResponse indicates the provider returned a structurally
	// invalid response (no choices, undecodable body).
	ErrMalformedResponse = errors.New("malformed provider response")
)

// IsRetryable reports whether the error is transient and the request
// can be retried after a delay.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrProviderDown)
}
