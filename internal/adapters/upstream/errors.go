package upstream

import "errors"

// Sentinel error kinds for platform calls.
var (
	// ErrInvalidCredentials is returned when sign-in is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized means the token is missing, expired or not accepted.
	ErrUnauthorized = errors.New("upstream unauthorized")
	// ErrUpstream covers transport failures, non-2xx answers and GraphQL errors.
	ErrUpstream = errors.New("upstream request failed")
)
