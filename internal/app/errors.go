package service

import "errors"

// Sentinel error kinds returned by the service.
var (
	// ErrNoSession means the session id is unknown, expired or no longer
	// accepted by the platform. Callers should send the user to sign in.
	ErrNoSession = errors.New("no active session")

	// ErrMissingCredentials is returned when username or password is blank.
	ErrMissingCredentials = errors.New("username and password are required")

	ErrNotStarted = errors.New("service not started")
	ErrNoPlatform = errors.New("platform client not configured")
)
