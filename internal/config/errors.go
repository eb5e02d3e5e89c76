package config

import "errors"

// Errors returned by Load. ErrLoadConfig covers unreadable sources (dotenv,
// YAML, environment); ErrInvalidConfig covers values rejected by Validate.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
