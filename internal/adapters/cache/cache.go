// Package cache stores dashboard snapshots between requests.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrEncode is returned when a value cannot be marshalled or unmarshalled.
var ErrEncode = errors.New("cache encode failed")

// Cache stores JSON-encoded values with a TTL.
type Cache interface {
	// Get decodes the value stored under key into dest. A miss is reported
	// as (false, nil).
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Name identifies the backend in stats and logs.
	Name() string

	Close() error
}
