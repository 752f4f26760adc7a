package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the short-lived key/value layer used for read-heavy lookups
// (admin analytics snapshots). It is never consulted inside a registration
// unit of work; the confirmed count is always re-derived from the store.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
