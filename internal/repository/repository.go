package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// ContentCache stores rendered catalog payloads keyed by content identity.
// Implementations must treat Get/Set as best effort from the caller's point
// of view: a miss or a backend failure both mean "fetch from origin".
type ContentCache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
