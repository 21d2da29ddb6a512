package cache

import (
	"context"
	"time"
)

// Store is a TTL'd byte cache. Get returns (nil, false) on miss or expiry;
// store errors never surface to callers, the cache is best-effort.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
