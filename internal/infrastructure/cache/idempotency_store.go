package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/infrastructure/config"
)

// IdempotencyStore remembers request idempotency keys so that a retried
// mutation is served its original outcome instead of being applied twice.
// Keys are scoped per tenant; two tenants may reuse the same key freely.
type IdempotencyStore interface {
	// MarkProcessed records the key and returns true if it was new.
	// A false return means the key was already seen within its TTL.
	MarkProcessed(ctx context.Context, tenantID uuid.UUID, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has already been recorded
	IsProcessed(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}

// NewIdempotencyStore builds a store from configuration. When a Redis host
// is configured the store is shared across instances; otherwise requests are
// deduplicated in process memory.
func NewIdempotencyStore(cfg config.RedisConfig) (IdempotencyStore, error) {
	if cfg.Host == "" {
		return NewInMemoryIdempotencyStore(), nil
	}
	return NewRedisIdempotencyStore(cfg)
}

func scopedKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + ":" + key
}
