package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("marks new key as processed", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, tenantID, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "new key should return true")
	})

	t.Run("returns false for repeated key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, tenantID, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, tenantID, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew, "repeated key should return false")
	})

	t.Run("same key is independent across tenants", func(t *testing.T) {
		otherTenant := uuid.New()

		isNew, err := store.MarkProcessed(ctx, tenantID, "shared-key", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, otherTenant, "shared-key", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "another tenant should be able to reuse the key")
	})

	t.Run("allows reuse after expiration", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, tenantID, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, tenantID, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "expired key should be reusable")
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns false for unknown key", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, tenantID, "unknown-key")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("returns true for recorded key", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, tenantID, "recorded-key", time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, tenantID, "recorded-key")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("returns false for expired key", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, tenantID, "expired-key", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, tenantID, "expired-key")
		require.NoError(t, err)
		assert.False(t, processed, "expired key should not count as processed")
	})
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
