package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend/internal/domain/order"
)

func amazonPayload() map[string]any {
	return map[string]any{
		"amazon_order_id": "AMZ-2024-001",
		"order_date":      "2024-06-01T10:00:00Z",
		"status":          "shipped",
	}
}

func TestRedisWebhookDedup_MarkSeen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisWebhookDedupWithClient(client, time.Hour)
	ctx := context.Background()

	seen, err := store.MarkSeen(ctx, order.PlatformAmazon, "AMZ-2024-001", amazonPayload())
	require.NoError(t, err)
	assert.False(t, seen, "first delivery is new")

	seen, err = store.MarkSeen(ctx, order.PlatformAmazon, "AMZ-2024-001", amazonPayload())
	require.NoError(t, err)
	assert.True(t, seen, "identical re-delivery is suppressed")

	// a changed payload is a genuine update, not a duplicate
	updated := amazonPayload()
	updated["status"] = "delivered"
	seen, err = store.MarkSeen(ctx, order.PlatformAmazon, "AMZ-2024-001", updated)
	require.NoError(t, err)
	assert.False(t, seen)

	// same payload for a different platform order is unrelated
	seen, err = store.MarkSeen(ctx, order.PlatformAmazon, "AMZ-2024-002", amazonPayload())
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisWebhookDedup_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisWebhookDedupWithClient(client, time.Minute)
	ctx := context.Background()

	_, err := store.MarkSeen(ctx, order.PlatformSwiggy, "SWG-1", amazonPayload())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	seen, err := store.MarkSeen(ctx, order.PlatformSwiggy, "SWG-1", amazonPayload())
	require.NoError(t, err)
	assert.False(t, seen, "expired keys no longer suppress")
}

func TestInMemoryWebhookDedup(t *testing.T) {
	store := NewInMemoryWebhookDedup(time.Hour)
	ctx := context.Background()

	seen, err := store.MarkSeen(ctx, order.PlatformBlinkit, "BLK-1", amazonPayload())
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.MarkSeen(ctx, order.PlatformBlinkit, "BLK-1", amazonPayload())
	require.NoError(t, err)
	assert.True(t, seen)
}
