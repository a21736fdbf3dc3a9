// Package cache holds Redis-backed stores shared across instances, with
// in-memory fallbacks for single-instance deployments and tests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/orderdesk/backend/internal/application/ingestion"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// DefaultDedupTTL is the retention window for webhook dedup keys
const DefaultDedupTTL = 24 * time.Hour

// RedisWebhookDedup suppresses duplicate webhook deliveries using Redis.
// Suitable for distributed deployments where multiple instances receive
// webhooks for the same platform.
type RedisWebhookDedup struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisWebhookDedup creates a new Redis-based webhook dedup store
func NewRedisWebhookDedup(cfg config.RedisConfig, ttl time.Duration) (*RedisWebhookDedup, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWebhookDedupWithClient(client, ttl), nil
}

// NewRedisWebhookDedupWithClient creates a store with an existing Redis client
func NewRedisWebhookDedupWithClient(client *redis.Client, ttl time.Duration) *RedisWebhookDedup {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &RedisWebhookDedup{
		client:    client,
		keyPrefix: "webhook:dedup:",
		ttl:       ttl,
	}
}

// MarkSeen marks a webhook delivery and reports whether the identical
// delivery was already seen within the retention window. SETNX keeps the
// check-and-mark atomic across instances.
func (s *RedisWebhookDedup) MarkSeen(ctx context.Context, platform order.Platform, platformOrderID string, payload map[string]any) (bool, error) {
	key := s.keyPrefix + dedupKey(platform, platformOrderID, payload)

	created, err := s.client.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark webhook delivery: %w", err)
	}
	return !created, nil
}

// Close closes the Redis client
func (s *RedisWebhookDedup) Close() error {
	return s.client.Close()
}

var _ ingestion.DedupStore = (*RedisWebhookDedup)(nil)

// dedupKey derives the delivery identity from the external order key and a
// hash of the payload, so a re-delivery of the same payload is suppressed
// while a genuine update (different payload) passes through.
func dedupKey(platform order.Platform, platformOrderID string, payload map[string]any) string {
	sum := sha256.New()
	if data, err := json.Marshal(payload); err == nil {
		sum.Write(data)
	}
	return fmt.Sprintf("%s:%s:%s", platform, platformOrderID, hex.EncodeToString(sum.Sum(nil))[:16])
}

type dedupEntry struct {
	expiresAt time.Time
}

// InMemoryWebhookDedup implements the dedup store with a local map. Suitable
// for single-instance deployments and tests.
type InMemoryWebhookDedup struct {
	mu      sync.Mutex
	entries map[string]dedupEntry
	ttl     time.Duration
}

// NewInMemoryWebhookDedup creates a new in-memory webhook dedup store
func NewInMemoryWebhookDedup(ttl time.Duration) *InMemoryWebhookDedup {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &InMemoryWebhookDedup{
		entries: make(map[string]dedupEntry),
		ttl:     ttl,
	}
}

// MarkSeen marks a webhook delivery and reports whether it was already seen
func (s *InMemoryWebhookDedup) MarkSeen(_ context.Context, platform order.Platform, platformOrderID string, payload map[string]any) (bool, error) {
	key := dedupKey(platform, platformOrderID, payload)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[key]; exists && now.Before(e.expiresAt) {
		return true, nil
	}

	// Opportunistically drop expired entries to bound the map.
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = dedupEntry{expiresAt: now.Add(s.ttl)}
	return false, nil
}

var _ ingestion.DedupStore = (*InMemoryWebhookDedup)(nil)
