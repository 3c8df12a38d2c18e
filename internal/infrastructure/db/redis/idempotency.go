package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore records order-creation idempotency keys in Redis.
// Key format: order:idem:<key> → order id.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the order id recorded for key, or "" when unseen.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember maps the key to the created order id (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, key, orderID string) error {
	return s.client.Set(ctx, s.key(key), orderID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return fmt.Sprintf("order:idem:%s", key)
}
