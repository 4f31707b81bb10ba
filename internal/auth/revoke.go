package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records token ids retired before their natural expiry.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "folio:revoked:"

// RedisRevocations keeps the denylist in redis, keyed by token id with the
// token's remaining lifetime as TTL so entries expire on their own.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations constructs a redis-backed revocation list.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

// Revoke marks the token id as retired until ttl elapses.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been retired.
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ RevocationList = (*RedisRevocations)(nil)
