package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/virenradadiya3/todo/internal/domain/repository"
)

func blacklistKey(token string) string {
	return "token:blacklist:" + token
}

// TokenBlacklist keeps revoked tokens in Redis, keyed by the exact token
// string with a TTL equal to the token's remaining natural lifetime. Redis
// removes expired keys itself and never returns one from EXISTS, so a lookup
// is always expiry-fresh without any sweep coordination.
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

// Revoke is idempotent: SET on an existing key only refreshes the same value.
// A token already past its natural expiry needs no entry at all.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ repository.TokenBlacklist = (*TokenBlacklist)(nil)
