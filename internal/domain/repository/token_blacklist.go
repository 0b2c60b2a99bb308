package repository

import (
	"context"
	"time"
)

// TokenBlacklist records tokens invalidated before their natural expiry.
// Entries self-expire at the token's own expiry, so the ledger never outlives
// the token's validity window. Revoking the same token twice must not error.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
