package repository

import (
	"context"
	"errors"
	"time"

	"github.com/virenradadiya3/todo/internal/domain/entity"
)

// Shared repository errors. Implementations translate driver-level failures
// into these so the application layer never inspects driver errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByID returns the full record including the password hash.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetPublicByID returns the record with the password hash excluded.
	GetPublicByID(ctx context.Context, id string) (*entity.User, error)
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error
	// GetByResetToken resolves an unexpired reset token as of now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	// CompleteReset stores the new password hash and clears both reset fields.
	CompleteReset(ctx context.Context, userID, passwordHash string) error
}
