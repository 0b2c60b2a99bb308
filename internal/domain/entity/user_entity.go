package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password always holds a bcrypt hash; the plaintext secret is hashed
// explicitly by the application layer before the entity reaches a repository.
// ResetToken and ResetExpires are either both set or both nil.
type User struct {
	ID           string
	Name         string
	Email        string
	Password     string
	ResetToken   *string
	ResetExpires *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
