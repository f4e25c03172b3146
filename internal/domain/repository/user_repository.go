package repository

import (
	"context"
	"time"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
)

// UserRepository defines the interface for user-related database operations.
// Reads leave Password empty unless the method says otherwise.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIDWithPassword loads the stored hash as well.
	GetByIDWithPassword(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail loads the stored hash as well.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken finds the user holding hash with an expiry after now.
	GetByResetToken(ctx context.Context, hash string, now time.Time) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	// RedeemResetToken stores passwordHash for id only while tokenHash is still
	// held and unexpired at now, clearing it in the same statement. ErrNotFound
	// means the token was already used or has expired.
	RedeemResetToken(ctx context.Context, id, tokenHash string, now time.Time, passwordHash string) error
	// SetResetToken persists or clears (nil values) the reset token pair.
	SetResetToken(ctx context.Context, id string, hash *string, expire *time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, spec query.Spec) (query.Result[entity.User], error)
}
