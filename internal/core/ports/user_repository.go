package ports

import (
	"context"
	"time"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts the user and returns it with its ID set. A duplicate email
	// yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateProfile overwrites name, email and role.
	UpdateProfile(ctx context.Context, id, name, email, role string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error

	// FindByResetToken returns the user whose reset digest matches and whose
	// expiry is after now.
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*domain.User, error)
	SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// ConsumeResetToken sets the new password hash and clears the reset fields
	// only if the digest still matches and has not expired at now. It returns
	// domain.ErrResetTokenInvalid when the condition no longer holds.
	ConsumeResetToken(ctx context.Context, id, digest string, now time.Time, passwordHash string) (*domain.User, error)
}
