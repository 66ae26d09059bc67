package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// digestOnlyRepo matches reset tokens by digest and ignores the expiry.
type digestOnlyRepo struct {
	*stubUserRepo
}

func (r digestOnlyRepo) FindByResetToken(_ context.Context, digest string, _ time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken != "" && u.ResetPasswordToken == digest {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func TestResetTokenService_Verify(t *testing.T) {
	repo := digestOnlyRepo{newStubUserRepo()}
	ctx := context.Background()
	u, err := repo.Create(ctx, &domain.User{Name: "Gina Hall", Email: "gina@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	svc := NewResetTokenService(repo, time.Minute)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	tok, err := svc.Issue(ctx, u.ID)
	require.NoError(t, err)

	owner, err := svc.Verify(ctx, tok.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner.ID)

	_, err = svc.Verify(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)

	_, err = svc.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = svc.Verify(ctx, tok.Plaintext)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken, "expired token rejected even when the store matches it")

	require.NoError(t, svc.Revoke(ctx, u.ID))
	svc.now = func() time.Time { return start }
	_, err = svc.Verify(ctx, tok.Plaintext)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}
