package service

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// ResetTokenService manages single-use password-reset tokens. Only the sha256
// digest of a token is ever stored.
type ResetTokenService struct {
	repo ports.UserRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewResetTokenService(repo ports.UserRepository, ttl time.Duration) *ResetTokenService {
	if ttl <= 0 {
		ttl = domain.DefaultResetTokenTTL
	}
	return &ResetTokenService{repo: repo, ttl: ttl, now: time.Now}
}

// Issue generates a token for the user, stores its digest and expiry, and
// returns the plaintext for out-of-band delivery.
func (s *ResetTokenService) Issue(ctx context.Context, userID string) (domain.ResetToken, error) {
	tok, err := domain.NewResetToken(s.now(), s.ttl)
	if err != nil {
		return domain.ResetToken{}, err
	}
	if err := s.repo.SetResetToken(ctx, userID, tok.Digest, tok.ExpiresAt); err != nil {
		return domain.ResetToken{}, err
	}
	return tok, nil
}

// Revoke clears any outstanding token of the user.
func (s *ResetTokenService) Revoke(ctx context.Context, userID string) error {
	return s.repo.ClearResetToken(ctx, userID)
}

// Verify resolves plaintext to the owning user. Unknown, consumed and expired
// tokens all yield domain.ErrResetTokenInvalid. The returned user is checked
// against the digest and expiry again, whatever the store matched on.
func (s *ResetTokenService) Verify(ctx context.Context, plaintext string) (*domain.User, error) {
	if plaintext == "" {
		return nil, domain.ErrResetTokenInvalid
	}
	digest, now := domain.HashResetToken(plaintext), s.now()
	user, err := s.repo.FindByResetToken(ctx, digest, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	if !user.HasValidResetToken(digest, now) {
		return nil, domain.ErrResetTokenInvalid
	}
	return user, nil
}

// Consume atomically swaps in passwordHash and clears the token, provided it
// is still valid. A second call with the same plaintext fails.
func (s *ResetTokenService) Consume(ctx context.Context, userID, plaintext, passwordHash string) (*domain.User, error) {
	return s.repo.ConsumeResetToken(ctx, userID, domain.HashResetToken(plaintext), s.now(), passwordHash)
}
