package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

const defaultSessionTTL = 5 * 24 * time.Hour

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues HS256 session tokens and verifies them statelessly.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token bound to the user's id and role.
func (s *TokenService) Issue(user *domain.User) (ports.SessionToken, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &sessionClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return ports.SessionToken{}, err
	}
	return ports.SessionToken{Value: signed, ExpiresAt: exp}, nil
}

// Verify checks signature and expiry. It depends only on the token and the
// secret; no store lookup is performed.
func (s *TokenService) Verify(token string) (*ports.SessionClaims, error) {
	if token == "" {
		return nil, domain.ErrLoginRequired
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(domain.ErrLoginRequired, err)
	}
	if claims.UserID == "" {
		return nil, domain.ErrLoginRequired
	}
	return &ports.SessionClaims{UserID: claims.UserID, Role: claims.Role}, nil
}
