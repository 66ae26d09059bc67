package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultResetTokenTTL is how long a password-reset token stays valid.
const DefaultResetTokenTTL = 15 * time.Minute

const resetTokenBytes = 20

// ResetToken is a freshly generated password-reset credential. Plaintext is
// handed to the user out of band; only Digest is persisted.
type ResetToken struct {
	Plaintext string
	Digest    string
	ExpiresAt time.Time
}

// NewResetToken generates a random reset token expiring ttl after now.
func NewResetToken(now time.Time, ttl time.Duration) (ResetToken, error) {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return ResetToken{}, fmt.Errorf("generate reset token: %w", err)
	}
	plain := hex.EncodeToString(b)
	return ResetToken{
		Plaintext: plain,
		Digest:    HashResetToken(plain),
		ExpiresAt: now.Add(ttl).UTC(),
	}, nil
}

// HashResetToken returns the hex sha256 digest stored for a reset token.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
