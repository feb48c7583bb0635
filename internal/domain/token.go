package domain

import "time"

// RefreshToken represents a stored session refresh token.
// Only the SHA-256 digest of the opaque token value is persisted.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the token is past its expiry
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
