package domain

import "time"

// OneTimeCode represents a stored phone-verification code.
// Only the SHA-256 digest of the code is persisted, never the plaintext.
type OneTimeCode struct {
	ID         int64
	Phone      string // E.164 format
	CodeHash   string
	ExpiresAt  time.Time
	Verified   bool
	Attempts   int
	LastSentAt time.Time
	CreatedAt  time.Time
}

// IsExpired returns true if the code is past its expiry
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// IsActive returns true if the code is still eligible for verification
func (c *OneTimeCode) IsActive(now time.Time) bool {
	return !c.Verified && !c.IsExpired(now)
}

// CooldownRemaining returns how long the caller must still wait before a
// resend is allowed. Zero or negative means the cooldown has elapsed.
func (c *OneTimeCode) CooldownRemaining(now time.Time, cooldown time.Duration) time.Duration {
	return c.LastSentAt.Add(cooldown).Sub(now)
}
