package domain

import "regexp"

// Default policy values, used when the system_config table has no override
// or the stored value fails to parse
const (
	DefaultOTPLength                = 6
	DefaultOTPExpiryMinutes         = 5
	DefaultOTPMaxAttempts           = 3
	DefaultOTPResendCooldownSeconds = 30

	DefaultCancellationWindowHours = 4
)

// Policy keys in the system_config table
const (
	KeyOTPExpiryMinutes         = "otp_expiry_minutes"
	KeyOTPMaxAttempts           = "otp_max_attempts"
	KeyOTPResendCooldownSeconds = "otp_resend_cooldown_seconds"
	KeyCancellationWindowHours  = "cancellation_window_hours"
)

// Business validation constants
const (
	MaxNotesLength = 500
)

// E164Regex validates international phone numbers, e.g. +919876543210
var E164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
