package constant

import "time"

// Token lifetimes.
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = 2 * time.Hour
	RefreshTokenTTL      = 7 * 24 * time.Hour
)

// Login-attempt failure reasons recorded in the audit trail.
const (
	FailureInvalidCredentials = "invalid credentials"
	FailureAccountDisabled    = "account disabled"
	FailureEmailNotVerified   = "email not verified"
	FailureRateLimited        = "too many failed attempts"
)

// Rate-limiting policy for failed logins per IP.
const (
	FailedLoginWindow    = time.Hour
	FailedLoginThreshold = 5
)

// Opaque token entropy in bytes before URL-safe encoding.
const TokenEntropyBytes = 32

// Cleanup job defaults.
const (
	SessionIdleHorizon    = 30 * 24 * time.Hour
	AttemptRetentionLimit = 90 * 24 * time.Hour
)
