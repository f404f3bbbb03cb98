package domain

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/sauron136/custos/internal/auth/domain UserRepository,TokenRepository,SessionRepository,AttemptRepository

import (
	"context"
	"time"
)

// UserRepository persists user identity and verification state.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdateProfile(ctx context.Context, user *User) error
}

// TokenRepository persists the three stored token kinds. Verification and
// reset tokens are soft-invalidated (is_used) rather than deleted; refresh
// tokens are revoked. Hard deletion of expired rows belongs to the cleanup
// job only.
type TokenRepository interface {
	CreateVerificationToken(ctx context.Context, t *EmailVerificationToken) error
	GetVerificationToken(ctx context.Context, raw string) (*EmailVerificationToken, error)
	InvalidateVerificationTokens(ctx context.Context, userID string) error
	MarkVerificationTokenUsed(ctx context.Context, id string) error

	CreateResetToken(ctx context.Context, t *PasswordResetToken) error
	GetResetToken(ctx context.Context, raw string) (*PasswordResetToken, error)
	InvalidateResetTokens(ctx context.Context, userID string) error
	MarkResetTokenUsed(ctx context.Context, id string) error

	StoreRefreshToken(ctx context.Context, t *RefreshToken) error
	GetRefreshToken(ctx context.Context, raw string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error

	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository tracks logical login sessions. Sessions are closed by
// flipping is_active, never by deleting the row.
type SessionRepository interface {
	Create(ctx context.Context, s *UserSession) error
	GetByID(ctx context.Context, id string) (*UserSession, error)
	Touch(ctx context.Context, sessionKey string, at time.Time) error
	Deactivate(ctx context.Context, id string) error
	DeactivateAll(ctx context.Context, userID string) error
	DeactivateByUserIP(ctx context.Context, userID, ip string) error
	ListActive(ctx context.Context, userID string) ([]*UserSession, error)
	HasPriorSession(ctx context.Context, userID, ip string) (bool, error)
	DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

// AttemptRepository is the append-only login audit trail.
type AttemptRepository interface {
	Record(ctx context.Context, a *LoginAttempt) error
	CountRecentFailures(ctx context.Context, ip string, since time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
