package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sauron136/custos/config"
	"github.com/sauron136/custos/internal/auth/domain"
	autherror "github.com/sauron136/custos/internal/errors"
)

// TokenIssuer owns the lifecycle of the stored token kinds: issue,
// validate, consume, revoke. Validation never consumes a token; callers
// mark it used only after the associated side effect succeeded, so a
// failure partway through does not burn the token.
type TokenIssuer struct {
	repo      domain.TokenRepository
	generator TokenGenerator
	cfg       *config.Config
}

func NewTokenIssuer(repo domain.TokenRepository, generator TokenGenerator, cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		repo:      repo,
		generator: generator,
		cfg:       cfg,
	}
}

// IssueVerification invalidates any outstanding verification tokens for
// the user and issues a fresh one, keeping at most one authoritative
// token outstanding.
func (ti *TokenIssuer) IssueVerification(ctx context.Context, user *domain.User) (*domain.EmailVerificationToken, error) {
	if err := ti.repo.InvalidateVerificationTokens(ctx, user.ID); err != nil {
		return nil, err
	}

	raw, err := ti.generator.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &domain.EmailVerificationToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     raw,
		CreatedAt: now,
		ExpiresAt: now.Add(ti.cfg.VerificationExpiry),
	}

	if err := ti.repo.CreateVerificationToken(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// IssueReset invalidates any outstanding reset tokens for the user and
// issues a fresh one, recording the requesting client for audit.
func (ti *TokenIssuer) IssueReset(ctx context.Context, user *domain.User, ip, userAgent string) (*domain.PasswordResetToken, error) {
	if err := ti.repo.InvalidateResetTokens(ctx, user.ID); err != nil {
		return nil, err
	}

	raw, err := ti.generator.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     raw,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(ti.cfg.ResetTokenExpiry),
	}

	if err := ti.repo.CreateResetToken(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// IssueRefresh stores a new opaque refresh token. Multiple concurrent
// refresh tokens per user are allowed, one per login.
func (ti *TokenIssuer) IssueRefresh(ctx context.Context, user *domain.User, ip, userAgent, deviceInfo string) (*domain.RefreshToken, error) {
	raw, err := ti.generator.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &domain.RefreshToken{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Token:      raw,
		DeviceInfo: deviceInfo,
		IPAddress:  ip,
		UserAgent:  userAgent,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ti.cfg.RefreshTokenExpiry),
	}

	if err := ti.repo.StoreRefreshToken(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// ValidateVerification resolves a raw verification token, distinguishing
// not-found, already-used, and expired outcomes.
func (ti *TokenIssuer) ValidateVerification(ctx context.Context, raw string) (*domain.EmailVerificationToken, error) {
	token, err := ti.repo.GetVerificationToken(ctx, raw)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, autherror.ErrTokenNotFound
	}
	if token.IsUsed {
		return nil, autherror.ErrTokenAlreadyUsed
	}
	if token.Expired(time.Now()) {
		return nil, autherror.ErrTokenExpired
	}
	return token, nil
}

// ValidateReset resolves a raw password-reset token.
func (ti *TokenIssuer) ValidateReset(ctx context.Context, raw string) (*domain.PasswordResetToken, error) {
	token, err := ti.repo.GetResetToken(ctx, raw)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, autherror.ErrTokenNotFound
	}
	if token.IsUsed {
		return nil, autherror.ErrTokenAlreadyUsed
	}
	if token.Expired(time.Now()) {
		return nil, autherror.ErrTokenExpired
	}
	return token, nil
}

// ValidateRefresh resolves a raw refresh token.
func (ti *TokenIssuer) ValidateRefresh(ctx context.Context, raw string) (*domain.RefreshToken, error) {
	token, err := ti.repo.GetRefreshToken(ctx, raw)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, autherror.ErrRefreshTokenNotFound
	}
	if token.Revoked {
		return nil, autherror.ErrRefreshTokenRevoked
	}
	if !token.Valid(time.Now()) {
		return nil, autherror.ErrRefreshTokenExpired
	}
	return token, nil
}

// ConsumeVerification marks a verification token used.
func (ti *TokenIssuer) ConsumeVerification(ctx context.Context, token *domain.EmailVerificationToken) error {
	return ti.repo.MarkVerificationTokenUsed(ctx, token.ID)
}

// ConsumeReset marks a reset token used.
func (ti *TokenIssuer) ConsumeReset(ctx context.Context, token *domain.PasswordResetToken) error {
	return ti.repo.MarkResetTokenUsed(ctx, token.ID)
}

// RevokeRefresh revokes a single refresh token by id.
func (ti *TokenIssuer) RevokeRefresh(ctx context.Context, id string) error {
	return ti.repo.RevokeRefreshToken(ctx, id)
}

// RevokeAllRefresh revokes every refresh token for the user, the blanket
// session kill after a password change or reset.
func (ti *TokenIssuer) RevokeAllRefresh(ctx context.Context, userID string) error {
	return ti.repo.RevokeAllRefreshTokens(ctx, userID)
}
