package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sauron136/custos/config"
	"github.com/sauron136/custos/internal/auth/domain"
	"github.com/sauron136/custos/internal/auth/dto"
	autherror "github.com/sauron136/custos/internal/errors"
	"github.com/sauron136/custos/internal/mailer"
	"github.com/sauron136/custos/pkg/constant"
	"github.com/sauron136/custos/pkg/device"
	"github.com/sauron136/custos/pkg/password"
)

// UserService orchestrates the authentication flows over the credential
// store, token issuer, session tracker, and login-attempt auditor.
type UserService struct {
	users        domain.UserRepository
	sessions     domain.SessionRepository
	attempts     domain.AttemptRepository
	issuer       *TokenIssuer
	tokenService TokenGenerator
	mail         mailer.Sender
	cfg          *config.Config
	logger       *zerolog.Logger
}

func NewUserService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	attempts domain.AttemptRepository,
	issuer *TokenIssuer,
	tokenService TokenGenerator,
	mail mailer.Sender,
	cfg *config.Config,
	logger *zerolog.Logger,
) *UserService {
	return &UserService{
		users:        users,
		sessions:     sessions,
		attempts:     attempts,
		issuer:       issuer,
		tokenService: tokenService,
		mail:         mail,
		cfg:          cfg,
		logger:       logger,
	}
}

// Register creates an unverified account and sends the verification email.
// Field-level violations are aggregated, not reported one at a time;
// duplicate email or username is a distinct conflict outcome.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	verr := dto.Validate(input)
	if verr == nil {
		verr = &autherror.ValidationError{}
	}

	for _, msg := range password.Validate(input.Password) {
		verr.Add("password", msg)
	}
	if input.Password != input.PasswordConfirm {
		verr.Add("password_confirm", "Password and password confirmation don't match.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	email := strings.ToLower(input.Email)
	username := strings.ToLower(input.Username)

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, autherror.ErrUsernameAlreadyInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:                 uuid.NewString(),
		Email:              email,
		Username:           username,
		PasswordHash:       string(hashed),
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		PhoneNumber:        input.PhoneNumber,
		Timezone:           "UTC",
		EmailNotifications: true,
		PushNotifications:  true,
		IsActive:           true,
		IsVerified:         false,
		DateJoined:         now,
		UpdatedAt:          now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendVerification(ctx, user)

	return user, nil
}

// VerifyEmail flips is_verified exactly once. The token is consumed only
// after the flag is persisted, so a storage failure leaves it reusable.
func (s *UserService) VerifyEmail(ctx context.Context, raw string) error {
	token, err := s.issuer.ValidateVerification(ctx, raw)
	if err != nil {
		return err
	}

	if err := s.users.MarkVerified(ctx, token.UserID); err != nil {
		return err
	}

	if err := s.issuer.ConsumeVerification(ctx, token); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", token.UserID).Msg("email verified")
	return nil
}

// ResendVerification reissues the verification token for an unverified
// account.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}
	if user.IsVerified {
		return autherror.ErrEmailAlreadyVerified
	}

	s.sendVerification(ctx, user)
	return nil
}

// Login authenticates credentials and, on success, issues an access token,
// a stored refresh token, and a session row. Every attempt is recorded
// with its outcome.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, *domain.User, error) {
	email := strings.ToLower(input.Email)

	failures, err := s.attempts.CountRecentFailures(ctx, input.IPAddress, time.Now().Add(-constant.FailedLoginWindow))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count recent login failures")
	} else if failures >= constant.FailedLoginThreshold {
		s.recordAttempt(ctx, email, input, false, constant.FailureRateLimited)
		return nil, nil, autherror.ErrTooManyLoginAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.recordAttempt(ctx, email, input, false, constant.FailureInvalidCredentials)
		return nil, nil, autherror.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordAttempt(ctx, email, input, false, constant.FailureAccountDisabled)
		return nil, nil, autherror.ErrAccountDisabled
	}

	if !user.IsVerified {
		s.recordAttempt(ctx, email, input, false, constant.FailureEmailNotVerified)
		return nil, nil, autherror.ErrEmailNotVerified
	}

	known, err := s.sessions.HasPriorSession(ctx, user.ID, input.IPAddress)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check prior sessions")
	} else if !known {
		s.logger.Warn().Str("user_id", user.ID).Str("ip", input.IPAddress).Msg("login from new location")
	}

	accessToken, _, err := s.tokenService.GenerateAccessToken(user.ID, user.Email, user.IsVerified)
	if err != nil {
		return nil, nil, err
	}

	refresh, err := s.issuer.IssueRefresh(ctx, user, input.IPAddress, input.UserAgent, device.Info(input.UserAgent))
	if err != nil {
		return nil, nil, err
	}

	session := &domain.UserSession{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		SessionKey:   uuid.NewString(),
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		DeviceInfo:   device.Info(input.UserAgent),
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		IsActive:     true,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	// The success attempt and credential issuance share the request's
	// transaction boundary; this write is not best-effort.
	if err := s.attempts.Record(ctx, &domain.LoginAttempt{
		Email:       email,
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
		Success:     true,
		AttemptedAt: time.Now(),
	}); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}
	user.LastLogin = &now

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
	}, user, nil
}

// Refresh exchanges a valid refresh token for a new access token,
// rotating the refresh token when the policy says so.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	token, err := s.issuer.ValidateRefresh(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, autherror.ErrRefreshTokenRevoked
	}

	accessToken, _, err := s.tokenService.GenerateAccessToken(user.ID, user.Email, user.IsVerified)
	if err != nil {
		return nil, err
	}

	refreshRaw := token.Token
	if s.cfg.RotateRefreshTokens {
		if err := s.issuer.RevokeRefresh(ctx, token.ID); err != nil {
			return nil, err
		}

		rotated, err := s.issuer.IssueRefresh(ctx, user, input.IPAddress, input.UserAgent, device.Info(input.UserAgent))
		if err != nil {
			return nil, err
		}
		refreshRaw = rotated.Token
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshRaw,
	}, nil
}

// Logout revokes the named refresh token and closes its sessions, or all
// of the user's when none is named. It is idempotent: an already-dead or
// unknown token is not an error.
func (s *UserService) Logout(ctx context.Context, userID, refreshRaw string) error {
	if refreshRaw == "" {
		if err := s.issuer.RevokeAllRefresh(ctx, userID); err != nil {
			return err
		}
		return s.sessions.DeactivateAll(ctx, userID)
	}

	token, err := s.issuer.ValidateRefresh(ctx, refreshRaw)
	if err != nil {
		switch err {
		case autherror.ErrRefreshTokenNotFound, autherror.ErrRefreshTokenRevoked, autherror.ErrRefreshTokenExpired:
			return nil
		}
		return err
	}
	if token.UserID != userID {
		return nil
	}

	if err := s.issuer.RevokeRefresh(ctx, token.ID); err != nil {
		return err
	}
	return s.sessions.DeactivateByUserIP(ctx, userID, token.IPAddress)
}

// RequestPasswordReset issues a reset token and mails it. The outcome is
// identical whether or not the email exists, to avoid user enumeration.
func (s *UserService) RequestPasswordReset(ctx context.Context, input dto.PasswordResetRequestInput) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := s.issuer.IssueReset(ctx, user, input.IPAddress, input.UserAgent)
	if err != nil {
		return err
	}

	if err := s.mail.SendPasswordResetEmail(user.Email, user.FullName(), token.Token); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to send password reset email")
	}

	return nil
}

// ConfirmPasswordReset sets a new password and kills every session and
// refresh token the user had.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, input dto.PasswordResetConfirmInput) error {
	verr := dto.Validate(input)
	if verr == nil {
		verr = &autherror.ValidationError{}
	}
	for _, msg := range password.Validate(input.Password) {
		verr.Add("password", msg)
	}
	if input.Password != input.PasswordConfirm {
		verr.Add("password_confirm", "Password and password confirmation don't match.")
	}
	if verr.HasErrors() {
		return verr
	}

	token, err := s.issuer.ValidateReset(ctx, input.Token)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, token.UserID, string(hashed)); err != nil {
		return err
	}

	if err := s.issuer.ConsumeReset(ctx, token); err != nil {
		return err
	}

	if err := s.issuer.RevokeAllRefresh(ctx, token.UserID); err != nil {
		return err
	}
	if err := s.sessions.DeactivateAll(ctx, token.UserID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", token.UserID).Msg("password reset completed")
	return nil
}

// ChangePassword verifies the old password, applies the new one, and
// forces re-login everywhere.
func (s *UserService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	verr := &autherror.ValidationError{}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)) != nil {
		verr.Add("old_password", "Old password is incorrect.")
	}
	for _, msg := range password.Validate(input.NewPassword) {
		verr.Add("new_password", msg)
	}
	if input.NewPassword != input.NewPasswordConfirm {
		verr.Add("new_password_confirm", "New password and confirmation don't match.")
	}
	if verr.HasErrors() {
		return verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}

	if err := s.issuer.RevokeAllRefresh(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.DeactivateAll(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// GetProfile returns the authenticated user's account.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the fields present in the input.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Timezone != nil {
		user.Timezone = *input.Timezone
	}
	if input.EmailNotifications != nil {
		user.EmailNotifications = *input.EmailNotifications
	}
	if input.PushNotifications != nil {
		user.PushNotifications = *input.PushNotifications
	}
	user.UpdatedAt = time.Now()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListSessions returns the user's active sessions, most recent first.
func (s *UserService) ListSessions(ctx context.Context, userID string) ([]*domain.UserSession, error) {
	return s.sessions.ListActive(ctx, userID)
}

// RevokeSession closes one of the caller's own sessions.
func (s *UserService) RevokeSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID {
		return autherror.ErrSessionNotFound
	}
	return s.sessions.Deactivate(ctx, session.ID)
}

// TouchSession bumps last_activity for a session key carried on an
// authenticated request.
func (s *UserService) TouchSession(ctx context.Context, sessionKey string) {
	if sessionKey == "" {
		return
	}
	if err := s.sessions.Touch(ctx, sessionKey, time.Now()); err != nil {
		s.logger.Error().Err(err).Msg("failed to touch session")
	}
}

func (s *UserService) sendVerification(ctx context.Context, user *domain.User) {
	token, err := s.issuer.IssueVerification(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue verification token")
		return
	}

	if err := s.mail.SendVerificationEmail(user.Email, user.FullName(), token.Token); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to send verification email")
	}
}

// recordAttempt appends a failed attempt; audit failures are logged, not
// surfaced into the login outcome.
func (s *UserService) recordAttempt(ctx context.Context, email string, input dto.LoginInput, success bool, reason string) {
	err := s.attempts.Record(ctx, &domain.LoginAttempt{
		Email:         email,
		IPAddress:     input.IPAddress,
		UserAgent:     input.UserAgent,
		Success:       success,
		FailureReason: reason,
		AttemptedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to record login attempt")
	}
}
