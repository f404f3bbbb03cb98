package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sauron136/custos/internal/auth/domain"
	"github.com/sauron136/custos/internal/auth/service"
	autherror "github.com/sauron136/custos/internal/errors"
	"github.com/sauron136/custos/internal/mocks"
)

func newTestIssuer(t *testing.T) (*service.TokenIssuer, *mocks.MockTokenRepository, *mocks.MockTokenGenerator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockTokenRepository(ctrl)
	generator := mocks.NewMockTokenGenerator(ctrl)
	issuer := service.NewTokenIssuer(repo, generator, testConfig())

	return issuer, repo, generator
}

// Issuing a new verification token invalidates whatever was outstanding,
// so at most one token per user can ever succeed.
func TestTokenIssuer_IssueVerification_InvalidatesPriorFirst(t *testing.T) {
	issuer, repo, generator := newTestIssuer(t)
	user := &domain.User{ID: "user-id"}

	gomock.InOrder(
		repo.EXPECT().InvalidateVerificationTokens(gomock.Any(), "user-id").Return(nil),
		generator.EXPECT().GenerateOpaqueToken().Return("fresh-token", nil),
		repo.EXPECT().CreateVerificationToken(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tok *domain.EmailVerificationToken) error {
				assert.Equal(t, "user-id", tok.UserID)
				assert.Equal(t, "fresh-token", tok.Token)
				assert.WithinDuration(t, time.Now().Add(24*time.Hour), tok.ExpiresAt, 5*time.Second)
				return nil
			}),
	)

	token, err := issuer.IssueVerification(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, "fresh-token", token.Token)
}

func TestTokenIssuer_IssueVerification_InvalidateError(t *testing.T) {
	issuer, repo, _ := newTestIssuer(t)

	expectedErr := errors.New("database error")
	repo.EXPECT().InvalidateVerificationTokens(gomock.Any(), "user-id").Return(expectedErr)

	token, err := issuer.IssueVerification(context.Background(), &domain.User{ID: "user-id"})

	assert.Nil(t, token)
	assert.Equal(t, expectedErr, err)
}

func TestTokenIssuer_IssueReset_RecordsRequestingClient(t *testing.T) {
	issuer, repo, generator := newTestIssuer(t)
	user := &domain.User{ID: "user-id"}

	repo.EXPECT().InvalidateResetTokens(gomock.Any(), "user-id").Return(nil)
	generator.EXPECT().GenerateOpaqueToken().Return("reset-token", nil)
	repo.EXPECT().CreateResetToken(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tok *domain.PasswordResetToken) error {
			assert.Equal(t, "10.0.0.1", tok.IPAddress)
			assert.Equal(t, "curl/8.0", tok.UserAgent)
			assert.WithinDuration(t, time.Now().Add(2*time.Hour), tok.ExpiresAt, 5*time.Second)
			return nil
		})

	token, err := issuer.IssueReset(context.Background(), user, "10.0.0.1", "curl/8.0")

	assert.NoError(t, err)
	assert.Equal(t, "reset-token", token.Token)
}

// Refresh tokens are one per login; issuing does not touch existing ones.
func TestTokenIssuer_IssueRefresh_KeepsExistingTokens(t *testing.T) {
	issuer, repo, generator := newTestIssuer(t)
	user := &domain.User{ID: "user-id"}

	generator.EXPECT().GenerateOpaqueToken().Return("refresh-token", nil)
	repo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tok *domain.RefreshToken) error {
			assert.Equal(t, "iPhone", tok.DeviceInfo)
			assert.WithinDuration(t, time.Now().Add(168*time.Hour), tok.ExpiresAt, 5*time.Second)
			return nil
		})

	token, err := issuer.IssueRefresh(context.Background(), user, "10.0.0.1", "Mozilla/5.0 iPhone", "iPhone")

	assert.NoError(t, err)
	assert.Equal(t, "refresh-token", token.Token)
}

func TestTokenIssuer_ValidateVerification_Outcomes(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		stored  *domain.EmailVerificationToken
		wantErr error
	}{
		{
			name:    "unknown token",
			stored:  nil,
			wantErr: autherror.ErrTokenNotFound,
		},
		{
			name: "already used",
			stored: &domain.EmailVerificationToken{
				ID: "token-id", IsUsed: true, ExpiresAt: now.Add(time.Hour),
			},
			wantErr: autherror.ErrTokenAlreadyUsed,
		},
		{
			name: "expired",
			stored: &domain.EmailVerificationToken{
				ID: "token-id", ExpiresAt: now.Add(-time.Minute),
			},
			wantErr: autherror.ErrTokenExpired,
		},
		{
			name: "used and expired reports used",
			stored: &domain.EmailVerificationToken{
				ID: "token-id", IsUsed: true, ExpiresAt: now.Add(-time.Minute),
			},
			wantErr: autherror.ErrTokenAlreadyUsed,
		},
		{
			name: "valid",
			stored: &domain.EmailVerificationToken{
				ID: "token-id", ExpiresAt: now.Add(time.Hour),
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, repo, _ := newTestIssuer(t)
			repo.EXPECT().GetVerificationToken(gomock.Any(), "raw").Return(tt.stored, nil)

			token, err := issuer.ValidateVerification(context.Background(), "raw")

			if tt.wantErr != nil {
				assert.Nil(t, token)
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.stored, token)
			}
		})
	}
}

func TestTokenIssuer_ValidateRefresh_Outcomes(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		stored  *domain.RefreshToken
		wantErr error
	}{
		{
			name:    "unknown token",
			stored:  nil,
			wantErr: autherror.ErrRefreshTokenNotFound,
		},
		{
			name: "revoked",
			stored: &domain.RefreshToken{
				ID: "token-id", Revoked: true, ExpiresAt: now.Add(time.Hour),
			},
			wantErr: autherror.ErrRefreshTokenRevoked,
		},
		{
			name: "expired",
			stored: &domain.RefreshToken{
				ID: "token-id", ExpiresAt: now.Add(-time.Minute),
			},
			wantErr: autherror.ErrRefreshTokenExpired,
		},
		{
			name: "valid",
			stored: &domain.RefreshToken{
				ID: "token-id", ExpiresAt: now.Add(time.Hour),
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, repo, _ := newTestIssuer(t)
			repo.EXPECT().GetRefreshToken(gomock.Any(), "raw").Return(tt.stored, nil)

			token, err := issuer.ValidateRefresh(context.Background(), "raw")

			if tt.wantErr != nil {
				assert.Nil(t, token)
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.stored, token)
			}
		})
	}
}

// Validation alone never flips is_used; consumption is a separate step.
func TestTokenIssuer_ValidateThenConsumeReset(t *testing.T) {
	issuer, repo, _ := newTestIssuer(t)

	stored := &domain.PasswordResetToken{
		ID:        "token-id",
		UserID:    "user-id",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	repo.EXPECT().GetResetToken(gomock.Any(), "raw").Return(stored, nil)

	token, err := issuer.ValidateReset(context.Background(), "raw")
	assert.NoError(t, err)

	repo.EXPECT().MarkResetTokenUsed(gomock.Any(), "token-id").Return(nil)
	assert.NoError(t, issuer.ConsumeReset(context.Background(), token))
}

func TestTokenIssuer_RevokeAllRefresh(t *testing.T) {
	issuer, repo, _ := newTestIssuer(t)

	repo.EXPECT().RevokeAllRefreshTokens(gomock.Any(), "user-id").Return(nil)

	assert.NoError(t, issuer.RevokeAllRefresh(context.Background(), "user-id"))
}
