package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauron136/custos/internal/auth/domain"
	repo "github.com/sauron136/custos/internal/auth/repository/postgres"
)

var userColumns = []string{
	"id", "email", "username", "password_hash", "first_name", "last_name", "phone_number",
	"bio", "timezone", "email_notifications", "push_notifications", "is_active", "is_verified",
	"is_staff", "is_superuser", "date_joined", "last_login", "updated_at",
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).AddRow(
		u.ID, u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber,
		u.Bio, u.Timezone, u.EmailNotifications, u.PushNotifications, u.IsActive, u.IsVerified,
		u.IsStaff, u.IsSuperuser, u.DateJoined, u.LastLogin, u.UpdatedAt,
	)
}

func testUser() *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           "user-123",
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: "hash",
		Timezone:     "UTC",
		IsActive:     true,
		IsVerified:   true,
		DateJoined:   now,
		UpdatedAt:    now,
	}
}

func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	expected := testUser()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(expected.Email).
			WillReturnRows(userRow(expected))

		user, err := r.GetByEmail(ctx, expected.Email)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, user.ID)
		assert.Equal(t, expected.Username, user.Username)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(expected.Email).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, expected.Email)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(expected.Email).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, expected.Email)
		assert.Error(t, err)
	})
}

func TestGetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	expected := testUser()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(expected.Username).
		WillReturnRows(userRow(expected))

	user, err := r.GetByUsername(context.Background(), expected.Username)
	require.NoError(t, err)
	assert.Equal(t, expected.ID, user.ID)
}

func TestCreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	user := testUser()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName,
				user.LastName, user.PhoneNumber, user.Bio, user.Timezone, user.EmailNotifications,
				user.PushNotifications, user.IsActive, user.IsVerified, user.IsStaff,
				user.IsSuperuser, user.DateJoined, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, user))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(fmt.Errorf("duplicate key"))

		assert.Error(t, r.Create(ctx, user))
	})
}

func TestMarkVerified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE users SET is_verified").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.MarkVerified(context.Background(), "user-123"))
}

func TestUpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("user-123", "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.UpdatePassword(context.Background(), "user-123", "new-hash"))
}

func TestGetVerificationToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	now := time.Now()
	columns := []string{"id", "user_id", "token", "created_at", "expires_at", "is_used"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM email_verification_tokens").
			WithArgs("raw-token").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("token-id", "user-123", "raw-token", now, now.Add(24*time.Hour), false))

		token, err := r.GetVerificationToken(ctx, "raw-token")
		require.NoError(t, err)
		assert.Equal(t, "token-id", token.ID)
		assert.False(t, token.IsUsed)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM email_verification_tokens").
			WithArgs("unknown").
			WillReturnError(pgx.ErrNoRows)

		token, err := r.GetVerificationToken(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}

func TestInvalidateVerificationTokens(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE email_verification_tokens SET is_used").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	assert.NoError(t, r.InvalidateVerificationTokens(context.Background(), "user-123"))
}

func TestStoreAndGetRefreshToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	now := time.Now()

	token := &domain.RefreshToken{
		ID:         "token-id",
		UserID:     "user-123",
		Token:      "raw-refresh",
		DeviceInfo: "iPhone",
		IPAddress:  "10.0.0.1",
		UserAgent:  "Mozilla/5.0",
		CreatedAt:  now,
		ExpiresAt:  now.Add(168 * time.Hour),
	}

	t.Run("store", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(token.ID, token.UserID, token.Token, token.DeviceInfo, token.IPAddress,
				token.UserAgent, token.CreatedAt, token.ExpiresAt, token.Revoked).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.StoreRefreshToken(ctx, token))
	})

	t.Run("get", func(t *testing.T) {
		columns := []string{"id", "user_id", "token", "device_info", "ip_address", "user_agent",
			"created_at", "expires_at", "is_revoked"}
		mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
			WithArgs("raw-refresh").
			WillReturnRows(pgxmock.NewRows(columns).AddRow(
				token.ID, token.UserID, token.Token, token.DeviceInfo, token.IPAddress,
				token.UserAgent, token.CreatedAt, token.ExpiresAt, false))

		got, err := r.GetRefreshToken(ctx, "raw-refresh")
		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.False(t, got.Revoked)
	})
}

func TestRevokeAllRefreshTokens(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE refresh_tokens SET is_revoked").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	assert.NoError(t, r.RevokeAllRefreshTokens(context.Background(), "user-123"))
}

func TestDeleteExpiredTokens(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	now := time.Now()

	mock.ExpectExec("DELETE FROM email_verification_tokens").
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM password_reset_tokens").
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	deleted, err := r.DeleteExpiredTokens(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}

func TestRecordLoginAttempt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	now := time.Now()

	attempt := &domain.LoginAttempt{
		Email:         "test@example.com",
		IPAddress:     "10.0.0.1",
		UserAgent:     "Mozilla/5.0",
		Success:       false,
		FailureReason: "invalid credentials",
		AttemptedAt:   now,
	}

	mock.ExpectExec("INSERT INTO login_attempts").
		WithArgs(attempt.Email, attempt.IPAddress, attempt.UserAgent, attempt.Success,
			attempt.FailureReason, attempt.AttemptedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, r.Record(context.Background(), attempt))
}

func TestCountRecentFailures(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	since := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_attempts`).
		WithArgs("10.0.0.1", since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := r.CountRecentFailures(context.Background(), "10.0.0.1", since)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestDeleteOlderThan(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	cutoff := time.Now().Add(-90 * 24 * time.Hour)

	mock.ExpectExec("DELETE FROM login_attempts").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	deleted, err := r.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}
