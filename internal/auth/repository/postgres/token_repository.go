package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sauron136/custos/internal/auth/domain"
)

func (r *PostgresRepository) CreateVerificationToken(ctx context.Context, t *domain.EmailVerificationToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO email_verification_tokens (id, user_id, token, created_at, expires_at, is_used)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.UserID, t.Token, t.CreatedAt, t.ExpiresAt, t.IsUsed)
	return err
}

func (r *PostgresRepository) GetVerificationToken(ctx context.Context, raw string) (*domain.EmailVerificationToken, error) {
	query := `
		SELECT id, user_id, token, created_at, expires_at, is_used
		FROM email_verification_tokens
		WHERE token = $1
		LIMIT 1;
	`
	var t domain.EmailVerificationToken
	err := r.db.QueryRow(ctx, query, raw).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.IsUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) InvalidateVerificationTokens(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE email_verification_tokens SET is_used = TRUE
		WHERE user_id = $1 AND NOT is_used
	`, userID)
	return err
}

func (r *PostgresRepository) MarkVerificationTokenUsed(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE email_verification_tokens SET is_used = TRUE
		WHERE id = $1
	`, id)
	return err
}

func (r *PostgresRepository) CreateResetToken(ctx context.Context, t *domain.PasswordResetToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token, ip_address, user_agent, created_at, expires_at, is_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.UserID, t.Token, t.IPAddress, t.UserAgent, t.CreatedAt, t.ExpiresAt, t.IsUsed)
	return err
}

func (r *PostgresRepository) GetResetToken(ctx context.Context, raw string) (*domain.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, ip_address, user_agent, created_at, expires_at, is_used
		FROM password_reset_tokens
		WHERE token = $1
		LIMIT 1;
	`
	var t domain.PasswordResetToken
	err := r.db.QueryRow(ctx, query, raw).Scan(
		&t.ID, &t.UserID, &t.Token, &t.IPAddress, &t.UserAgent, &t.CreatedAt, &t.ExpiresAt, &t.IsUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) InvalidateResetTokens(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE password_reset_tokens SET is_used = TRUE
		WHERE user_id = $1 AND NOT is_used
	`, userID)
	return err
}

func (r *PostgresRepository) MarkResetTokenUsed(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE password_reset_tokens SET is_used = TRUE
		WHERE id = $1
	`, id)
	return err
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, device_info, ip_address, user_agent, created_at, expires_at, is_revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.Token, t.DeviceInfo, t.IPAddress, t.UserAgent, t.CreatedAt, t.ExpiresAt, t.Revoked)
	return err
}

func (r *PostgresRepository) GetRefreshToken(ctx context.Context, raw string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, device_info, ip_address, user_agent, created_at, expires_at, is_revoked
		FROM refresh_tokens
		WHERE token = $1
		LIMIT 1;
	`
	var t domain.RefreshToken
	err := r.db.QueryRow(ctx, query, raw).Scan(
		&t.ID, &t.UserID, &t.Token, &t.DeviceInfo, &t.IPAddress, &t.UserAgent, &t.CreatedAt, &t.ExpiresAt, &t.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) RevokeRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET is_revoked = TRUE
		WHERE id = $1
	`, id)
	return err
}

func (r *PostgresRepository) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET is_revoked = TRUE
		WHERE user_id = $1 AND NOT is_revoked
	`, userID)
	return err
}

// DeleteExpiredTokens hard-deletes expired rows of all three kinds. Only
// the out-of-band cleanup job calls this.
func (r *PostgresRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	for _, table := range []string{"email_verification_tokens", "password_reset_tokens", "refresh_tokens"} {
		tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE expires_at < $1`, now)
		if err != nil {
			return total, fmt.Errorf("failed to delete expired rows from %s: %w", table, err)
		}
		total += tag.RowsAffected()
	}

	return total, nil
}
