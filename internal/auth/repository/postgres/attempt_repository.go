package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sauron136/custos/internal/auth/domain"
)

// Record appends a login attempt. Rows are never updated afterwards.
func (r *PostgresRepository) Record(ctx context.Context, a *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, email, ip_address, user_agent, success, failure_reason, attempted_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
	`, a.Email, a.IPAddress, a.UserAgent, a.Success, a.FailureReason, a.AttemptedAt)
	return err
}

// CountRecentFailures counts failed attempts from an IP since the given
// instant, for the soft rate-limit policy.
func (r *PostgresRepository) CountRecentFailures(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE ip_address = $1 AND NOT success AND attempted_at >= $2
	`, ip, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent failures: %w", err)
	}
	return count, nil
}

// DeleteOlderThan prunes attempts past the retention window. Only the
// cleanup job calls this.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM login_attempts WHERE attempted_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune login attempts: %w", err)
	}
	return tag.RowsAffected(), nil
}
