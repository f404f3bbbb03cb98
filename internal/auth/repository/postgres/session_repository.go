package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sauron136/custos/internal/auth/domain"
)

// PostgresSessionRepository persists login sessions.
type PostgresSessionRepository struct {
	db PgxIface
}

func NewPostgresSessionRepository(db PgxIface) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s *domain.UserSession) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_sessions (id, user_id, session_key, ip_address, user_agent, device_info, created_at, last_activity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.UserID, s.SessionKey, s.IPAddress, s.UserAgent, s.DeviceInfo, s.CreatedAt, s.LastActivity, s.IsActive)
	return err
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, id string) (*domain.UserSession, error) {
	query := `
		SELECT id, user_id, session_key, ip_address, user_agent, device_info, created_at, last_activity, is_active
		FROM user_sessions
		WHERE id = $1
		LIMIT 1;
	`
	var s domain.UserSession
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.SessionKey, &s.IPAddress, &s.UserAgent, &s.DeviceInfo,
		&s.CreatedAt, &s.LastActivity, &s.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *PostgresSessionRepository) Touch(ctx context.Context, sessionKey string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_sessions SET last_activity = $2
		WHERE session_key = $1 AND is_active
	`, sessionKey, at)
	return err
}

func (r *PostgresSessionRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_sessions SET is_active = FALSE
		WHERE id = $1
	`, id)
	return err
}

func (r *PostgresSessionRepository) DeactivateAll(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_sessions SET is_active = FALSE
		WHERE user_id = $1 AND is_active
	`, userID)
	return err
}

func (r *PostgresSessionRepository) DeactivateByUserIP(ctx context.Context, userID, ip string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_sessions SET is_active = FALSE
		WHERE user_id = $1 AND ip_address = $2 AND is_active
	`, userID, ip)
	return err
}

func (r *PostgresSessionRepository) ListActive(ctx context.Context, userID string) ([]*domain.UserSession, error) {
	query := `
		SELECT id, user_id, session_key, ip_address, user_agent, device_info, created_at, last_activity, is_active
		FROM user_sessions
		WHERE user_id = $1 AND is_active
		ORDER BY last_activity DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.UserSession
	for rows.Next() {
		var s domain.UserSession
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.SessionKey, &s.IPAddress, &s.UserAgent, &s.DeviceInfo,
			&s.CreatedAt, &s.LastActivity, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// HasPriorSession reports whether the user has ever had a session from
// this IP, active or not.
func (r *PostgresSessionRepository) HasPriorSession(ctx context.Context, userID, ip string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_sessions WHERE user_id = $1 AND ip_address = $2
		)
	`, userID, ip).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check prior sessions: %w", err)
	}
	return exists, nil
}

// DeactivateIdle closes sessions with no activity since the cutoff. Only
// the cleanup job calls this.
func (r *PostgresSessionRepository) DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_sessions SET is_active = FALSE
		WHERE is_active AND last_activity < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate idle sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
