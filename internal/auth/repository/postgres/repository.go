package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sauron136/custos/internal/auth/domain"
)

// PgxIface is the subset of pgxpool.Pool the repository uses, so tests
// can substitute a pgxmock pool.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, username, password_hash, first_name, last_name, phone_number, bio, timezone,
		email_notifications, push_notifications, is_active, is_verified, is_staff, is_superuser,
		date_joined, last_login, updated_at`

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.PhoneNumber,
		&u.Bio, &u.Timezone, &u.EmailNotifications, &u.PushNotifications, &u.IsActive, &u.IsVerified,
		&u.IsStaff, &u.IsSuperuser, &u.DateJoined, &u.LastLogin, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1)
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(username) = LOWER($1)
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, email, username, password_hash, first_name, last_name, phone_number, bio, timezone,
			email_notifications, push_notifications, is_active, is_verified, is_staff, is_superuser,
			date_joined, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNumber, user.Bio, user.Timezone, user.EmailNotifications, user.PushNotifications,
		user.IsActive, user.IsVerified, user.IsStaff, user.IsSuperuser, user.DateJoined, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET is_verified = TRUE, updated_at = now()
		WHERE id = $1
	`, userID)
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`, userID, passwordHash)
	return err
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = $2
		WHERE id = $1
	`, userID, at)
	return err
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET
			first_name = $2, last_name = $3, phone_number = $4, bio = $5, timezone = $6,
			email_notifications = $7, push_notifications = $8, updated_at = $9
		WHERE id = $1
	`, user.ID, user.FirstName, user.LastName, user.PhoneNumber, user.Bio, user.Timezone,
		user.EmailNotifications, user.PushNotifications, user.UpdatedAt)
	return err
}
