package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
	"bookreview/internal/platform/database"
)

const selectUser = `SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepo) CreateUser(ctx context.Context, u *entity.User) error {
	defer metrics.ObserveQuery("users", "create", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(database.Classify(err), database.ErrUnique) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	defer metrics.ObserveQuery("users", "get_by_email", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, selectUser+` WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *PostgresRepo) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	defer metrics.ObserveQuery("users", "get_by_id", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *PostgresRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	defer metrics.ObserveQuery("users", "update_password", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) CreateReset(ctx context.Context, reset PasswordReset) error {
	defer metrics.ObserveQuery("password_resets", "create", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		reset.TokenHash, reset.UserID, reset.ExpiresAt,
	)
	return err
}

func (r *PostgresRepo) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) error {
	defer metrics.ObserveQuery("password_resets", "consume", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(ctx, `
			UPDATE password_resets SET used_at = $2
			WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
			RETURNING user_id`,
			tokenHash, now,
		).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidResetToken
			}
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
			userID, passwordHash,
		); err != nil {
			return err
		}

		// Any other outstanding token for this user is void once a reset succeeds.
		_, err = tx.Exec(ctx,
			`UPDATE password_resets SET used_at = $2 WHERE user_id = $1 AND used_at IS NULL`,
			userID, now,
		)
		return err
	})
}
