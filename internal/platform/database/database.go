// Package database owns the PostgreSQL connection pool, the embedded schema
// migrations and the translation of driver errors into domain sentinels.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookreview/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsDir is the directory inside the embedded filesystem.
const MigrationsDir = "migrations"

// PoolConfig tunes the pgx pool.
type PoolConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	PingTimeout time.Duration
}

// Open creates a pool and verifies connectivity.
func Open(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	pc.MaxConnLifetime = 30 * time.Minute
	pc.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logging.Fatal().Msgf(format, v...)
}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logging.Info().Str("component", "migrate").Msgf(format, v...)
}

var (
	// ErrForeignKey is returned when a write references a missing row or a
	// delete would orphan referencing rows.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrUnique is returned on a unique constraint violation.
	ErrUnique = errors.New("unique violation")
	// ErrCheck is returned on a check constraint violation.
	ErrCheck = errors.New("check violation")
)

// ConstraintError carries the violated constraint name.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s on %s", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Classify wraps constraint violations in a *ConstraintError. Other errors are
// returned unchanged.
func Classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind error
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		kind = ErrForeignKey
	case pgerrcode.UniqueViolation:
		kind = ErrUnique
	case pgerrcode.CheckViolation:
		kind = ErrCheck
	default:
		return err
	}
	return &ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
}

// ViolatedConstraint reports the constraint name when err is a constraint
// violation of the given kind.
func ViolatedConstraint(err error, kind error) (string, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) && errors.Is(ce.Kind, kind) {
		return ce.Constraint, true
	}
	return "", false
}
