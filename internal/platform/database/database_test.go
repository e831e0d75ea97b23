package database

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectMigrations_ParsesEmbeddedDir(t *testing.T) {
	goose.SetBaseFS(migrationsFS)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(MigrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	assert.NotEmpty(t, migrations)
}

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, MigrationsDir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := fs.ReadFile(migrationsFS, MigrationsDir+"/"+e.Name())
		require.NoError(t, err)
		s := string(b)
		assert.Contains(t, s, "-- +goose Up", e.Name())
		assert.Contains(t, s, "-- +goose Down", e.Name())
	}
}

func TestClassify(t *testing.T) {
	t.Run("foreign key", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "books_author_id_fkey"}
		err := Classify(fmt.Errorf("insert: %w", pgErr))

		assert.True(t, errors.Is(err, ErrForeignKey))
		name, ok := ViolatedConstraint(err, ErrForeignKey)
		assert.True(t, ok)
		assert.Equal(t, "books_author_id_fkey", name)

		var target *pgconn.PgError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("unique", func(t *testing.T) {
		err := Classify(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_lower_key"})
		assert.True(t, errors.Is(err, ErrUnique))
		_, ok := ViolatedConstraint(err, ErrForeignKey)
		assert.False(t, ok)
	})

	t.Run("check", func(t *testing.T) {
		err := Classify(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "reviews_rating_check"})
		assert.True(t, errors.Is(err, ErrCheck))
	})

	t.Run("other pg error untouched", func(t *testing.T) {
		in := &pgconn.PgError{Code: pgerrcode.SyntaxError}
		assert.Same(t, in, Classify(in))
	})

	t.Run("plain error untouched", func(t *testing.T) {
		in := errors.New("boom")
		assert.Equal(t, in, Classify(in))
	})
}
