//go:build integration

package account

import (
	"context"
	"testing"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Users(t *testing.T) {
	pool := testutil.NewPostgres(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()

	t.Run("email is unique ignoring case", func(t *testing.T) {
		testutil.Truncate(t, pool)
		require.NoError(t, repo.CreateUser(ctx, &entity.User{ID: "u-1", Email: "ada@example.com", PasswordHash: "h"}))

		err := repo.CreateUser(ctx, &entity.User{ID: "u-2", Email: "ADA@example.com", PasswordHash: "h"})
		assert.ErrorIs(t, err, ErrEmailTaken)

		u, err := repo.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
	})

	t.Run("reset token is single use", func(t *testing.T) {
		testutil.Truncate(t, pool)
		require.NoError(t, repo.CreateUser(ctx, &entity.User{ID: "u-1", Email: "ada@example.com", PasswordHash: "old"}))

		now := time.Now()
		require.NoError(t, repo.CreateReset(ctx, PasswordReset{TokenHash: "t1", UserID: "u-1", ExpiresAt: now.Add(time.Hour)}))
		require.NoError(t, repo.CreateReset(ctx, PasswordReset{TokenHash: "t2", UserID: "u-1", ExpiresAt: now.Add(time.Hour)}))

		require.NoError(t, repo.ResetPassword(ctx, "t1", "new", now))

		u, err := repo.GetUserByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "new", u.PasswordHash)

		assert.ErrorIs(t, repo.ResetPassword(ctx, "t1", "again", now), ErrInvalidResetToken)
		assert.ErrorIs(t, repo.ResetPassword(ctx, "t2", "again", now), ErrInvalidResetToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		testutil.Truncate(t, pool)
		require.NoError(t, repo.CreateUser(ctx, &entity.User{ID: "u-1", Email: "ada@example.com", PasswordHash: "old"}))
		require.NoError(t, repo.CreateReset(ctx, PasswordReset{TokenHash: "t1", UserID: "u-1", ExpiresAt: time.Now().Add(-time.Minute)}))

		assert.ErrorIs(t, repo.ResetPassword(ctx, "t1", "new", time.Now()), ErrInvalidResetToken)
	})
}
