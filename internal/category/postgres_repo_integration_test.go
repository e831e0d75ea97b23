//go:build integration

package category

import (
	"context"
	"testing"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Categories(t *testing.T) {
	pool := testutil.NewPostgres(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()

	t.Run("crud", func(t *testing.T) {
		testutil.Truncate(t, pool)

		c := &entity.Category{Name: "Fiction"}
		require.NoError(t, repo.Add(ctx, c))
		require.NotZero(t, c.ID)

		desc := "Made up stories"
		require.NoError(t, repo.Update(ctx, &entity.Category{ID: c.ID, Name: "Novels", Description: &desc}))

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Novels", got.Name)
		require.NotNil(t, got.Description)
		assert.Equal(t, desc, *got.Description)
		assert.NotNil(t, got.Books)

		require.NoError(t, repo.Delete(ctx, c.ID))
		_, err = repo.GetByID(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("category with books cannot be deleted", func(t *testing.T) {
		testutil.Truncate(t, pool)
		catID := testutil.InsertCategory(t, pool, "Poetry")
		authorID := testutil.InsertAuthor(t, pool, "Sylvia", "Plath")
		testutil.InsertBook(t, pool, "Ariel", time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC), authorID, &catID)

		assert.ErrorIs(t, repo.Delete(ctx, catID), ErrConflict)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Len(t, all[0].Books, 1)
		assert.Equal(t, "Ariel", all[0].Books[0].Title)
	})

	t.Run("empty table lists as empty slice", func(t *testing.T) {
		testutil.Truncate(t, pool)
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})
}
