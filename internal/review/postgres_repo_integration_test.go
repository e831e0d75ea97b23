//go:build integration

package review

import (
	"context"
	"testing"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Reviews(t *testing.T) {
	pool := testutil.NewPostgres(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()

	seed := func(t *testing.T) (bookID int64, userID string) {
		testutil.Truncate(t, pool)
		userID = testutil.InsertUser(t, pool, "u-1", "reader@example.com")
		authorID := testutil.InsertAuthor(t, pool, "Frank", "Herbert")
		bookID = testutil.InsertBook(t, pool, "Dune", time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), authorID, nil)
		return bookID, userID
	}

	t.Run("average is zero without reviews", func(t *testing.T) {
		testutil.Truncate(t, pool)
		avg, err := repo.AverageRating(ctx)
		require.NoError(t, err)
		assert.Zero(t, avg)
	})

	t.Run("add stamps created date and loads book and user", func(t *testing.T) {
		bookID, userID := seed(t)

		rv := &entity.Review{Content: "Spice", Rating: 5, BookID: bookID, UserID: userID}
		require.NoError(t, repo.Add(ctx, rv))
		require.NotZero(t, rv.ID)
		assert.WithinDuration(t, time.Now(), rv.CreatedDate, time.Minute)

		got, err := repo.GetByID(ctx, rv.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Book)
		assert.Equal(t, "Dune", got.Book.Title)
		require.NotNil(t, got.User)
		assert.Equal(t, "reader@example.com", got.User.Email)
	})

	t.Run("rating outside range hits the check constraint", func(t *testing.T) {
		bookID, userID := seed(t)
		err := repo.Add(ctx, &entity.Review{Content: "Too good", Rating: 6, BookID: bookID, UserID: userID})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("unknown book is an invalid reference", func(t *testing.T) {
		_, userID := seed(t)
		err := repo.Add(ctx, &entity.Review{Content: "?", Rating: 3, BookID: 999, UserID: userID})

		var refErr *InvalidReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "bookId", refErr.Field)
	})

	t.Run("by book and average", func(t *testing.T) {
		bookID, userID := seed(t)
		testutil.InsertReview(t, pool, bookID, userID, 4)
		testutil.InsertReview(t, pool, bookID, userID, 3)

		reviews, err := repo.GetByBookID(ctx, bookID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)

		exists, err := repo.BookExists(ctx, bookID)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.BookExists(ctx, bookID+100)
		require.NoError(t, err)
		assert.False(t, exists)

		avg, err := repo.AverageRating(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 3.5, avg, 0.0001)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("delete absent is a no-op", func(t *testing.T) {
		testutil.Truncate(t, pool)
		assert.NoError(t, repo.Delete(ctx, 12345))
	})
}
