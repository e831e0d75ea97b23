package review

import (
	"context"

	"bookreview/internal/entity"
)

// Repository defines the contract for review storage.
type Repository interface {
	GetAll(ctx context.Context) ([]entity.Review, error)
	GetByID(ctx context.Context, id int64) (entity.Review, error)
	// Add inserts rv, sets rv.ID and rv.CreatedDate.
	Add(ctx context.Context, rv *entity.Review) error
	// Update replaces content, rating and book; reviewer and creation date are kept.
	Update(ctx context.Context, rv *entity.Review) error
	// Delete removes the row; deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	GetByBookID(ctx context.Context, bookID int64) ([]entity.Review, error)
	BookExists(ctx context.Context, bookID int64) (bool, error)
	// AverageRating returns 0 when there are no reviews.
	AverageRating(ctx context.Context) (float64, error)
}
