package book

import (
	"context"

	"bookreview/internal/entity"
)

// Repository defines the contract for book data storage.
type Repository interface {
	GetAll(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	// Add inserts b and sets b.ID.
	Add(ctx context.Context, b *entity.Book) error
	Update(ctx context.Context, b *entity.Book) error
	// Delete removes the row; deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	// Recent returns up to limit books ordered by published date, newest first.
	Recent(ctx context.Context, limit int) ([]entity.Book, error)
}
