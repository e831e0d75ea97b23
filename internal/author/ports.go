package author

import (
	"context"

	"bookreview/internal/entity"
)

// Repository defines the contract for author storage.
type Repository interface {
	GetAll(ctx context.Context) ([]entity.Author, error)
	GetByID(ctx context.Context, id int64) (entity.Author, error)
	// Add inserts a and sets a.ID.
	Add(ctx context.Context, a *entity.Author) error
	Update(ctx context.Context, a *entity.Author) error
	// Delete removes the row; deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
