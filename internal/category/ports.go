package category

import (
	"context"

	"bookreview/internal/entity"
)

// Repository defines the contract for category storage.
type Repository interface {
	GetAll(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (entity.Category, error)
	// Add inserts c and sets c.ID.
	Add(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	// Delete removes the row; deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
