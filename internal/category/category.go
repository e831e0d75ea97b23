// Package category serves /api/Category.
package category

import "errors"

var (
	// ErrNotFound is returned when a category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrConflict is returned when a category still has books.
	ErrConflict = errors.New("category is referenced by books")
)
