// Package author serves /api/Author.
package author

import "errors"

var (
	// ErrNotFound is returned when an author does not exist.
	ErrNotFound = errors.New("author not found")
	// ErrConflict is returned when an author still has books.
	ErrConflict = errors.New("author is referenced by books")
)
