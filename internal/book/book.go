// Package book serves /api/Book.
package book

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidReference is returned when authorId or categoryId points at nothing.
	ErrInvalidReference = errors.New("invalid reference")
)

// InvalidReferenceError names the request field whose foreign key failed.
type InvalidReferenceError struct {
	Field string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s does not reference an existing row", e.Field)
}

func (e *InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

var constraintFields = map[string]string{
	"books_author_id_fkey":   "authorId",
	"books_category_id_fkey": "categoryId",
}

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 50
)
