// Package review serves /api/Review.
package review

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a review, or the book asked about, does not exist.
	ErrNotFound = errors.New("review not found")
	// ErrInvalidReference is returned when bookId or userId points at nothing.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidRating is returned when the store rejects a rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrUnauthenticated is returned when a write has no reviewer identity.
	ErrUnauthenticated = errors.New("reviewer identity required")
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
	"reviews_book_id_fkey": "bookId",
	"reviews_user_id_fkey": "userId",
}

const (
	MinRating = 1
	MaxRating = 5
)
