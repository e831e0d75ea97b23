package client

import (
	"context"
	"fmt"
	"net/http"

	"bookreview/internal/entity"
)

type (
	authorT   = entity.Author
	bookT     = entity.Book
	categoryT = entity.Category
	reviewT   = entity.Review
)

// resource implements the CRUD and count calls every entity endpoint shares.
type resource[T any] struct {
	c    *Client
	path string
}

func (r resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, &out)
	return out, err
}

// Create posts v and returns the entity as stored by the server.
func (r resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, v, &out)
	return out, err
}

// Update replaces the entity at id. v must carry the same id.
func (r resource[T]) Update(ctx context.Context, id int64, v T) error {
	return r.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), v, nil)
}

func (r resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil)
}

func (r resource[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := r.c.do(ctx, http.MethodGet, r.path+"/count", nil, &n)
	return n, err
}

type AuthorService struct {
	resource[authorT]
}

type CategoryService struct {
	resource[categoryT]
}

type BookService struct {
	resource[bookT]
}

// Recent returns the most recently published books. limit <= 0 uses the server default.
func (s *BookService) Recent(ctx context.Context, limit int) ([]entity.Book, error) {
	path := s.path + "/recent"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out []entity.Book
	if err := s.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type ReviewService struct {
	resource[reviewT]
}

func (s *ReviewService) ForBook(ctx context.Context, bookID int64) ([]entity.Review, error) {
	var out []entity.Review
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/book/%d", s.path, bookID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReviewService) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := s.c.do(ctx, http.MethodGet, s.path+"/average-rating", nil, &avg)
	return avg, err
}
