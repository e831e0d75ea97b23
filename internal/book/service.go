package book

import (
	"context"
	"fmt"

	"bookreview/internal/entity"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book with author, category and reviews.
func (s *Service) List(ctx context.Context) ([]entity.Book, error) {
	return s.repo.GetAll(ctx)
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, id int64) (entity.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts b and re-reads it so the result carries its relations.
func (s *Service) Create(ctx context.Context, b entity.Book) (entity.Book, error) {
	if err := s.repo.Add(ctx, &b); err != nil {
		return entity.Book{}, fmt.Errorf("add book: %w", err)
	}
	return s.repo.GetByID(ctx, b.ID)
}

// Update replaces every writable column of an existing book.
func (s *Service) Update(ctx context.Context, b entity.Book) error {
	if _, err := s.repo.GetByID(ctx, b.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, &b)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Recent clamps limit to [1, MaxRecentLimit].
func (s *Service) Recent(ctx context.Context, limit int) ([]entity.Book, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}
