package review

import (
	"context"
	"fmt"

	"bookreview/internal/entity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]entity.Review, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (entity.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores rv on behalf of userID. Any userId sent by the client is ignored.
func (s *Service) Create(ctx context.Context, userID string, rv entity.Review) (entity.Review, error) {
	if userID == "" {
		return entity.Review{}, ErrUnauthenticated
	}
	rv.UserID = userID
	if err := s.repo.Add(ctx, &rv); err != nil {
		return entity.Review{}, fmt.Errorf("add review: %w", err)
	}
	return s.repo.GetByID(ctx, rv.ID)
}

func (s *Service) Update(ctx context.Context, rv entity.Review) error {
	if _, err := s.repo.GetByID(ctx, rv.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, &rv)
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

// ForBook lists the reviews of one book, or ErrNotFound when the book is missing.
func (s *Service) ForBook(ctx context.Context, bookID int64) ([]entity.Review, error) {
	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.repo.GetByBookID(ctx, bookID)
}

func (s *Service) AverageRating(ctx context.Context) (float64, error) {
	return s.repo.AverageRating(ctx)
}
