package category

import (
	"context"
	"fmt"

	"bookreview/internal/entity"
)

// Service provides category business logic.
type Service struct {
	repo Repository
}

// NewService creates a new category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]entity.Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (entity.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts c and returns the stored category as a later read would see it.
func (s *Service) Create(ctx context.Context, c entity.Category) (entity.Category, error) {
	if err := s.repo.Add(ctx, &c); err != nil {
		return entity.Category{}, fmt.Errorf("add category: %w", err)
	}
	return s.repo.GetByID(ctx, c.ID)
}

func (s *Service) Update(ctx context.Context, c entity.Category) error {
	if _, err := s.repo.GetByID(ctx, c.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, &c)
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
