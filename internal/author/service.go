package author

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

func (s *Service) List(ctx context.Context) ([]entity.Author, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (entity.Author, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a and returns the stored author with its derived fields.
func (s *Service) Create(ctx context.Context, a entity.Author) (entity.Author, error) {
	if err := s.repo.Add(ctx, &a); err != nil {
		return entity.Author{}, fmt.Errorf("add author: %w", err)
	}
	return s.repo.GetByID(ctx, a.ID)
}

func (s *Service) Update(ctx context.Context, a entity.Author) error {
	if _, err := s.repo.GetByID(ctx, a.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, &a)
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
