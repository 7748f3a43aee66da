package service

import (
	"context"
	"fmt"

	"bazaar/internal/domain"
	"bazaar/internal/repository"

	"github.com/google/uuid"
)

// CategoryService defines the interface for category business logic.
// Categories are reference data: created out of band, never mutated here.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Get retrieves a category by ID
func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}
