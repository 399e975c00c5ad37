package service

import (
	"context"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/repository"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// CategoryService serves the per-type category lists the submission
// form renders its choices from.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService wires the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListByType returns the categories for one request kind, sorted by
// name. A type slug outside the known kinds addresses a list that does
// not exist, so it comes back as not found.
func (s *CategoryService) ListByType(ctx context.Context, t domain.RequestType) ([]domain.Category, error) {
	if !t.Valid() {
		return nil, apperrors.NewNotFound("category type", map[string]any{
			"request_type": string(t),
		})
	}
	list, err := s.categories.ListByType(ctx, t)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}
