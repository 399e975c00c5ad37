package repository

import (
	"context"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// CategoryRepository reads the lookup values referenced by requests.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	ListByType(ctx context.Context, t domain.RequestType) ([]domain.Category, error)
}

type categoryRepository struct {
	db Querier
}

// NewCategoryRepository constructs repository.
func NewCategoryRepository(db Querier) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `
        SELECT id, request_type, name, description, created_at, updated_at
        FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.RequestType,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByType(ctx context.Context, t domain.RequestType) ([]domain.Category, error) {
	const query = `
        SELECT id, request_type, name, description, created_at, updated_at
        FROM categories WHERE request_type=$1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.RequestType,
			&category.Name,
			&category.Description,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
