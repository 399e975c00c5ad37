package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sfrp-tup/helpline/internal/api/dto"
	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/service"
)

// CategoriesHandler serves the category lists the submission form needs.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// ListByType GET /api/categories/:type.
func (h *CategoriesHandler) ListByType(c *fiber.Ctx) error {
	t := domain.RequestType(c.Params("type"))
	list, err := h.categories.ListByType(c.UserContext(), t)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, category := range list {
		items = append(items, dto.CategoryResponse{
			ID:          category.ID,
			RequestType: category.RequestType,
			Name:        category.Name,
			Description: category.Description,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
