package handlers

import (
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CategoryHandler serves the category list.
type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService, logger *zap.Logger) *CategoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.Named("category_handler"),
	}
}

// RegisterRoutes registers the category routes behind the auth middleware.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/categories", auth, h.ListCategories)
}

// ListCategories returns every category sorted by name.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "categories retrieved",
		"data":    categories,
	})
}
