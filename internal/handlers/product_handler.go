package handlers

import (
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		productService: productService,
		logger:         logger.Named("product_handler"),
	}
}

// RegisterRoutes registers the product routes behind the auth middleware.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products", auth)
	productRoutes.Get("/", h.ListProducts)
	productRoutes.Get("/:id", h.GetProduct)
}

// ListProducts returns one page of products matching the query string.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter := parseProductFilter(c)

	page, err := h.productService.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"message":    "products retrieved",
		"data":       page.Products,
		"pagination": page.Pagination,
	})
}

// GetProduct returns one product with its images and categories.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}

	product, err := h.productService.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "product retrieved",
		"data":    product,
	})
}
