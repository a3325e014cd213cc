package services

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/pagination"
)

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []models.Product
	Pagination pagination.Pagination
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns the requested page of products matching filter.
// A page past the last one is empty but still reports the true total.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) (*ProductPage, error) {
	if s.repo == nil {
		return nil, repositories.ErrNoStore
	}
	f := filter.Normalized()

	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return &ProductPage{
		Products:   products,
		Pagination: pagination.New(f.Page, f.PageSize, total),
	}, nil
}

// GetProduct retrieves a single product with its images and categories.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if s.repo == nil {
		return nil, repositories.ErrNoStore
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}
