package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func preloadDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id") }).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name") })
}

// List runs the count query and the data query with the same filter scope.
// They are separate round trips; a row written in between may skew total by one.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	if r.db == nil {
		return nil, 0, ErrNoStore
	}
	f := filter.Normalized()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(filterScope(f)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if int64(f.Offset()) >= total {
		return []models.Product{}, total, nil
	}

	products := make([]models.Product, 0, min(f.PageSize, int(total)))
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(filterScope(f), sortScope(f), pageScope(f), preloadDetails).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product with its images and categories.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if r.db == nil {
		return nil, ErrNoStore
	}
	var product models.Product
	if err := r.db.WithContext(ctx).Scopes(preloadDetails).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a product together with its images and category links.
// Categories must already exist.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if r.db == nil {
		return ErrNoStore
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}
