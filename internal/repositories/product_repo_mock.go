package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It applies the same predicates as the GORM query builder.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// matches reports whether p satisfies every active predicate of f.
func matches(p models.Product, f ProductFilter) bool {
	if f.Query != nil && *f.Query != "" {
		// Folds like the SQLite store: ASCII letters only.
		q := asciiLower(*f.Query)
		if !strings.Contains(asciiLower(p.Name), q) &&
			!strings.Contains(asciiLower(p.Description), q) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price.LessThan(decimal.NewFromFloat(*f.MinPrice)) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(decimal.NewFromFloat(*f.MaxPrice)) {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if len(f.CategoryIDs) > 0 && !p.HasCategory(f.CategoryIDs...) {
		return false
	}
	return true
}

func less(a, b models.Product, key SortKey) bool {
	switch key {
	case SortPrice:
		return a.Price.LessThan(b.Price)
	case SortRating:
		return a.Rating < b.Rating
	case SortCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	default:
		return false
	}
}

// List returns one page of matching products, in ID order unless a sort column is set.
func (r *MockProductRepository) List(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f := filter.Normalized()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, f) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if f.Sort.Column() != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			if f.Direction == Asc {
				return less(matched[i], matched[j], f.Sort)
			}
			return less(matched[j], matched[i], f.Sort)
		})
	}

	total := int64(len(matched))
	start := f.Offset()
	if start < 0 || start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := len(matched)
	if f.PageSize < end-start {
		end = start + f.PageSize
	}
	page := make([]models.Product, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product, assigning an ID and creation time when unset.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	for i := range product.Images {
		product.Images[i].ProductID = product.ID
	}
	r.products[product.ID] = *product
	return nil
}
