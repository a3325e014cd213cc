package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The frontend reads prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Rating      float64         `json:"rating" gorm:"not null"`
	InStock     bool            `json:"inStock" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"index"`
	Images      []Image         `json:"images" gorm:"constraint:OnDelete:CASCADE;"`
	Categories  []Category      `json:"categories" gorm:"many2many:product_categories;"`
}

// HasCategory reports whether the product is tagged with any of the given category IDs.
func (p *Product) HasCategory(ids ...uint) bool {
	for _, c := range p.Categories {
		for _, id := range ids {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}
