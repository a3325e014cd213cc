package models

// Category groups products; a product may belong to several categories.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
}

// Image is a product picture, owned by exactly one product.
type Image struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	URL       string `json:"url" gorm:"type:varchar(512);not null"`
	ProductID uint   `json:"productId" gorm:"index;not null"`
}
