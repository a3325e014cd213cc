package database

import (
	"context"
	"fmt"
	"math/rand"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CategoryNames are the categories created by Seed, in creation order.
var CategoryNames = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Garden",
	"Sports",
	"Toys",
	"Health",
	"Automotive",
	"Food",
	"Music",
}

var (
	productAdjectives = []string{
		"Premium", "Classic", "Modern", "Vintage", "Deluxe",
		"Essential", "Professional", "Ultra", "Smart", "Eco",
	}
	productNouns = []string{
		"Laptop", "Headphones", "Camera", "Watch", "Backpack",
		"Sneakers", "Jacket", "Chair", "Lamp", "Keyboard",
		"Monitor", "Tablet", "Speaker", "Wallet", "Sunglasses",
		"Bottle", "Notebook", "Charger", "Mouse", "Desk",
	}
	descriptionTemplates = []string{
		"Discover the amazing %s. Built with quality materials and designed for everyday use.",
		"The %s offers exceptional performance and style. Perfect for your daily needs.",
		"Experience excellence with the %s. Crafted with attention to detail and durability.",
		"Introducing the %s - your perfect companion for work and play.",
		"The %s combines functionality with elegant design. A must-have item.",
	}
)

const seedBatchSize = 100

// SeedOptions controls the amount and shape of generated data.
type SeedOptions struct {
	Count    int    // number of users and of products
	Password string // shared plaintext password for every seeded user
	Seed     int64  // random source seed; the same seed yields the same data
}

// SeedResult reports how many rows were written.
type SeedResult struct {
	Users      int
	Categories int
	Products   int
}

// Seed wipes the catalog tables and fills them with generated data.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) (SeedResult, error) {
	var res SeedResult
	if opts.Count < 0 {
		return res, fmt.Errorf("seed count must not be negative, got %d", opts.Count)
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return res, fmt.Errorf("failed to hash seed password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}

		if opts.Count > 0 {
			users := make([]models.User, 0, opts.Count)
			for i := 1; i <= opts.Count; i++ {
				users = append(users, models.User{
					Email:        fmt.Sprintf("user-%d@hovarlay.com", i),
					PasswordHash: string(hash),
				})
			}
			if err := tx.CreateInBatches(&users, seedBatchSize).Error; err != nil {
				return fmt.Errorf("failed to create users: %w", err)
			}
			res.Users = len(users)
		}

		categories := make([]models.Category, 0, len(CategoryNames))
		for _, name := range CategoryNames {
			categories = append(categories, models.Category{Name: name})
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to create categories: %w", err)
		}
		res.Categories = len(categories)

		if opts.Count > 0 {
			products := make([]models.Product, 0, opts.Count)
			for i := 1; i <= opts.Count; i++ {
				products = append(products, generateProduct(rng, i, categories))
			}
			if err := tx.CreateInBatches(&products, seedBatchSize).Error; err != nil {
				return fmt.Errorf("failed to create products: %w", err)
			}
			res.Products = len(products)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}

// clearTables deletes children before parents.
func clearTables(tx *gorm.DB) error {
	if err := tx.Exec("DELETE FROM product_categories").Error; err != nil {
		return fmt.Errorf("failed to clear product categories: %w", err)
	}
	for _, model := range []interface{}{&models.Image{}, &models.Product{}, &models.Category{}, &models.User{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

func generateProduct(rng *rand.Rand, index int, categories []models.Category) models.Product {
	name := fmt.Sprintf("%s %s %d",
		productAdjectives[rng.Intn(len(productAdjectives))],
		productNouns[rng.Intn(len(productNouns))],
		index,
	)

	// $10.00 to $1000.00, rating 1.0 to 5.0, ~80% in stock.
	priceCents := int64(rng.Intn(99000) + 1000)
	rating := float64(rng.Intn(41)+10) / 10
	inStock := rng.Float64() > 0.2

	numCategories := rng.Intn(3) + 1
	picked := make([]models.Category, 0, numCategories)
	for _, idx := range rng.Perm(len(categories))[:numCategories] {
		picked = append(picked, categories[idx])
	}

	numImages := rng.Intn(4) + 1
	images := make([]models.Image, 0, numImages)
	for idx := 0; idx < numImages; idx++ {
		images = append(images, models.Image{
			URL: fmt.Sprintf("https://picsum.photos/seed/%d/400/400", index*10+idx),
		})
	}

	return models.Product{
		Name:        name,
		Description: fmt.Sprintf(descriptionTemplates[rng.Intn(len(descriptionTemplates))], name),
		Price:       decimal.New(priceCents, -2),
		Rating:      rating,
		InStock:     inStock,
		Images:      images,
		Categories:  picked,
	}
}
