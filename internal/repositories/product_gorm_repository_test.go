package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB returns a migrated, private in-memory SQLite database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

type fixture struct {
	products    repositories.ProductRepository
	electronics models.Category
	clothing    models.Category
	books       models.Category
}

type productRow struct {
	name        string
	description string
	price       string
	rating      float64
	inStock     bool
	categories  []models.Category
	images      int
}

func buildCatalog(t *testing.T, products repositories.ProductRepository, categories repositories.CategoryRepository) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{products: products}

	f.electronics = models.Category{Name: "Electronics"}
	f.clothing = models.Category{Name: "Clothing"}
	f.books = models.Category{Name: "Books"}
	require.NoError(t, categories.Create(ctx, &f.electronics))
	require.NoError(t, categories.Create(ctx, &f.clothing))
	require.NoError(t, categories.Create(ctx, &f.books))

	rows := []productRow{
		{"Premium Laptop 1", "A fast machine for work", "599.99", 4.5, true, []models.Category{f.electronics}, 2},
		{"Classic Jacket 2", "Warm winter jacket", "89.50", 3.9, true, []models.Category{f.clothing}, 1},
		{"Smart Watch 3", "Pairs with your LAPTOP and phone", "250.00", 4.1, false, []models.Category{f.electronics, f.books}, 1},
		{"Eco Notebook 4", "100% recycled_paper", "12.00", 2.5, true, []models.Category{f.books}, 3},
		{"Ultra Laptop 5", "Gaming rig", "1000.00", 5.0, false, []models.Category{f.electronics, f.clothing}, 1},
	}
	for i, s := range rows {
		p := &models.Product{
			Name:        s.name,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
			Rating:      s.rating,
			InStock:     s.inStock,
			Categories:  s.categories,
		}
		for j := 0; j < s.images; j++ {
			p.Images = append(p.Images, models.Image{URL: fmt.Sprintf("https://picsum.photos/seed/%d/400/400", (i+1)*10+j)})
		}
		require.NoError(t, products.Create(ctx, p))
	}
	return f
}

func newGORMFixture(t *testing.T) fixture {
	db := openTestDB(t)
	return buildCatalog(t,
		repositories.NewGORMProductRepository(db),
		repositories.NewGORMCategoryRepository(db),
	)
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestGORMProductRepository_Scenario(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	categories := repositories.NewGORMCategoryRepository(db)
	products := repositories.NewGORMProductRepository(db)

	electronics := models.Category{Name: "Electronics"}
	clothing := models.Category{Name: "Clothing"}
	require.NoError(t, categories.Create(ctx, &electronics))
	require.NoError(t, categories.Create(ctx, &clothing))
	require.NoError(t, products.Create(ctx, &models.Product{
		Name:        "Premium Laptop 1",
		Description: "Discover the amazing Premium Laptop 1.",
		Price:       decimal.RequireFromString("599.99"),
		Rating:      4.2,
		InStock:     true,
		Categories:  []models.Category{electronics},
	}))

	got, total, err := products.List(ctx, repositories.ProductFilter{
		Query:       strPtr("laptop"),
		MinPrice:    floatPtr(500),
		MaxPrice:    floatPtr(700),
		InStock:     boolPtr(true),
		CategoryIDs: []uint{electronics.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, "Premium Laptop 1", got[0].Name)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("599.99")), "price was %s", got[0].Price)

	got, total, err = products.List(ctx, repositories.ProductFilter{
		Query:       strPtr("laptop"),
		CategoryIDs: []uint{clothing.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, got)
}

func TestGORMProductRepository_Predicates(t *testing.T) {
	f := newGORMFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter repositories.ProductFilter
		want   []string
	}{
		{
			name:   "no predicates matches everything",
			filter: repositories.ProductFilter{},
			want:   []string{"Premium Laptop 1", "Classic Jacket 2", "Smart Watch 3", "Eco Notebook 4", "Ultra Laptop 5"},
		},
		{
			name:   "text search is case-insensitive over name or description",
			filter: repositories.ProductFilter{Query: strPtr("LaPtOp")},
			want:   []string{"Premium Laptop 1", "Smart Watch 3", "Ultra Laptop 5"},
		},
		{
			name:   "empty query is no constraint",
			filter: repositories.ProductFilter{Query: strPtr("")},
			want:   []string{"Premium Laptop 1", "Classic Jacket 2", "Smart Watch 3", "Eco Notebook 4", "Ultra Laptop 5"},
		},
		{
			name:   "percent sign is literal",
			filter: repositories.ProductFilter{Query: strPtr("100%")},
			want:   []string{"Eco Notebook 4"},
		},
		{
			name:   "underscore is literal",
			filter: repositories.ProductFilter{Query: strPtr("d_p")},
			want:   []string{"Eco Notebook 4"},
		},
		{
			name:   "price bounds are inclusive",
			filter: repositories.ProductFilter{MinPrice: floatPtr(89.5), MaxPrice: floatPtr(250)},
			want:   []string{"Classic Jacket 2", "Smart Watch 3"},
		},
		{
			name:   "min price only",
			filter: repositories.ProductFilter{MinPrice: floatPtr(599.99)},
			want:   []string{"Premium Laptop 1", "Ultra Laptop 5"},
		},
		{
			name:   "out of stock only",
			filter: repositories.ProductFilter{InStock: boolPtr(false)},
			want:   []string{"Smart Watch 3", "Ultra Laptop 5"},
		},
		{
			name:   "category filter matches any of the given categories",
			filter: repositories.ProductFilter{CategoryIDs: []uint{f.clothing.ID, f.books.ID}},
			want:   []string{"Classic Jacket 2", "Smart Watch 3", "Eco Notebook 4", "Ultra Laptop 5"},
		},
		{
			name: "all predicates are combined with AND",
			filter: repositories.ProductFilter{
				Query:       strPtr("laptop"),
				InStock:     boolPtr(false),
				CategoryIDs: []uint{f.books.ID},
			},
			want: []string{"Smart Watch 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := f.products.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestGORMProductRepository_Sort(t *testing.T) {
	f := newGORMFixture(t)
	ctx := context.Background()

	got, _, err := f.products.List(ctx, repositories.ProductFilter{Sort: repositories.SortPrice, Direction: repositories.Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Eco Notebook 4", "Classic Jacket 2", "Smart Watch 3", "Premium Laptop 1", "Ultra Laptop 5"}, names(got))

	// Direction defaults to descending
	got, _, err = f.products.List(ctx, repositories.ProductFilter{Sort: repositories.SortPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ultra Laptop 5", "Premium Laptop 1", "Smart Watch 3", "Classic Jacket 2", "Eco Notebook 4"}, names(got))

	got, _, err = f.products.List(ctx, repositories.ProductFilter{Sort: repositories.SortRating, Direction: repositories.Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ultra Laptop 5", "Premium Laptop 1", "Smart Watch 3", "Classic Jacket 2", "Eco Notebook 4"}, names(got))

	// Relevance has no ranking function and imposes no order
	got, total, err := f.products.List(ctx, repositories.ProductFilter{Sort: repositories.SortRelevance, Query: strPtr("laptop")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.ElementsMatch(t, []string{"Premium Laptop 1", "Smart Watch 3", "Ultra Laptop 5"}, names(got))
}

func TestGORMProductRepository_PaginationMatchesCount(t *testing.T) {
	f := newGORMFixture(t)
	ctx := context.Background()

	filter := repositories.ProductFilter{
		CategoryIDs: []uint{f.electronics.ID, f.books.ID},
		PageSize:    2,
		Sort:        repositories.SortPrice,
		Direction:   repositories.Asc,
	}

	var collected []string
	var total int64
	for page := 1; page <= 10; page++ {
		filter.Page = page
		got, n, err := f.products.List(ctx, filter)
		require.NoError(t, err)
		total = n
		if len(got) == 0 {
			break
		}
		assert.LessOrEqual(t, len(got), 2)
		collected = append(collected, names(got)...)
	}
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Eco Notebook 4", "Smart Watch 3", "Premium Laptop 1", "Ultra Laptop 5"}, collected)

	// A page past the end is empty but still carries the true total
	filter.Page = 5
	got, n, err := f.products.List(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int64(4), n)
}

func TestGORMProductRepository_ListPreloadsDetails(t *testing.T) {
	f := newGORMFixture(t)

	got, _, err := f.products.List(context.Background(), repositories.ProductFilter{Query: strPtr("Smart Watch")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Images, 1)
	// categories come back ordered by name
	require.Len(t, got[0].Categories, 2)
	assert.Equal(t, "Books", got[0].Categories[0].Name)
	assert.Equal(t, "Electronics", got[0].Categories[1].Name)
}

func TestGORMProductRepository_GetByID(t *testing.T) {
	f := newGORMFixture(t)
	ctx := context.Background()

	list, _, err := f.products.List(ctx, repositories.ProductFilter{Query: strPtr("Eco Notebook")})
	require.NoError(t, err)
	require.Len(t, list, 1)

	product, err := f.products.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Eco Notebook 4", product.Name)
	assert.Len(t, product.Images, 3)
	for _, img := range product.Images {
		assert.Equal(t, product.ID, img.ProductID)
	}
	require.Len(t, product.Categories, 1)
	assert.Equal(t, "Books", product.Categories[0].Name)

	_, err = f.products.GetByID(ctx, 999999)
	assert.True(t, errors.Is(err, repositories.ErrNotFound), "got %v", err)
}

func TestGORMRepositories_NoStore(t *testing.T) {
	ctx := context.Background()

	_, _, err := repositories.NewGORMProductRepository(nil).List(ctx, repositories.ProductFilter{})
	assert.ErrorIs(t, err, repositories.ErrNoStore)
	_, err = repositories.NewGORMProductRepository(nil).GetByID(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrNoStore)
	_, err = repositories.NewGORMCategoryRepository(nil).List(ctx)
	assert.ErrorIs(t, err, repositories.ErrNoStore)
	_, err = repositories.NewGORMUserRepository(nil).GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, repositories.ErrNoStore)
}

func TestGORMCategoryRepository_ListSortedByName(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Toys", "Books", "Music", "Automotive"} {
		require.NoError(t, repo.Create(ctx, &models.Category{Name: name}))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	gotNames := make([]string, 0, len(got))
	for _, c := range got {
		gotNames = append(gotNames, c.Name)
	}
	assert.Equal(t, []string{"Automotive", "Books", "Music", "Toys"}, gotNames)

	err = repo.Create(ctx, &models.Category{Name: "Toys"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestGORMUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "test@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = repo.Create(ctx, &models.User{Email: "test@example.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}
