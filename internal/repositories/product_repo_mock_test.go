package repositories_test

import (
	"context"
	"math"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryFixture(t *testing.T) fixture {
	return buildCatalog(t,
		repositories.NewMockProductRepository(),
		repositories.NewMockCategoryRepository(),
	)
}

// The in-memory repository stands in for the database in service and handler
// tests, so it must select exactly the rows the SQL query builder selects.
func TestMockProductRepository_MatchesGORM(t *testing.T) {
	sqlFixture := newGORMFixture(t)
	memFixture := newMemoryFixture(t)
	ctx := context.Background()

	// Both fixtures create categories in the same order, so IDs line up.
	require.Equal(t, sqlFixture.books.ID, memFixture.books.ID)

	filters := []repositories.ProductFilter{
		{},
		{Query: strPtr("laptop")},
		{Query: strPtr("JACKET")},
		{Query: strPtr("100%")},
		{MinPrice: floatPtr(89.5)},
		{MaxPrice: floatPtr(250)},
		{MinPrice: floatPtr(12), MaxPrice: floatPtr(12)},
		{InStock: boolPtr(true)},
		{InStock: boolPtr(false), Query: strPtr("laptop")},
		{CategoryIDs: []uint{sqlFixture.clothing.ID}},
		{CategoryIDs: []uint{sqlFixture.clothing.ID, sqlFixture.books.ID}, MaxPrice: floatPtr(300)},
		{Sort: repositories.SortPrice, Direction: repositories.Asc, PageSize: 2, Page: 2},
		{Sort: repositories.SortRating, PageSize: 3},
		{Page: 9},
	}

	for _, filter := range filters {
		sqlRows, sqlTotal, err := sqlFixture.products.List(ctx, filter)
		require.NoError(t, err)
		memRows, memTotal, err := memFixture.products.List(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, sqlTotal, memTotal, "total for %+v", filter)
		if filter.Sort.Column() != "" {
			assert.Equal(t, names(sqlRows), names(memRows), "rows for %+v", filter)
		} else {
			assert.ElementsMatch(t, names(sqlRows), names(memRows), "rows for %+v", filter)
		}
	}
}

func TestMockProductRepository_MatchesGORM_NonASCII(t *testing.T) {
	ctx := context.Background()
	stores := map[string]repositories.ProductRepository{
		"gorm":   repositories.NewGORMProductRepository(openTestDB(t)),
		"memory": repositories.NewMockProductRepository(),
	}
	for _, products := range stores {
		for _, name := range []string{"Élite Café", "Plain Mug"} {
			require.NoError(t, products.Create(ctx, &models.Product{Name: name, Description: "Hand made"}))
		}
	}

	want := map[string]int64{
		"Élite": 1, "ÉLITE": 1, "élite": 0,
		"lite caf": 1, "LITE CAF": 1, "café": 1, "CAFÉ": 0,
		"hand MADE": 2,
	}
	for q, total := range want {
		for store, products := range stores {
			_, got, err := products.List(ctx, repositories.ProductFilter{Query: strPtr(q)})
			require.NoError(t, err)
			assert.Equal(t, total, got, "%s total for q=%q", store, q)
		}
	}
}

func TestProductRepositories_HugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	fixtures := map[string]fixture{
		"gorm":   newGORMFixture(t),
		"memory": newMemoryFixture(t),
	}

	for name, f := range fixtures {
		t.Run(name, func(t *testing.T) {
			for _, filter := range []repositories.ProductFilter{
				{Page: 1 << 62, PageSize: 4},
				{Page: 2, PageSize: math.MaxInt},
				{Page: math.MaxInt, PageSize: math.MaxInt, Sort: repositories.SortPrice},
			} {
				got, total, err := f.products.List(ctx, filter)
				require.NoError(t, err)
				assert.Empty(t, got, "rows for %+v", filter)
				assert.Equal(t, int64(5), total, "total for %+v", filter)
			}

			got, total, err := f.products.List(ctx, repositories.ProductFilter{PageSize: math.MaxInt})
			require.NoError(t, err)
			assert.Len(t, got, 5)
			assert.Equal(t, int64(5), total)
		})
	}
}

func TestMockProductRepository_GetByID(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()

	p, err := f.products.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Eco Notebook 4", p.Name)
	assert.Len(t, p.Images, 3)
	assert.Equal(t, uint(4), p.Images[0].ProductID)

	_, err = f.products.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMockCategoryRepository(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	ctx := context.Background()

	for _, name := range []string{"Toys", "Books", "Music"} {
		require.NoError(t, repo.Create(ctx, &models.Category{Name: name}))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Books", got[0].Name)
	assert.Equal(t, "Music", got[1].Name)
	assert.Equal(t, "Toys", got[2].Name)

	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "Toys"}), repositories.ErrDuplicate)
}
