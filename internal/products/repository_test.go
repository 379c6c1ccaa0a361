package product

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`
CREATE TABLE products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	price NUMERIC NOT NULL,
	category TEXT NOT NULL,
	brand TEXT NOT NULL,
	images TEXT NOT NULL,
	inventory_quantity INTEGER NOT NULL,
	low_stock_threshold INTEGER NOT NULL,
	specifications TEXT,
	weight REAL,
	dimensions TEXT,
	tags TEXT,
	is_active BOOLEAN NOT NULL,
	is_featured BOOLEAN NOT NULL,
	average_rating REAL NOT NULL,
	review_count INTEGER NOT NULL,
	seo TEXT,
	created_at DATETIME,
	updated_at DATETIME
)`).Error)
	return conn
}

type productSeed struct {
	name     string
	brand    string
	category enums.ProductCategory
	price    string
	tags     []string
	active   bool
	featured bool
	stock    int
	age      time.Duration
}

func seedProduct(t *testing.T, repo *Repository, seed productSeed) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:              seed.name,
		Description:       seed.name + " description",
		Price:             decimal.RequireFromString(seed.price),
		Category:          seed.category,
		Brand:             seed.brand,
		Images:            []types.Image{{URL: "https://cdn.example.com/" + seed.name + ".png"}},
		InventoryQuantity: seed.stock,
		LowStockThreshold: models.DefaultLowStockThreshold,
		Tags:              pq.StringArray(seed.tags),
		IsActive:          seed.active,
		IsFeatured:        seed.featured,
		CreatedAt:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(-seed.age),
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func seedCatalog(t *testing.T, repo *Repository) map[string]*models.Product {
	t.Helper()
	out := map[string]*models.Product{}
	for _, seed := range []productSeed{
		{name: "Laptop", brand: "Acme", category: enums.ProductCategoryElectronics, price: "999.00", tags: []string{"computer"}, active: true, featured: true, stock: 5, age: time.Hour},
		{name: "Headphones", brand: "Sonic", category: enums.ProductCategoryElectronics, price: "59.90", tags: []string{"audio", "wireless"}, active: true, stock: 40, age: 2 * time.Hour},
		{name: "Novel", brand: "Paper Co", category: enums.ProductCategoryBooks, price: "12.50", active: true, stock: 100, age: 3 * time.Hour},
		{name: "Retired Phone", brand: "Acme", category: enums.ProductCategoryElectronics, price: "199.00", active: false, stock: 0, age: 4 * time.Hour},
	} {
		out[seed.name] = seedProduct(t, repo, seed)
	}
	return out
}

func names(rows []models.Product) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}
	return out
}

func TestRepositoryListFiltersActiveAndSortsNewestFirst(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	seedCatalog(t, repo)

	rows, total, err := repo.List(context.Background(), ListQuery{Pagination: pagination.Params{}.Normalize(DefaultPageLimit)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Laptop", "Headphones", "Novel"}, names(rows))
}

func TestRepositoryListFilters(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	seedCatalog(t, repo)
	electronics := enums.ProductCategoryElectronics
	minPrice := decimal.RequireFromString("50")
	maxPrice := decimal.RequireFromString("100")

	cases := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{name: "search matches tags", query: ListQuery{Search: "WIRELESS"}, want: []string{"Headphones"}},
		{name: "search matches brand", query: ListQuery{Search: "acme"}, want: []string{"Laptop"}},
		{name: "category", query: ListQuery{Category: &electronics}, want: []string{"Laptop", "Headphones"}},
		{name: "brand", query: ListQuery{Brand: "Paper Co"}, want: []string{"Novel"}},
		{name: "price range", query: ListQuery{MinPrice: &minPrice, MaxPrice: &maxPrice}, want: []string{"Headphones"}},
		{name: "featured", query: ListQuery{Featured: true}, want: []string{"Laptop"}},
		{name: "sort by price", query: ListQuery{Sort: "price"}, want: []string{"Novel", "Headphones", "Laptop"}},
		{name: "sort by name desc", query: ListQuery{Sort: "-name,bogus"}, want: []string{"Novel", "Laptop", "Headphones"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.query.Pagination = tc.query.Pagination.Normalize(DefaultPageLimit)
			rows, total, err := repo.List(context.Background(), tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(rows))
			assert.Equal(t, int64(len(tc.want)), total)
		})
	}
}

func TestRepositoryListPaginates(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	seedCatalog(t, repo)

	rows, total, err := repo.List(context.Background(), ListQuery{Pagination: pagination.Params{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Novel"}, names(rows))
}

func TestRepositoryFindActiveByIDSkipsInactive(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	catalog := seedCatalog(t, repo)
	ctx := context.Background()

	found, err := repo.FindActiveByID(ctx, catalog["Laptop"].ID)
	require.NoError(t, err)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("999")))
	assert.Equal(t, []string{"computer"}, []string(found.Tags))

	_, err = repo.FindActiveByID(ctx, catalog["Retired Phone"].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	anyState, err := repo.FindByID(ctx, catalog["Retired Phone"].ID)
	require.NoError(t, err)
	assert.False(t, anyState.IsActive)
}

func TestRepositoryDeactivate(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	catalog := seedCatalog(t, repo)
	ctx := context.Background()

	found, err := repo.Deactivate(ctx, catalog["Novel"].ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = repo.FindActiveByID(ctx, catalog["Novel"].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err = repo.Deactivate(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepositoryDistinctValuesIgnoreInactive(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	seedCatalog(t, repo)
	seedProduct(t, repo, productSeed{name: "Old Toy", brand: "Gone", category: enums.ProductCategoryToys, price: "1", active: false})
	ctx := context.Background()

	categories, err := repo.DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "electronics"}, categories)

	brands, err := repo.DistinctBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Paper Co", "Sonic"}, brands)
}

func TestRepositoryAdjustInventory(t *testing.T) {
	repo := NewRepository(newProductsTestDB(t))
	catalog := seedCatalog(t, repo)
	ctx := context.Background()
	id := catalog["Laptop"].ID

	require.NoError(t, repo.AdjustInventory(ctx, id, -3))
	require.NoError(t, repo.AdjustInventory(ctx, id, -4))

	product, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, -2, product.InventoryQuantity)

	require.NoError(t, repo.AdjustInventory(ctx, id, 2))
	product, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, product.InventoryQuantity)

	assert.ErrorIs(t, repo.AdjustInventory(ctx, uuid.New(), 1), gorm.ErrRecordNotFound)
}
