package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`
CREATE TABLE carts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	items TEXT NOT NULL,
	total_items INTEGER NOT NULL,
	total_price NUMERIC NOT NULL,
	created_at DATETIME,
	updated_at DATETIME
)`).Error)
	return conn
}

func TestRepositoryGetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newCartTestDB(t))
	userID := uuid.New()

	first, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, first.IsEmpty())
	assert.NotNil(t, first.Items)

	second, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRepositorySaveRoundTripsLines(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newCartTestDB(t))
	userID := uuid.New()
	productID := uuid.New()

	cart, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	snap := types.NewPriceSnapshot(productID, "Headphones", decimal.RequireFromString("59.90"), "https://cdn/h.png")
	require.NoError(t, AddLine(cart, snap, 2, map[string]string{"color": "black"}))
	require.NoError(t, repo.Save(ctx, cart))

	loaded, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	line := loaded.Items[0]
	assert.Equal(t, productID, line.ProductID())
	assert.Equal(t, "Headphones", line.Snapshot.Name())
	assert.True(t, line.Snapshot.Price().Equal(decimal.RequireFromString("59.90")))
	assert.Equal(t, map[string]string{"color": "black"}, line.SelectedOptions)
	assert.Equal(t, 2, loaded.TotalItems)
	assert.True(t, loaded.TotalPrice.Equal(decimal.RequireFromString("119.80")))
}

func TestRepositoryFindByUserMissing(t *testing.T) {
	repo := NewRepository(newCartTestDB(t))

	_, err := repo.FindByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
