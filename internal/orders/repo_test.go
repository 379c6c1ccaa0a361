package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`
CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	order_number TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	items TEXT NOT NULL,
	shipping_address TEXT NOT NULL,
	billing_address TEXT NOT NULL,
	payment_method TEXT NOT NULL,
	payment_status TEXT NOT NULL,
	items_total NUMERIC NOT NULL,
	tax_price NUMERIC NOT NULL,
	shipping_price NUMERIC NOT NULL,
	total_price NUMERIC NOT NULL,
	status TEXT NOT NULL,
	tracking_number TEXT,
	notes TEXT,
	delivered_at DATETIME,
	cancelled_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME
)`).Error)
	return conn
}

func sampleOrder(userID uuid.UUID, createdAt time.Time) *models.Order {
	snap := types.NewPriceSnapshot(uuid.New(), "Laptop", decimal.RequireFromString("999.99"), "")
	addr := types.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US"}
	return &models.Order{
		UserID:          userID,
		Items:           []models.LineItem{{Snapshot: snap, Quantity: 1}},
		ShippingAddress: addr,
		BillingAddress:  addr,
		PaymentMethod:   enums.PaymentMethodCreditCard,
		PaymentStatus:   enums.PaymentStatusPending,
		ItemsTotal:      decimal.RequireFromString("999.99"),
		TaxPrice:        decimal.RequireFromString("80.00"),
		ShippingPrice:   decimal.Zero,
		TotalPrice:      decimal.RequireFromString("1079.99"),
		Status:          enums.OrderStatusPending,
		CreatedAt:       createdAt,
	}
}

func TestRepositoryCreateAssignsOrderNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newOrdersTestDB(t))
	userID := uuid.New()

	order := sampleOrder(userID, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"), order.OrderNumber)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, loaded.OrderNumber)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Laptop", loaded.Items[0].Snapshot.Name())
	assert.Equal(t, "Springfield", loaded.ShippingAddress.City)
	assert.True(t, loaded.TotalPrice.Equal(decimal.RequireFromString("1079.99")))
}

func TestRepositoryCreateRejectsExplicitDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newOrdersTestDB(t))
	userID := uuid.New()

	first := sampleOrder(userID, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	first.OrderNumber = "ORD-FIXED-0001"
	require.NoError(t, repo.Create(ctx, first))

	second := sampleOrder(userID, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC))
	second.OrderNumber = "ORD-FIXED-0001"
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, isOrderNumberCollision(err))
}

func TestRepositoryListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newOrdersTestDB(t))
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, sampleOrder(userID, base.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, repo.Create(ctx, sampleOrder(uuid.New(), base)))

	rows, total, err := repo.ListByUser(ctx, userID, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	rows, _, err = repo.ListByUser(ctx, userID, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRepositoryListAllFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newOrdersTestDB(t))
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	early := sampleOrder(uuid.New(), base)
	require.NoError(t, repo.Create(ctx, early))
	late := sampleOrder(uuid.New(), base.Add(48*time.Hour))
	late.Status = enums.OrderStatusShipped
	require.NoError(t, repo.Create(ctx, late))

	shipped := enums.OrderStatusShipped
	rows, total, err := repo.ListAll(ctx, AdminFilters{Status: &shipped}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, late.ID, rows[0].ID)

	start := base.Add(24 * time.Hour)
	rows, total, err = repo.ListAll(ctx, AdminFilters{StartDate: &start}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, late.ID, rows[0].ID)

	end := base.Add(time.Hour)
	rows, total, err = repo.ListAll(ctx, AdminFilters{EndDate: &end}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, early.ID, rows[0].ID)
}

func TestRepositorySavePersistsStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newOrdersTestDB(t))

	order := sampleOrder(uuid.New(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, order))

	tracking := "1Z999"
	order.Status = enums.OrderStatusShipped
	order.TrackingNumber = &tracking
	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, loaded.Status)
	require.NotNil(t, loaded.TrackingNumber)
	assert.Equal(t, "1Z999", *loaded.TrackingNumber)
}

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	number, err := NewOrderNumber(now)
	require.NoError(t, err)

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "ORD", parts[0])
	assert.Equal(t, strings.ToUpper("loyw3v28"), parts[1])
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(number), number)
}
