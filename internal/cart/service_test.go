package cart

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestServiceAddItemDefaultsToOneUnit(t *testing.T) {
	products := newStubProducts()
	laptop := products.add("Laptop", "999.00", 5, true)
	carts := newStubCarts()
	svc := mustService(t, carts, products)
	userID := uuid.New()

	dto, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: laptop.ID})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if dto.TotalItems != 1 || !dto.TotalPrice.Equal(decimal.RequireFromString("999")) {
		t.Fatalf("unexpected totals %d %s", dto.TotalItems, dto.TotalPrice)
	}
	if carts.saves != 1 {
		t.Fatalf("expected cart to be saved once, got %d", carts.saves)
	}
}

func TestServiceAddItemFailures(t *testing.T) {
	products := newStubProducts()
	active := products.add("Pen", "1.00", 3, true)
	inactive := products.add("Old Pen", "1.00", 3, false)
	plenty := products.add("Paper", "2.00", 500, true)
	userID := uuid.New()

	cases := []struct {
		name    string
		seed    int
		req     AddItemRequest
		code    pkgerrors.Code
		message string
	}{
		{name: "missing product", req: AddItemRequest{ProductID: uuid.New()}, code: pkgerrors.CodeNotFound, message: productNotFoundMessage},
		{name: "inactive product", req: AddItemRequest{ProductID: inactive.ID}, code: pkgerrors.CodeNotFound, message: productNotFoundMessage},
		{name: "insufficient stock", req: AddItemRequest{ProductID: active.ID, Quantity: intPtr(4)}, code: pkgerrors.CodeBusinessRule, message: insufficientStockMessage},
		{name: "line limit", seed: 90, req: AddItemRequest{ProductID: plenty.ID, Quantity: intPtr(10)}, code: pkgerrors.CodeBusinessRule, message: lineLimitMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			carts := newStubCarts()
			if tc.seed > 0 {
				cart := carts.seed(userID)
				_ = AddLine(cart, plenty.Snapshot(), tc.seed, nil)
			}
			svc := mustService(t, carts, products)

			_, err := svc.AddItem(context.Background(), userID, tc.req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code || typed.Message() != tc.message {
				t.Fatalf("expected %s %q, got %v", tc.code, tc.message, err)
			}
			if carts.saves != 0 {
				t.Fatalf("failed additions must not save the cart")
			}
		})
	}
}

func TestServiceUpdateItem(t *testing.T) {
	products := newStubProducts()
	mug := products.add("Mug", "8.00", 4, true)
	userID := uuid.New()
	carts := newStubCarts()
	cart := carts.seed(userID)
	_ = AddLine(cart, mug.Snapshot(), 2, nil)
	svc := mustService(t, carts, products)
	ctx := context.Background()

	if _, err := svc.UpdateItem(ctx, userID, UpdateItemRequest{ProductID: mug.ID, Quantity: intPtr(5)}); !pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule) {
		t.Fatalf("expected insufficient stock when increasing past inventory, got %v", err)
	}

	dto, err := svc.UpdateItem(ctx, userID, UpdateItemRequest{ProductID: mug.ID, Quantity: intPtr(4)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.TotalItems != 4 {
		t.Fatalf("expected 4 items, got %d", dto.TotalItems)
	}

	dto, err = svc.UpdateItem(ctx, userID, UpdateItemRequest{ProductID: mug.ID, Quantity: intPtr(0)})
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if !dto.IsEmpty {
		t.Fatalf("expected zero quantity to remove the line")
	}

	_, err = svc.UpdateItem(ctx, userID, UpdateItemRequest{ProductID: mug.ID, Quantity: intPtr(1)})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != lineNotFoundMessage {
		t.Fatalf("expected item not found, got %v", err)
	}
}

func TestServiceMutationsRequireExistingCart(t *testing.T) {
	svc := mustService(t, newStubCarts(), newStubProducts())
	ctx := context.Background()
	userID := uuid.New()

	checks := map[string]error{
		"update": func() error {
			_, err := svc.UpdateItem(ctx, userID, UpdateItemRequest{ProductID: uuid.New(), Quantity: intPtr(1)})
			return err
		}(),
		"remove": func() error {
			_, err := svc.RemoveItem(ctx, userID, uuid.New(), nil)
			return err
		}(),
		"clear": svc.Clear(ctx, userID),
	}
	for name, err := range checks {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound || typed.Message() != cartNotFoundMessage {
			t.Fatalf("%s: expected cart not found, got %v", name, err)
		}
	}
}

func TestServiceMergeSkipsUnavailableLines(t *testing.T) {
	products := newStubProducts()
	inStock := products.add("Cable", "5.00", 10, true)
	lowStock := products.add("Charger", "25.00", 1, true)
	retired := products.add("Dock", "80.00", 10, false)
	carts := newStubCarts()
	svc := mustService(t, carts, products)

	dto, err := svc.Merge(context.Background(), uuid.New(), MergeRequest{GuestCart: []GuestLine{
		{Product: inStock.ID, Quantity: 2},
		{Product: lowStock.ID, Quantity: 3},
		{Product: retired.ID, Quantity: 1},
		{Product: uuid.New(), Quantity: 1},
		{Product: inStock.ID, Quantity: 0},
	}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].ProductID != inStock.ID || dto.Items[0].Quantity != 2 {
		t.Fatalf("expected only the in-stock line, got %+v", dto.Items)
	}
}

func TestServiceMergeRejectsMissingPayload(t *testing.T) {
	svc := mustService(t, newStubCarts(), newStubProducts())

	_, err := svc.Merge(context.Background(), uuid.New(), MergeRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != invalidGuestCartMessage {
		t.Fatalf("expected invalid guest cart, got %v", err)
	}
}

func mustService(t *testing.T, carts cartStore, products productLoader) Service {
	t.Helper()
	svc, err := NewService(carts, products)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func intPtr(v int) *int { return &v }

type stubCarts struct {
	byUser map[uuid.UUID]*models.Cart
	saves  int
}

func newStubCarts() *stubCarts {
	return &stubCarts{byUser: map[uuid.UUID]*models.Cart{}}
}

func (s *stubCarts) seed(userID uuid.UUID) *models.Cart {
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	Recompute(cart)
	s.byUser[userID] = cart
	return cart
}

func (s *stubCarts) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if cart, ok := s.byUser[userID]; ok {
		return cart, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCarts) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if cart, ok := s.byUser[userID]; ok {
		return cart, nil
	}
	return s.seed(userID), nil
}

func (s *stubCarts) Save(ctx context.Context, cart *models.Cart) error {
	s.saves++
	s.byUser[cart.UserID] = cart
	return nil
}

type stubProducts struct {
	rows map[uuid.UUID]*models.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{rows: map[uuid.UUID]*models.Product{}}
}

func (s *stubProducts) add(name, price string, stock int, active bool) *models.Product {
	p := &models.Product{
		ID:                uuid.New(),
		Name:              name,
		Price:             decimal.RequireFromString(price),
		InventoryQuantity: stock,
		IsActive:          active,
	}
	s.rows[p.ID] = p
	return p
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.rows[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProducts) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.rows[id]; ok && p.IsActive {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
