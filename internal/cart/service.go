package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	productNotFoundMessage   = "Product not found"
	insufficientStockMessage = "Insufficient stock"
	cartNotFoundMessage      = "Cart not found"
	lineNotFoundMessage      = "Item not found in cart"
	lineLimitMessage         = "Cannot add more than 99 items of the same product"
	invalidGuestCartMessage  = "Invalid guest cart data"
)

// Service exposes the shopper's cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, options map[string]string) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Merge(ctx context.Context, userID uuid.UUID, req MergeRequest) (*CartDTO, error)
}

type cartStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	carts    cartStore
	products productLoader
}

// NewService builds a cart service backed by the provided stores.
func NewService(carts cartStore, products productLoader) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{carts: carts, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	product, err := s.products.FindActiveByID(ctx, req.ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.InventoryQuantity < qty {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, insufficientStockMessage)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := AddLine(cart, product.Snapshot(), qty, req.Options); err != nil {
		return nil, mutationError(err)
	}
	return s.save(ctx, cart)
}

func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, req UpdateItemRequest) (*CartDTO, error) {
	qty := 0
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	cart, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}

	line, ok := FindLine(cart, req.ProductID, req.Options)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, lineNotFoundMessage)
	}
	if qty > line.Quantity {
		product, err := s.products.FindByID(ctx, req.ProductID)
		switch {
		case err == nil:
			if product.InventoryQuantity < qty {
				return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, insufficientStockMessage)
			}
		case !db.IsNotFound(err):
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
	}

	if err := UpdateQuantity(cart, req.ProductID, qty, req.Options); err != nil {
		return nil, mutationError(err)
	}
	return s.save(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID, options map[string]string) (*CartDTO, error) {
	cart, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	RemoveLine(cart, productID, options)
	return s.save(ctx, cart)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.existing(ctx, userID)
	if err != nil {
		return err
	}
	Clear(cart)
	if err := s.carts.Save(ctx, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
	}
	return nil
}

// Merge folds guest lines into the user's cart. Lines whose product is
// missing, inactive, short on stock or over the line limit are skipped.
func (s *service) Merge(ctx context.Context, userID uuid.UUID, req MergeRequest) (*CartDTO, error) {
	if req.GuestCart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidGuestCartMessage)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	for _, guest := range req.GuestCart {
		if guest.Quantity < 1 || guest.Product == uuid.Nil {
			continue
		}
		product, err := s.products.FindActiveByID(ctx, guest.Product)
		if err != nil {
			if db.IsNotFound(err) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if product.InventoryQuantity < guest.Quantity {
			continue
		}
		_ = AddLine(cart, product.Snapshot(), guest.Quantity, guest.SelectedOptions)
	}
	return s.save(ctx, cart)
}

func (s *service) existing(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, cartNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, cart *models.Cart) (*CartDTO, error) {
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
	}
	return FromModel(cart), nil
}

func mutationError(err error) error {
	switch {
	case errors.Is(err, ErrLineLimit):
		return pkgerrors.New(pkgerrors.CodeBusinessRule, lineLimitMessage)
	case errors.Is(err, ErrLineNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, lineNotFoundMessage)
	case errors.Is(err, ErrInvalidQuantity):
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart")
	}
}
