package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
)

const (
	emptyCartMessage      = "Cart is empty"
	stockUpdatedMessage   = "Product stock updated after order"
	insufficientStockText = "Insufficient stock for %s"
)

// Service turns a user's cart into an order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req Request) (*orders.OrderDTO, error)
}

type cartStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type productStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) error
}

type orderCreator interface {
	Create(ctx context.Context, order *models.Order) error
}

type checkoutNotifier interface {
	OrderEvent(ctx context.Context, name enums.EventName, userID uuid.UUID, payload notifications.OrderPayload)
	StockUpdated(ctx context.Context, payload notifications.StockPayload)
}

// ServiceParams wires the checkout service. Policy defaults to DefaultPolicy;
// Metrics, Logger and Now are optional.
type ServiceParams struct {
	Carts    cartStore
	Products productStore
	Orders   orderCreator
	Notifier checkoutNotifier
	Policy   *Policy
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	carts    cartStore
	products productStore
	orders   orderCreator
	notifier checkoutNotifier
	policy   Policy
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	policy := DefaultPolicy()
	if params.Policy != nil {
		policy = *params.Policy
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		carts:    params.Carts,
		products: params.Products,
		orders:   params.Orders,
		notifier: params.Notifier,
		policy:   policy,
		metrics:  params.Metrics,
		logg:     logg,
		now:      now,
	}, nil
}

// Checkout runs as a sequence of independent writes: the order insert, one
// inventory decrement per line, then the cart reset. Nothing reserves stock
// between the availability check and the decrement, so two concurrent
// checkouts can both pass validation. Once the order row exists it is the
// record of truth; later write failures are logged and the order is returned.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req Request) (*orders.OrderDTO, error) {
	started := s.now()
	ctx = s.logg.WithUserID(ctx, userID.String())

	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil && !db.IsNotFound(err) {
		return nil, s.fail(started, metrics.ReasonPersist, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart"))
	}
	if userCart.IsEmpty() {
		return nil, s.fail(started, metrics.ReasonEmptyCart, pkgerrors.New(pkgerrors.CodeBusinessRule, emptyCartMessage))
	}

	if err := s.checkStock(ctx, userCart.Items); err != nil {
		reason := metrics.ReasonInsufficientStock
		if pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
			reason = metrics.ReasonPersist
		}
		return nil, s.fail(started, reason, err)
	}

	charges := ComputeCharges(userCart.Items, s.policy)
	order := &models.Order{
		UserID:          userID,
		Items:           append([]models.LineItem(nil), userCart.Items...),
		ShippingAddress: req.ShippingAddress.Normalize(),
		BillingAddress:  req.billing(),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   enums.PaymentStatusPending,
		ItemsTotal:      charges.ItemsTotal,
		TaxPrice:        charges.Tax,
		ShippingPrice:   charges.Shipping,
		TotalPrice:      charges.Total,
		Status:          enums.OrderStatusPending,
		Notes:           req.Notes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, s.fail(started, metrics.ReasonPersist, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order"))
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	})

	changes := s.decrementInventory(ctx, order.Items)

	cart.Clear(userCart)
	if err := s.carts.Save(ctx, userCart); err != nil {
		s.logg.Error(ctx, "checkout.cart_clear_failed", err)
	}

	s.notifier.StockUpdated(ctx, notifications.StockPayload{
		Message:  stockUpdatedMessage,
		OrderID:  order.ID,
		Products: changes,
	})
	s.notifier.OrderEvent(ctx, enums.EventOrderNotification, userID, notifications.OrderPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Message:     fmt.Sprintf("Order %s placed", order.OrderNumber),
	})

	s.metrics.IncCreated(order.PaymentMethod.String())
	s.metrics.ObserveCheckout(true, s.now().Sub(started))
	s.logg.Info(s.logg.WithField(ctx, "total", order.TotalPrice.StringFixed(2)), "checkout.order_created")
	return orders.FromModel(order), nil
}

// checkStock verifies every line against the live product row. The first
// offending line decides the error.
func (s *service) checkStock(ctx context.Context, lines []models.LineItem) error {
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID())
		if err != nil && !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if product == nil || !product.IsActive || product.InventoryQuantity < line.Quantity {
			return pkgerrors.Newf(pkgerrors.CodeBusinessRule, insufficientStockText, line.Snapshot.Name())
		}
	}
	return nil
}

func (s *service) decrementInventory(ctx context.Context, lines []models.LineItem) []notifications.StockChange {
	changes := make([]notifications.StockChange, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID()
		if err := s.products.AdjustInventory(ctx, productID, -line.Quantity); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "product_id", productID.String()), "checkout.inventory_decrement_failed", err)
			continue
		}
		s.metrics.AddInventory(-line.Quantity)
		changes = append(changes, notifications.StockChange{ProductID: productID, Quantity: line.Quantity})
	}
	return changes
}

func (s *service) fail(started time.Time, reason string, err error) error {
	s.metrics.IncFailure(reason)
	s.metrics.ObserveCheckout(false, s.now().Sub(started))
	return err
}
