package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
)

const (
	DefaultMineLimit  = 10
	DefaultAdminLimit = 20

	orderNotFoundMessage  = "Order not found"
	accessDeniedMessage   = "Not authorized to access this order"
	cancelDeniedMessage   = "Not authorized to cancel this order"
	notCancellableMessage = "Order cannot be cancelled at this stage"
	invalidStatusMessage  = "Invalid order status"
)

// Service exposes order history and lifecycle operations.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, userID uuid.UUID, role enums.UserRole, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
	ListAll(ctx context.Context, filters AdminFilters, params pagination.Params) (*ListResult, error)
}

type inventoryAdjuster interface {
	AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) error
}

type orderNotifier interface {
	OrderEvent(ctx context.Context, name enums.EventName, userID uuid.UUID, payload notifications.OrderPayload)
}

// ServiceParams wires the order service. Metrics, Logger and Now are optional.
type ServiceParams struct {
	Repo      Repository
	Inventory inventoryAdjuster
	Notifier  orderNotifier
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	repo      Repository
	inventory inventoryAdjuster
	notifier  orderNotifier
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory adjuster required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
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
		repo:      params.Repo,
		inventory: params.Inventory,
		notifier:  params.Notifier,
		metrics:   params.Metrics,
		logg:      logg,
		now:       now,
	}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	params = params.Normalize(DefaultMineLimit)
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return &ListResult{Orders: fromModels(rows), Pagination: pagination.NewMeta(params, total)}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, role enums.UserRole, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) && !role.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
	}
	return FromModel(order), nil
}

// Cancel restores stock for every line and marks the order cancelled. Only the
// buyer may cancel, and only while the order is pending. Lines whose product no
// longer exists are skipped. Any other failure rolls back the lines already
// restored and leaves the order pending, so a retry restocks exactly once.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, cancelDeniedMessage)
	}
	if !order.Status.Cancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, notCancellableMessage)
	}

	var restored []models.LineItem
	for _, line := range order.Items {
		if err := s.inventory.AdjustInventory(ctx, line.ProductID(), line.Quantity); err != nil {
			if db.IsNotFound(err) {
				s.logg.Warn(s.logg.WithField(ctx, "product_id", line.ProductID().String()), "orders.restock_product_missing")
				continue
			}
			s.undoRestock(ctx, restored)
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore inventory")
		}
		restored = append(restored, line)
	}

	now := s.now().UTC()
	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &now
	if err := s.repo.Save(ctx, order); err != nil {
		s.undoRestock(ctx, restored)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
	}
	restocked := 0
	for _, line := range restored {
		restocked += line.Quantity
	}
	s.metrics.AddInventory(restocked)
	s.metrics.IncStatusChange(order.Status.String())

	s.notifier.OrderEvent(ctx, enums.EventOrderUpdate, order.UserID, notifications.OrderPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Message:     fmt.Sprintf("Order %s has been cancelled", order.OrderNumber),
	})

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":       order.ID.String(),
		"order_number":   order.OrderNumber,
		"restored_units": restocked,
	})
	s.logg.Info(logCtx, "orders.cancelled")
	return FromModel(order), nil
}

// undoRestock takes back stock returned by a cancellation that did not complete.
// Failures are logged; the remaining lines are still attempted.
func (s *service) undoRestock(ctx context.Context, lines []models.LineItem) {
	for _, line := range lines {
		if err := s.inventory.AdjustInventory(ctx, line.ProductID(), -line.Quantity); err != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"product_id": line.ProductID().String(),
				"quantity":   line.Quantity,
			})
			s.logg.Error(logCtx, "orders.restock_rollback_failed", err)
		}
	}
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidStatusMessage)
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		order.Status = *req.Status
		now := s.now().UTC()
		switch order.Status {
		case enums.OrderStatusDelivered:
			order.DeliveredAt = &now
		case enums.OrderStatusCancelled:
			if order.CancelledAt == nil {
				order.CancelledAt = &now
			}
		}
	}
	if req.TrackingNumber != nil {
		order.TrackingNumber = req.TrackingNumber
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	if req.Status != nil {
		s.metrics.IncStatusChange(order.Status.String())
	}

	s.notifier.OrderEvent(ctx, enums.EventOrderUpdate, order.UserID, notifications.OrderPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Message:     fmt.Sprintf("Order %s status updated to %s", order.OrderNumber, order.Status),
	})

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"status":   order.Status.String(),
	})
	s.logg.Info(logCtx, "orders.status_updated")
	return FromModel(order), nil
}

func (s *service) ListAll(ctx context.Context, filters AdminFilters, params pagination.Params) (*ListResult, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidStatusMessage)
	}
	params = params.Normalize(DefaultAdminLimit)
	rows, total, err := s.repo.ListAll(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return &ListResult{Orders: fromModels(rows), Pagination: pagination.NewMeta(params, total)}, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}
