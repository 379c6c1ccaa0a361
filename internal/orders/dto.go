package orders

import (
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	UserID          uuid.UUID           `json:"userId"`
	Items           []cart.LineDTO      `json:"items"`
	ShippingAddress types.Address       `json:"shippingAddress"`
	BillingAddress  types.Address       `json:"billingAddress"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	ItemsTotal      decimal.Decimal     `json:"itemsTotal"`
	TaxPrice        decimal.Decimal     `json:"taxPrice"`
	ShippingPrice   decimal.Decimal     `json:"shippingPrice"`
	TotalPrice      decimal.Decimal     `json:"totalPrice"`
	Status          enums.OrderStatus   `json:"status"`
	TrackingNumber  *string             `json:"trackingNumber,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// UpdateStatusRequest is the admin payload for PUT /api/orders/{id}.
type UpdateStatusRequest struct {
	Status         *enums.OrderStatus `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	TrackingNumber *string            `json:"trackingNumber" validate:"omitempty,max=100"`
	Notes          *string            `json:"notes" validate:"omitempty,max=500"`
}

// ListResult is one page of orders.
type ListResult struct {
	Orders     []OrderDTO
	Pagination pagination.Meta
}

// FromModel maps an order row to its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           cart.LinesFromModel(o.Items),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		ItemsTotal:      o.ItemsTotal,
		TaxPrice:        o.TaxPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		Status:          o.Status,
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
