package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the purchase record produced by checkout. Items and charges are
// fixed at creation; only status, tracking and notes change afterwards.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Items           []LineItem          `gorm:"column:items;type:jsonb;serializer:json;not null"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	BillingAddress  types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null"`
	ItemsTotal      decimal.Decimal     `gorm:"column:items_total;type:numeric(12,2);not null"`
	TaxPrice        decimal.Decimal     `gorm:"column:tax_price;type:numeric(12,2);not null"`
	ShippingPrice   decimal.Decimal     `gorm:"column:shipping_price;type:numeric(12,2);not null"`
	TotalPrice      decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null"`
	TrackingNumber  *string             `gorm:"column:tracking_number"`
	Notes           *string             `gorm:"column:notes"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	CancelledAt     *time.Time          `gorm:"column:cancelled_at"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// BeforeCreate assigns an identifier when the caller did not.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o != nil && o.UserID == userID
}
