package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart holds a user's pending purchase lines. There is at most one per user.
type Cart struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items      []LineItem      `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalItems int             `gorm:"column:total_items;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

// BeforeCreate assigns an identifier when the caller did not.
func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
