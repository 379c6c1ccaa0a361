package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold applies when a product is created without one.
const DefaultLowStockThreshold = 10

// Product is a catalog entry. Products are never hard-deleted; Delete flips IsActive.
type Product struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name              string                `gorm:"column:name;not null"`
	Description       string                `gorm:"column:description;not null"`
	Price             decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Category          enums.ProductCategory `gorm:"column:category;not null"`
	Brand             string                `gorm:"column:brand;not null"`
	Images            []types.Image         `gorm:"column:images;type:jsonb;serializer:json;not null"`
	InventoryQuantity int                   `gorm:"column:inventory_quantity;not null"`
	LowStockThreshold int                   `gorm:"column:low_stock_threshold;not null"`
	Specifications    map[string]string     `gorm:"column:specifications;type:jsonb;serializer:json"`
	Weight            *float64              `gorm:"column:weight"`
	Dimensions        *types.Dimensions     `gorm:"column:dimensions;type:jsonb;serializer:json"`
	Tags              pq.StringArray        `gorm:"column:tags;type:text[]"`
	IsActive          bool                  `gorm:"column:is_active;not null"`
	IsFeatured        bool                  `gorm:"column:is_featured;not null"`
	AverageRating     float64               `gorm:"column:average_rating;not null"`
	ReviewCount       int                   `gorm:"column:review_count;not null"`
	SEO               types.SEO             `gorm:"column:seo;type:jsonb;serializer:json"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns an identifier when the caller did not.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsLowStock reports whether inventory sits at or below the threshold.
func (p Product) IsLowStock() bool {
	return p.InventoryQuantity <= p.LowStockThreshold
}

// PrimaryImage returns the first image URL or "".
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Snapshot freezes the attributes a cart or order line is priced with.
func (p Product) Snapshot() types.PriceSnapshot {
	return types.NewPriceSnapshot(p.ID, p.Name, p.Price, p.PrimaryImage())
}
