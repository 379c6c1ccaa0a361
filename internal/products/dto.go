package product

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID                uuid.UUID             `json:"id"`
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Price             decimal.Decimal       `json:"price"`
	Category          enums.ProductCategory `json:"category"`
	Brand             string                `json:"brand"`
	Images            []types.Image         `json:"images"`
	InventoryQuantity int                   `json:"inventoryQuantity"`
	LowStockThreshold int                   `json:"lowStockThreshold"`
	IsLowStock        bool                  `json:"isLowStock"`
	Specifications    map[string]string     `json:"specifications,omitempty"`
	Weight            *float64              `json:"weight,omitempty"`
	Dimensions        *types.Dimensions     `json:"dimensions,omitempty"`
	Tags              []string              `json:"tags"`
	IsActive          bool                  `json:"isActive"`
	IsFeatured        bool                  `json:"isFeatured"`
	AverageRating     float64               `json:"averageRating"`
	ReviewCount       int                   `json:"reviewCount"`
	SEO               types.SEO             `json:"seo"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// CreateProductRequest is the admin payload for a new catalog entry.
type CreateProductRequest struct {
	Name              string                `json:"name" validate:"required,max=100"`
	Description       string                `json:"description" validate:"required,max=1000"`
	Price             decimal.Decimal       `json:"price"`
	Category          enums.ProductCategory `json:"category" validate:"required"`
	Brand             string                `json:"brand" validate:"required"`
	Images            []types.Image         `json:"images" validate:"required,min=1,dive"`
	InventoryQuantity int                   `json:"inventoryQuantity" validate:"gte=0"`
	LowStockThreshold *int                  `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Specifications    map[string]string     `json:"specifications"`
	Weight            *float64              `json:"weight" validate:"omitempty,gte=0"`
	Dimensions        *types.Dimensions     `json:"dimensions"`
	Tags              []string              `json:"tags"`
	IsFeatured        bool                  `json:"isFeatured"`
	SEO               types.SEO             `json:"seo"`
}

// UpdateProductRequest carries a partial update; nil fields are left alone.
type UpdateProductRequest struct {
	Name              *string                `json:"name" validate:"omitempty,min=1,max=100"`
	Description       *string                `json:"description" validate:"omitempty,min=1,max=1000"`
	Price             *decimal.Decimal       `json:"price"`
	Category          *enums.ProductCategory `json:"category"`
	Brand             *string                `json:"brand" validate:"omitempty,min=1"`
	Images            *[]types.Image         `json:"images" validate:"omitempty,min=1,dive"`
	InventoryQuantity *int                   `json:"inventoryQuantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int                   `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Specifications    *map[string]string     `json:"specifications"`
	Weight            *float64               `json:"weight" validate:"omitempty,gte=0"`
	Dimensions        *types.Dimensions      `json:"dimensions"`
	Tags              *[]string              `json:"tags"`
	IsActive          *bool                  `json:"isActive"`
	IsFeatured        *bool                  `json:"isFeatured"`
	SEO               *types.SEO             `json:"seo"`
}

// FromModel maps a product row to its transport shape.
func FromModel(p models.Product) ProductDTO {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	images := p.Images
	if images == nil {
		images = []types.Image{}
	}
	return ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Category:          p.Category,
		Brand:             p.Brand,
		Images:            images,
		InventoryQuantity: p.InventoryQuantity,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		Specifications:    p.Specifications,
		Weight:            p.Weight,
		Dimensions:        p.Dimensions,
		Tags:              tags,
		IsActive:          p.IsActive,
		IsFeatured:        p.IsFeatured,
		AverageRating:     p.AverageRating,
		ReviewCount:       p.ReviewCount,
		SEO:               p.SEO,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
