package cart

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the caller's cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID uuid.UUID         `json:"productId" validate:"required"`
	Quantity  *int              `json:"quantity" validate:"omitempty,min=1,max=99"`
	Options   map[string]string `json:"options"`
}

// UpdateItemRequest sets a line quantity; zero removes the line.
type UpdateItemRequest struct {
	ProductID uuid.UUID         `json:"productId" validate:"required"`
	Quantity  *int              `json:"quantity" validate:"required,min=0,max=99"`
	Options   map[string]string `json:"options"`
}

// GuestLine is one line of a cart built before the shopper signed in.
type GuestLine struct {
	Product         uuid.UUID         `json:"product"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// MergeRequest carries the guest cart to fold into the user's cart.
type MergeRequest struct {
	GuestCart []GuestLine `json:"guestCart"`
}

// LineDTO flattens a cart or order line for clients.
type LineDTO struct {
	ProductID       uuid.UUID         `json:"productId"`
	Name            string            `json:"name"`
	Price           decimal.Decimal   `json:"price"`
	Image           string            `json:"image"`
	Quantity        int               `json:"quantity"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Items      []LineDTO       `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	IsEmpty    bool            `json:"isEmpty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// LinesFromModel maps stored lines to their transport shape.
func LinesFromModel(items []models.LineItem) []LineDTO {
	out := make([]LineDTO, 0, len(items))
	for _, item := range items {
		out = append(out, LineDTO{
			ProductID:       item.ProductID(),
			Name:            item.Snapshot.Name(),
			Price:           item.Snapshot.Price(),
			Image:           item.Snapshot.Image(),
			Quantity:        item.Quantity,
			Subtotal:        item.Subtotal(),
			SelectedOptions: item.SelectedOptions,
		})
	}
	return out
}

// FromModel maps a cart row to its transport shape.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	return &CartDTO{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      LinesFromModel(c.Items),
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
		IsEmpty:    c.IsEmpty(),
		UpdatedAt:  c.UpdatedAt,
	}
}
