package models

import (
	"maps"

	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 99

// LineItem is one product+quantity entry within a cart or an order.
type LineItem struct {
	Snapshot        types.PriceSnapshot `json:"snapshot"`
	Quantity        int                 `json:"quantity"`
	SelectedOptions map[string]string   `json:"selectedOptions,omitempty"`
}

// ProductID is shorthand for the snapshot's product.
func (l LineItem) ProductID() uuid.UUID {
	return l.Snapshot.ProductID()
}

// Subtotal is the snapshot price times the quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Snapshot.LineTotal(l.Quantity)
}

// Matches reports whether the line holds productID with exactly the given options.
func (l LineItem) Matches(productID uuid.UUID, options map[string]string) bool {
	return l.ProductID() == productID && maps.Equal(l.SelectedOptions, options)
}
