package types

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSnapshot freezes the product attributes a line item was priced with.
// It is copied by value and has no setters; later catalog edits never reach it.
type PriceSnapshot struct {
	productID uuid.UUID
	name      string
	price     decimal.Decimal
	image     string
}

// NewPriceSnapshot captures the given product attributes.
func NewPriceSnapshot(productID uuid.UUID, name string, price decimal.Decimal, image string) PriceSnapshot {
	return PriceSnapshot{
		productID: productID,
		name:      strings.TrimSpace(name),
		price:     price,
		image:     image,
	}
}

// ProductID returns the referenced catalog product.
func (s PriceSnapshot) ProductID() uuid.UUID { return s.productID }

// Name returns the product name at capture time.
func (s PriceSnapshot) Name() string { return s.name }

// Price returns the unit price at capture time.
func (s PriceSnapshot) Price() decimal.Decimal { return s.price }

// Image returns the primary image URL at capture time.
func (s PriceSnapshot) Image() string { return s.image }

// IsZero reports whether the snapshot references no product.
func (s PriceSnapshot) IsZero() bool { return s.productID == uuid.Nil }

// Equal compares two snapshots field by field.
func (s PriceSnapshot) Equal(o PriceSnapshot) bool {
	return s.productID == o.productID && s.name == o.name && s.price.Equal(o.price) && s.image == o.image
}

// LineTotal is price × qty.
func (s PriceSnapshot) LineTotal(qty int) decimal.Decimal {
	return s.price.Mul(decimal.NewFromInt(int64(qty)))
}

type snapshotJSON struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

// MarshalJSON implements json.Marshaler.
func (s PriceSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		ProductID: s.productID,
		Name:      s.name,
		Price:     s.price,
		Image:     s.image,
	})
}

// UnmarshalJSON implements json.Unmarshaler; it is only used when decoding
// stored rows.
func (s *PriceSnapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewPriceSnapshot(raw.ProductID, raw.Name, raw.Price, raw.Image)
	return nil
}
