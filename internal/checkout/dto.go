package checkout

import (
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Request is the body of POST /api/orders.
type Request struct {
	ShippingAddress types.Address       `json:"shippingAddress"`
	BillingAddress  *types.Address      `json:"billingAddress" validate:"omitempty"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod" validate:"required,oneof=credit_card debit_card paypal stripe"`
	Notes           *string             `json:"notes" validate:"omitempty,max=500"`
}

// billing falls back to the shipping address.
func (r Request) billing() types.Address {
	if r.BillingAddress != nil {
		return r.BillingAddress.Normalize()
	}
	return r.ShippingAddress.Normalize()
}
