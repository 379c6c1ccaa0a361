package checkout

import (
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Policy holds the tax and shipping rules applied at checkout.
type Policy struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultPolicy is 8% tax with a flat 9.99 shipping fee waived from 100.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               decimal.RequireFromString("0.08"),
		ShippingFee:           decimal.RequireFromString("9.99"),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}
}

// PolicyFromConfig parses the configured checkout amounts.
func PolicyFromConfig(cfg config.CheckoutConfig) (Policy, error) {
	tax, shipping, threshold, err := cfg.Policy()
	if err != nil {
		return Policy{}, fmt.Errorf("checkout policy: %w", err)
	}
	return Policy{TaxRate: tax, ShippingFee: shipping, FreeShippingThreshold: threshold}, nil
}

// Charges is the money breakdown stored on an order.
type Charges struct {
	ItemsTotal decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	Total      decimal.Decimal
}

// ComputeCharges prices lines at their snapshot prices. Every component is
// rounded to cents and the total is the sum of the rounded components.
func ComputeCharges(lines []models.LineItem, policy Policy) Charges {
	items := decimal.Zero
	for _, line := range lines {
		items = items.Add(line.Subtotal())
	}
	items = types.RoundMoney(items)

	tax := types.RoundMoney(items.Mul(policy.TaxRate))
	shipping := types.RoundMoney(policy.ShippingFee)
	if items.GreaterThanOrEqual(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Charges{
		ItemsTotal: items,
		Tax:        tax,
		Shipping:   shipping,
		Total:      items.Add(tax).Add(shipping),
	}
}
