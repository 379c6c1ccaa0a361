package cart

import (
	"errors"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrLineLimit is returned when a line would exceed models.MaxLineQuantity.
	ErrLineLimit = errors.New("cannot add more than 99 items of the same product")
	// ErrLineNotFound is returned when no line matches the product and options.
	ErrLineNotFound = errors.New("item not found in cart")
	// ErrInvalidQuantity is returned for additions below one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// The functions below mutate a cart in memory and recompute its totals.
// Active and stock checks are the caller's job; persisting is too.

// AddLine merges qty into the line with the same product and options, or
// appends a new line priced with snap. An existing line keeps its snapshot.
func AddLine(c *models.Cart, snap types.PriceSnapshot, qty int, options map[string]string) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if i := indexOf(c, snap.ProductID(), options); i >= 0 {
		if c.Items[i].Quantity+qty > models.MaxLineQuantity {
			return ErrLineLimit
		}
		c.Items[i].Quantity += qty
		Recompute(c)
		return nil
	}
	if qty > models.MaxLineQuantity {
		return ErrLineLimit
	}
	c.Items = append(c.Items, models.LineItem{
		Snapshot:        snap,
		Quantity:        qty,
		SelectedOptions: cloneOptions(options),
	})
	Recompute(c)
	return nil
}

// UpdateQuantity sets the quantity of a line, capped at the line maximum.
// qty <= 0 removes the line.
func UpdateQuantity(c *models.Cart, productID uuid.UUID, qty int, options map[string]string) error {
	i := indexOf(c, productID, options)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		RemoveLine(c, productID, options)
		return nil
	}
	c.Items[i].Quantity = min(qty, models.MaxLineQuantity)
	Recompute(c)
	return nil
}

// RemoveLine drops the matching line. It reports whether one was removed.
func RemoveLine(c *models.Cart, productID uuid.UUID, options map[string]string) bool {
	kept := make([]models.LineItem, 0, len(c.Items))
	for _, line := range c.Items {
		if !line.Matches(productID, normalizeOptions(options)) {
			kept = append(kept, line)
		}
	}
	removed := len(kept) != len(c.Items)
	c.Items = kept
	Recompute(c)
	return removed
}

// Clear empties the cart.
func Clear(c *models.Cart) {
	c.Items = []models.LineItem{}
	Recompute(c)
}

// Recompute derives TotalItems and TotalPrice from the lines.
func Recompute(c *models.Cart) {
	if c.Items == nil {
		c.Items = []models.LineItem{}
	}
	count := 0
	total := decimal.Zero
	for _, line := range c.Items {
		count += line.Quantity
		total = total.Add(line.Subtotal())
	}
	c.TotalItems = count
	c.TotalPrice = types.RoundMoney(total)
}

// FindLine returns the line matching product and options.
func FindLine(c *models.Cart, productID uuid.UUID, options map[string]string) (models.LineItem, bool) {
	if i := indexOf(c, productID, options); i >= 0 {
		return c.Items[i], true
	}
	return models.LineItem{}, false
}

func indexOf(c *models.Cart, productID uuid.UUID, options map[string]string) int {
	options = normalizeOptions(options)
	for i, line := range c.Items {
		if line.Matches(productID, options) {
			return i
		}
	}
	return -1
}

// normalizeOptions makes nil and empty option sets compare equal.
func normalizeOptions(options map[string]string) map[string]string {
	if len(options) == 0 {
		return nil
	}
	return options
}

func cloneOptions(options map[string]string) map[string]string {
	if len(options) == 0 {
		return nil
	}
	out := make(map[string]string, len(options))
	for k, v := range options {
		out[k] = v
	}
	return out
}
