package product

import (
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DefaultPageLimit is the browse page size when the client sends none.
const DefaultPageLimit = 12

const defaultSort = "-createdAt"

// sortColumns maps the public sort keys to columns.
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"price":         "price",
	"name":          "name",
	"averageRating": "average_rating",
	"reviewCount":   "review_count",
}

// ListQuery describes the supported browse filters. Only active products are
// ever listed.
type ListQuery struct {
	Search     string
	Category   *enums.ProductCategory
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   bool
	Sort       string
	Pagination pagination.Params
}

// ListResult is a page of products plus its pagination block.
type ListResult struct {
	Products   []ProductDTO
	Pagination pagination.Meta
}

// orderClauses turns "-price,name" into ORDER BY fragments. Unknown keys are
// ignored; an empty result falls back to newest first.
func orderClauses(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = defaultSort
	}

	var clauses []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		direction := "ASC"
		if strings.HasPrefix(part, "-") {
			direction = "DESC"
			part = strings.TrimPrefix(part, "-")
		}
		column, ok := sortColumns[part]
		if !ok || seen[column] {
			continue
		}
		seen[column] = true
		clauses = append(clauses, column+" "+direction)
	}
	if len(clauses) == 0 {
		return []string{"created_at DESC"}
	}
	return clauses
}
