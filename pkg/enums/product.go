package enums

import "fmt"

// ProductCategory represents the fixed catalog categories.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryClothing    ProductCategory = "clothing"
	ProductCategoryBooks       ProductCategory = "books"
	ProductCategoryHome        ProductCategory = "home"
	ProductCategorySports      ProductCategory = "sports"
	ProductCategoryBeauty      ProductCategory = "beauty"
	ProductCategoryToys        ProductCategory = "toys"
	ProductCategoryAutomotive  ProductCategory = "automotive"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryClothing,
	ProductCategoryBooks,
	ProductCategoryHome,
	ProductCategorySports,
	ProductCategoryBeauty,
	ProductCategoryToys,
	ProductCategoryAutomotive,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategories returns every supported category in display order.
func ProductCategories() []ProductCategory {
	return append([]ProductCategory(nil), validProductCategories...)
}
