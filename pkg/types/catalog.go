package types

// Image references product media hosted elsewhere.
type Image struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt,omitempty"`
}

// Dimensions are optional physical measurements of a product.
type Dimensions struct {
	Length float64 `json:"length,omitempty" validate:"gte=0"`
	Width  float64 `json:"width,omitempty" validate:"gte=0"`
	Height float64 `json:"height,omitempty" validate:"gte=0"`
}

// SEO carries search metadata for a product page.
type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	Slug            string `json:"slug,omitempty"`
}
