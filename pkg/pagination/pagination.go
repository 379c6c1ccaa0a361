package pagination

import "math"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block returned alongside list payloads.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Normalize applies defaults (using fallbackLimit when limit is unset) and caps.
func (p Params) Normalize(fallbackLimit int) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if fallbackLimit <= 0 {
		fallbackLimit = DefaultLimit
	}
	p.Limit = NormalizeLimit(p.Limit, fallbackLimit)
	return p
}

// Offset returns the number of rows to skip for the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// NormalizeLimit enforces the provided default and the global maximum.
func NormalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NewMeta builds the response block for a page of total rows.
func NewMeta(p Params, total int64) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
