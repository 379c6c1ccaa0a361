package types

import "github.com/angelmondragon/storefront-backend/pkg/pagination"

// SuccessEnvelope is the body of every 2xx JSON response.
type SuccessEnvelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Count      *int             `json:"count,omitempty"`
	Data       any              `json:"data,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx JSON response.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}
