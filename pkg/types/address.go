package types

import "strings"

// Address is a postal address captured at checkout.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Normalize trims whitespace from every field.
func (a Address) Normalize() Address {
	return Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

// Complete reports whether every field is populated.
func (a Address) Complete() bool {
	n := a.Normalize()
	return n.Street != "" && n.City != "" && n.State != "" && n.ZipCode != "" && n.Country != ""
}
