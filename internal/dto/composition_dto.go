package dto

import "github.com/shopspring/decimal"

// AddComponentRequest adds one bill-of-materials line to a kit.
type AddComponentRequest struct {
	ComponentID string          `json:"component_id" validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
}

type CompositionEntryResponse struct {
	ComponentID   string          `json:"component_id"`
	ComponentSKU  string          `json:"component_sku"`
	ComponentName string          `json:"component_name"`
	Quantity      decimal.Decimal `json:"quantity"`
}

type CompositionResponse struct {
	KitID   string                     `json:"kit_id"`
	Entries []CompositionEntryResponse `json:"entries"`
}

// KitValidationResponse reports whether a kit is currently sellable and,
// when it is not, why.
type KitValidationResponse struct {
	KitID    string   `json:"kit_id"`
	Sellable bool     `json:"sellable"`
	Issues   []string `json:"issues,omitempty"`
}
