package dto

// AvailabilityResponse is the advisory virtual availability of a kit. The
// number may be stale by the time the caller acts on it; AssemblePhysical
// re-validates authoritatively. Bottlenecks lists the components whose stock
// determines the result — UI information only.
type AvailabilityResponse struct {
	KitID       string   `json:"kit_id"`
	Available   int      `json:"available"`
	Bottlenecks []string `json:"bottlenecks"`
}

type AssembleRequest struct {
	Count       int    `json:"count" validate:"required,gt=0"`
	ReferenceID string `json:"reference_id" validate:"omitempty,uuid"`
}

type DisassembleRequest struct {
	Count            int    `json:"count" validate:"required,gt=0"`
	ReferenceID      string `json:"reference_id" validate:"omitempty,uuid"`
	ReturnComponents *bool  `json:"return_components" validate:"required"`
}

// ComponentMovement is one component-level ledger effect of an assembly or
// disassembly, echoed back to the caller.
type ComponentMovement struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

type StockTransactionResponse struct {
	KitID      string              `json:"kit_id"`
	KitDelta   int                 `json:"kit_delta"`
	KitStock   int                 `json:"kit_stock"`
	Components []ComponentMovement `json:"components"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

type AdjustStockResponse struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"`
}

type MovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Delta       int     `json:"delta"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type StockAlertResponse struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}
