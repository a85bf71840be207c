package dto

// CreateProductRequest creates a catalog product with a fixed role.
// parent_id is required for variants; stock_mode is meaningful only for
// composed products (kits and variants with is_composed=true).
type CreateProductRequest struct {
	SKU        string `json:"sku" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=plain parent variant kit"`
	StockMode  string `json:"stock_mode" validate:"omitempty,oneof=none virtual physical"`
	IsComposed bool   `json:"is_composed"`
	ParentID   string `json:"parent_id" validate:"omitempty,uuid"`
	MinStock   int    `json:"min_stock" validate:"min=0"`
}

type SetStockModeRequest struct {
	StockMode string `json:"stock_mode" validate:"required,oneof=virtual physical"`
}

type ProductFilter struct {
	Active   string
	Role     string
	SKU      string
	Name     string
	ParentID string
	Page     int
	Limit    int
}

type ProductResponse struct {
	ID                    string  `json:"id"`
	SKU                   string  `json:"sku"`
	Name                  string  `json:"name"`
	Role                  string  `json:"role"`
	StockMode             string  `json:"stock_mode"`
	IsComposed            bool    `json:"is_composed"`
	ParentID              *string `json:"parent_id,omitempty"`
	PredecessorID         *string `json:"predecessor_id,omitempty"`
	SuccessorID           *string `json:"successor_id,omitempty"`
	DiscontinuedAt        *string `json:"discontinued_at,omitempty"`
	DiscontinuationReason *string `json:"discontinuation_reason,omitempty"`
	MinStock              int     `json:"min_stock"`
	Active                bool    `json:"active"`
	CreatedAt             string  `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
