package dto

// LinkPredecessorRequest discontinues predecessor_id in favor of product_id.
type LinkPredecessorRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	PredecessorID string `json:"predecessor_id" validate:"required,uuid"`
	Reason        string `json:"reason" validate:"required"`
}

type LineageNode struct {
	ProductID      string  `json:"product_id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Active         bool    `json:"active"`
	DiscontinuedAt *string `json:"discontinued_at,omitempty"`
}

// LineageResponse is the full chain ordered from the earliest predecessor to
// the latest successor.
type LineageResponse struct {
	Chain []LineageNode `json:"chain"`
}
