package service

import "errors"

// Sentinel errors returned by the stock engine. Handlers map these to HTTP
// statuses; callers match with errors.Is. Only ErrConcurrentConflict is meant
// to be retried automatically — everything else is a caller mistake or a
// business-rule violation and is surfaced verbatim.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrDuplicateComponent = errors.New("component already present in kit")
	ErrComponentNotFound  = errors.New("component not found in kit")
	// ErrNotStockBearing is the kit-of-kit guard: a composed or inactive
	// product can never serve as a component.
	ErrNotStockBearing       = errors.New("product is not a stock-bearing component")
	ErrInvalidTypeTransition = errors.New("operation not allowed for product role")
	ErrHasActiveChildren     = errors.New("parent still has active variants")
	ErrNotSellable           = errors.New("kit is not sellable")

	ErrInsufficientComponentStock = errors.New("insufficient component stock")
	ErrInsufficientKitStock       = errors.New("insufficient kit stock")

	// ErrConcurrentConflict is returned when a per-product lock could not be
	// acquired within the configured wait. Retryable with backoff.
	ErrConcurrentConflict = errors.New("concurrent stock modification, retry")

	ErrSelfReference            = errors.New("product cannot be its own predecessor")
	ErrPredecessorAlreadyLinked = errors.New("predecessor already has a successor")
	ErrWouldCreateCycle         = errors.New("lineage link would create a cycle")
)
