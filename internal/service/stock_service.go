package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService derives kit availability from component stock and performs
// the physical assemble/disassemble transactions. Virtual availability is a
// lock-free advisory read; the physical paths are the only multi-row
// critical sections in the engine and run under per-product locks plus one
// DB transaction (all-or-nothing ledger append).
type StockService interface {
	VirtualAvailability(ctx context.Context, kitID uuid.UUID) (*dto.AvailabilityResponse, error)
	Assemble(ctx context.Context, kitID uuid.UUID, req dto.AssembleRequest) (*dto.StockTransactionResponse, error)
	Disassemble(ctx context.Context, kitID uuid.UUID, req dto.DisassembleRequest) (*dto.StockTransactionResponse, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error)
	ListMovements(ctx context.Context, filter repository.StockLedgerFilter) (*dto.MovementListResponse, error)
	Alerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type stockService struct {
	products   repository.ProductRepository
	entries    repository.CompositionRepository
	ledger     repository.StockLedgerRepository
	dispatcher *worker.Dispatcher
	locks      *productLocks
	lockWait   time.Duration
}

func NewStockService(
	products repository.ProductRepository,
	entries repository.CompositionRepository,
	ledger repository.StockLedgerRepository,
	dispatcher *worker.Dispatcher,
	lockWait time.Duration,
) StockService {
	if lockWait <= 0 {
		lockWait = 3 * time.Second
	}
	return &stockService{
		products:   products,
		entries:    entries,
		ledger:     ledger,
		dispatcher: dispatcher,
		locks:      newProductLocks(),
		lockWait:   lockWait,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// requiredUnits is the integer stock consumed per BOM line for count kits.
// Fractional requirements round up: the ledger moves whole units only.
func requiredUnits(quantity decimal.Decimal, count int) int {
	return int(quantity.Mul(decimal.NewFromInt(int64(count))).Ceil().IntPart())
}

// ── VirtualAvailability ───────────────────────────────────────────────────────

// VirtualAvailability computes min(floor(stock(component)/quantity)) over the
// kit's BOM, 0 for an empty composition. The result is advisory: it is
// recomputed from current state on every call, never cached, and may be stale
// by the time the caller acts on it — Assemble re-validates authoritatively.
func (s *stockService) VirtualAvailability(ctx context.Context, kitID uuid.UUID) (*dto.AvailabilityResponse, error) {
	kit, err := s.products.FindByID(ctx, kitID)
	if err != nil {
		return nil, fmt.Errorf("%w: kit %s", ErrProductNotFound, kitID)
	}
	if !kit.Composed() {
		return nil, fmt.Errorf("%w: %s is not a composed product", ErrInvalidTypeTransition, kit.SKU)
	}

	entries, err := s.entries.ListByKit(ctx, kitID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AvailabilityResponse{KitID: kitID.String(), Bottlenecks: []string{}}
	if len(entries) == 0 {
		return resp, nil
	}

	type lineResult struct {
		componentID string
		possible    int
	}
	results := make([]lineResult, 0, len(entries))
	minPossible := -1
	for _, e := range entries {
		bal, err := s.ledger.Balance(ctx, e.ComponentID)
		if err != nil {
			return nil, err
		}
		possible := int(decimal.NewFromInt(int64(bal)).Div(e.Quantity).Floor().IntPart())
		if possible < 0 {
			possible = 0
		}
		results = append(results, lineResult{componentID: e.ComponentID.String(), possible: possible})
		if minPossible < 0 || possible < minPossible {
			minPossible = possible
		}
	}

	resp.Available = minPossible
	for _, r := range results {
		if r.possible == minPossible {
			resp.Bottlenecks = append(resp.Bottlenecks, r.componentID)
		}
	}
	return resp, nil
}

// ── Assemble ──────────────────────────────────────────────────────────────────

// Assemble converts component stock into kit stock: one negative ledger entry
// per component, one positive entry for the kit, all in a single transaction.
// If any component is short the whole call fails before any write.
func (s *stockService) Assemble(ctx context.Context, kitID uuid.UUID, req dto.AssembleRequest) (*dto.StockTransactionResponse, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidQuantity, req.Count)
	}
	kit, err := s.products.FindByID(ctx, kitID)
	if err != nil {
		return nil, fmt.Errorf("%w: kit %s", ErrProductNotFound, kitID)
	}
	if kit.StockMode != model.StockModePhysical {
		return nil, fmt.Errorf("%w: assemble requires physical stock mode", ErrInvalidTypeTransition)
	}

	entries, err := s.entries.ListByKit(ctx, kitID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: composition is empty", ErrNotSellable)
	}

	referenceID, err := parseOptionalUUID(req.ReferenceID)
	if err != nil {
		return nil, err
	}

	// Lock the kit and every component. acquire sorts IDs, so concurrent
	// calls sharing components cannot deadlock.
	ids := make([]uuid.UUID, 0, len(entries)+1)
	ids = append(ids, kitID)
	for _, e := range entries {
		ids = append(ids, e.ComponentID)
	}
	release, err := s.locks.acquire(ctx, ids, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	resp := &dto.StockTransactionResponse{KitID: kitID.String(), KitDelta: req.Count}
	var events []worker.StockEvent

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		// Validate every line before the first write: a rejected call must
		// leave the ledger untouched.
		required := make([]int, len(entries))
		for i, e := range entries {
			bal, err := s.ledger.BalanceTx(tx, e.ComponentID)
			if err != nil {
				return err
			}
			required[i] = requiredUnits(e.Quantity, req.Count)
			if bal < required[i] {
				return fmt.Errorf("%w: component %s requires %d, has %d",
					ErrInsufficientComponentStock, componentLabel(&e), required[i], bal)
			}
		}

		for i, e := range entries {
			entry := &model.StockLedgerEntry{
				ProductID:   e.ComponentID,
				Delta:       -required[i],
				Reason:      model.ReasonKitAssembly,
				ReferenceID: referenceID,
			}
			if err := s.ledger.AppendTx(tx, entry); err != nil {
				return err
			}
			resp.Components = append(resp.Components, dto.ComponentMovement{
				ProductID: e.ComponentID.String(),
				Delta:     -required[i],
			})
			events = append(events, stockEvent(e.ComponentID, -required[i], model.ReasonKitAssembly, referenceID))
		}

		kitEntry := &model.StockLedgerEntry{
			ProductID:   kitID,
			Delta:       req.Count,
			Reason:      model.ReasonKitAssembly,
			ReferenceID: referenceID,
		}
		if err := s.ledger.AppendTx(tx, kitEntry); err != nil {
			return err
		}
		events = append(events, stockEvent(kitID, req.Count, model.ReasonKitAssembly, referenceID))

		kitBal, err := s.ledger.BalanceTx(tx, kitID)
		if err != nil {
			return err
		}
		resp.KitStock = kitBal
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(ctx, events)
	return resp, nil
}

// ── Disassemble ───────────────────────────────────────────────────────────────

// Disassemble converts kit stock back into component stock. With
// returnComponents=false the components are not restocked (loss, theft,
// breakage) and the movement is recorded under kit_disassembly_loss.
func (s *stockService) Disassemble(ctx context.Context, kitID uuid.UUID, req dto.DisassembleRequest) (*dto.StockTransactionResponse, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidQuantity, req.Count)
	}
	returnComponents := req.ReturnComponents != nil && *req.ReturnComponents

	kit, err := s.products.FindByID(ctx, kitID)
	if err != nil {
		return nil, fmt.Errorf("%w: kit %s", ErrProductNotFound, kitID)
	}
	if kit.StockMode != model.StockModePhysical {
		return nil, fmt.Errorf("%w: disassemble requires physical stock mode", ErrInvalidTypeTransition)
	}

	entries, err := s.entries.ListByKit(ctx, kitID)
	if err != nil {
		return nil, err
	}

	referenceID, err := parseOptionalUUID(req.ReferenceID)
	if err != nil {
		return nil, err
	}

	reason := model.ReasonKitDisassembly
	if !returnComponents {
		reason = model.ReasonKitDisassemblyLoss
	}

	ids := make([]uuid.UUID, 0, len(entries)+1)
	ids = append(ids, kitID)
	for _, e := range entries {
		ids = append(ids, e.ComponentID)
	}
	release, err := s.locks.acquire(ctx, ids, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	resp := &dto.StockTransactionResponse{KitID: kitID.String(), KitDelta: -req.Count}
	var events []worker.StockEvent

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		kitBal, err := s.ledger.BalanceTx(tx, kitID)
		if err != nil {
			return err
		}
		if kitBal < req.Count {
			return fmt.Errorf("%w: have %d, want %d", ErrInsufficientKitStock, kitBal, req.Count)
		}

		kitEntry := &model.StockLedgerEntry{
			ProductID:   kitID,
			Delta:       -req.Count,
			Reason:      reason,
			ReferenceID: referenceID,
		}
		if err := s.ledger.AppendTx(tx, kitEntry); err != nil {
			return err
		}
		events = append(events, stockEvent(kitID, -req.Count, reason, referenceID))
		resp.KitStock = kitBal - req.Count

		if returnComponents {
			for _, e := range entries {
				returned := requiredUnits(e.Quantity, req.Count)
				entry := &model.StockLedgerEntry{
					ProductID:   e.ComponentID,
					Delta:       returned,
					Reason:      model.ReasonKitDisassembly,
					ReferenceID: referenceID,
				}
				if err := s.ledger.AppendTx(tx, entry); err != nil {
					return err
				}
				resp.Components = append(resp.Components, dto.ComponentMovement{
					ProductID: e.ComponentID.String(),
					Delta:     returned,
				})
				events = append(events, stockEvent(e.ComponentID, returned, model.ReasonKitDisassembly, referenceID))
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(ctx, events)
	return resp, nil
}

// ── AdjustStock ───────────────────────────────────────────────────────────────

// AdjustStock appends a manual ledger entry for a stock-bearing leaf. This is
// the receiving/correction surface used by purchasing; composed products move
// stock only through assemble/disassemble.
func (s *stockService) AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta must be non-zero", ErrInvalidQuantity)
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if !p.StockBearingLeaf() || !p.Active {
		return nil, fmt.Errorf("%w: %s", ErrNotStockBearing, p.SKU)
	}

	release, err := s.locks.acquire(ctx, []uuid.UUID{productID}, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	reason := req.Reason
	if reason == "" {
		reason = model.ReasonManualAdjustment
	}

	resp := &dto.AdjustStockResponse{ProductID: productID.String(), Delta: req.Delta}
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		bal, err := s.ledger.BalanceTx(tx, productID)
		if err != nil {
			return err
		}
		if bal+req.Delta < 0 {
			return fmt.Errorf("%w: stock would go negative (%d%+d)", ErrInsufficientComponentStock, bal, req.Delta)
		}
		entry := &model.StockLedgerEntry{ProductID: productID, Delta: req.Delta, Reason: reason}
		if err := s.ledger.AppendTx(tx, entry); err != nil {
			return err
		}
		resp.Stock = bal + req.Delta
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(ctx, []worker.StockEvent{stockEvent(productID, req.Delta, reason, nil)})
	return resp, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *stockService) ListMovements(ctx context.Context, filter repository.StockLedgerFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	entries, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.MovementResponse{
			ID:        e.ID.String(),
			ProductID: e.ProductID.String(),
			Delta:     e.Delta,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.Product != nil {
			item.ProductName = e.Product.Name
		}
		if e.ReferenceID != nil {
			ref := e.ReferenceID.String()
			item.ReferenceID = &ref
		}
		items = append(items, item)
	}
	return &dto.MovementListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stockService) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	rows, err := s.ledger.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlertResponse, 0, len(rows))
	for _, r := range rows {
		alerts = append(alerts, dto.StockAlertResponse{
			ProductID: r.ID.String(),
			SKU:       r.SKU,
			Name:      r.Name,
			Stock:     r.Balance,
			MinStock:  r.MinStock,
		})
	}
	return alerts, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *stockService) publish(ctx context.Context, events []worker.StockEvent) {
	if s.dispatcher == nil {
		return
	}
	for _, ev := range events {
		if err := s.dispatcher.PublishStockEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Str("product_id", ev.ProductID).Msg("stock event publish failed")
		}
	}
}

func stockEvent(productID uuid.UUID, delta int, reason string, referenceID *uuid.UUID) worker.StockEvent {
	ev := worker.StockEvent{ProductID: productID.String(), Delta: delta, Reason: reason}
	if referenceID != nil {
		ev.ReferenceID = referenceID.String()
	}
	return ev
}

func componentLabel(e *model.CompositionEntry) string {
	if e.Component != nil {
		return e.Component.SKU
	}
	return e.ComponentID.String()
}

func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid reference id: %w", err)
	}
	return &id, nil
}
