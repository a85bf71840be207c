package service

import (
	"context"
	"errors"
	"sync"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku && p.Active {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Product
	for _, p := range r.products {
		if p.Active {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Active = true
	return nil
}

func (r *stubProductRepo) CountActiveVariants(_ context.Context, parentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.products {
		if p.ParentID != nil && *p.ParentID == parentID && p.Role == model.RoleVariant && p.Active {
			count++
		}
	}
	return count, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	return r.Update(context.Background(), p)
}

func (r *stubProductRepo) DB() *gorm.DB {
	// In-memory stub: runTx falls through to fn(nil), so services exercise
	// their transaction bodies without a live database.
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── In-memory CompositionRepository stub ─────────────────────────────────────

type stubCompositionRepo struct {
	mu       sync.Mutex
	entries  []model.CompositionEntry
	products *stubProductRepo
}

func newStubCompositionRepo(products *stubProductRepo) *stubCompositionRepo {
	return &stubCompositionRepo{products: products}
}

func (r *stubCompositionRepo) Create(_ context.Context, e *model.CompositionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubCompositionRepo) Delete(_ context.Context, kitID, componentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.KitID == kitID && e.ComponentID == componentID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCompositionRepo) ListByKit(_ context.Context, kitID uuid.UUID) ([]model.CompositionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.CompositionEntry
	for _, e := range r.entries {
		if e.KitID == kitID {
			// emulate the Component preload
			if p, ok := r.products.products[e.ComponentID]; ok {
				e.Component = p
			}
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *stubCompositionRepo) Exists(_ context.Context, kitID, componentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.KitID == kitID && e.ComponentID == componentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCompositionRepo) CountByKit(_ context.Context, kitID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.entries {
		if e.KitID == kitID {
			count++
		}
	}
	return count, nil
}

func (r *stubCompositionRepo) ReferencesProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.KitID == productID || e.ComponentID == productID {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.CompositionRepository = (*stubCompositionRepo)(nil)

// ── In-memory StockLedgerRepository stub ─────────────────────────────────────

type stubLedgerRepo struct {
	mu       sync.Mutex
	entries  []model.StockLedgerEntry
	products *stubProductRepo
}

func newStubLedgerRepo(products *stubProductRepo) *stubLedgerRepo {
	return &stubLedgerRepo{products: products}
}

func (r *stubLedgerRepo) Append(_ context.Context, e *model.StockLedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLedgerRepo) AppendTx(_ *gorm.DB, e *model.StockLedgerEntry) error {
	return r.Append(context.Background(), e)
}

func (r *stubLedgerRepo) Balance(_ context.Context, productID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, e := range r.entries {
		if e.ProductID == productID {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r *stubLedgerRepo) BalanceTx(_ *gorm.DB, productID uuid.UUID) (int, error) {
	return r.Balance(context.Background(), productID)
}

func (r *stubLedgerRepo) HasEntries(_ context.Context, productID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLedgerRepo) List(_ context.Context, filter repository.StockLedgerFilter) ([]model.StockLedgerEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockLedgerEntry
	for _, e := range r.entries {
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		if filter.Reason != "" && e.Reason != filter.Reason {
			continue
		}
		result = append(result, e)
	}
	return result, int64(len(result)), nil
}

func (r *stubLedgerRepo) LowStock(_ context.Context) ([]repository.LowStockRow, error) {
	r.products.mu.Lock()
	products := make([]*model.Product, 0, len(r.products.products))
	for _, p := range r.products.products {
		products = append(products, p)
	}
	r.products.mu.Unlock()

	var rows []repository.LowStockRow
	for _, p := range products {
		if !p.Active || !p.StockBearingLeaf() {
			continue
		}
		bal, _ := r.Balance(context.Background(), p.ID)
		if bal <= p.MinStock {
			rows = append(rows, repository.LowStockRow{Product: *p, Balance: bal})
		}
	}
	return rows, nil
}

var _ repository.StockLedgerRepository = (*stubLedgerRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

type stubs struct {
	products *stubProductRepo
	comps    *stubCompositionRepo
	ledger   *stubLedgerRepo
}

func newStubs() *stubs {
	products := newStubProductRepo()
	return &stubs{
		products: products,
		comps:    newStubCompositionRepo(products),
		ledger:   newStubLedgerRepo(products),
	}
}

func seedLeaf(s *stubs, name, sku string, stock int) *model.Product {
	p := &model.Product{
		ID:     uuid.New(),
		SKU:    sku,
		Name:   name,
		Role:   model.RolePlain,
		Active: true,
	}
	s.products.products[p.ID] = p
	if stock != 0 {
		s.ledger.entries = append(s.ledger.entries, model.StockLedgerEntry{
			ID:        uuid.New(),
			ProductID: p.ID,
			Delta:     stock,
			Reason:    model.ReasonManualAdjustment,
		})
	}
	return p
}

func seedKit(s *stubs, name, sku string, mode model.StockMode) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		Role:      model.RoleKit,
		StockMode: mode,
		Active:    true,
	}
	s.products.products[p.ID] = p
	return p
}

func seedEntry(s *stubs, kit, component *model.Product, quantity decimal.Decimal) {
	s.comps.entries = append(s.comps.entries, model.CompositionEntry{
		ID:          uuid.New(),
		KitID:       kit.ID,
		ComponentID: component.ID,
		Quantity:    quantity,
	})
}
