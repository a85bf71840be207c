package service

import (
	"context"
	"fmt"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"

	"github.com/google/uuid"
)

// CompositionService manages the kit → component bill of materials.
// Structural integrity is checked on every mutation: components must be
// active stock-bearing leaves, quantities positive, pairs unique.
type CompositionService interface {
	AddComponent(ctx context.Context, kitID uuid.UUID, req dto.AddComponentRequest) (*dto.CompositionEntryResponse, error)
	RemoveComponent(ctx context.Context, kitID, componentID uuid.UUID) error
	GetComposition(ctx context.Context, kitID uuid.UUID) (*dto.CompositionResponse, error)
	ValidateKit(ctx context.Context, kitID uuid.UUID) (*dto.KitValidationResponse, error)
}

type compositionService struct {
	products repository.ProductRepository
	entries  repository.CompositionRepository
}

func NewCompositionService(
	products repository.ProductRepository,
	entries repository.CompositionRepository,
) CompositionService {
	return &compositionService{products: products, entries: entries}
}

func (s *compositionService) AddComponent(ctx context.Context, kitID uuid.UUID, req dto.AddComponentRequest) (*dto.CompositionEntryResponse, error) {
	kit, err := s.products.FindByID(ctx, kitID)
	if err != nil {
		return nil, fmt.Errorf("%w: kit %s", ErrProductNotFound, kitID)
	}
	if !kit.Composed() {
		return nil, fmt.Errorf("%w: %s does not accept composition", ErrInvalidTypeTransition, kit.SKU)
	}

	componentID, err := uuid.Parse(req.ComponentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid component id", ErrProductNotFound)
	}
	component, err := s.products.FindByID(ctx, componentID)
	if err != nil {
		return nil, fmt.Errorf("%w: component %s", ErrProductNotFound, componentID)
	}
	// Kit-of-kit guard: only active stock-bearing leaves may be components.
	// This statically rules out composition cycles.
	if !component.StockBearingLeaf() || !component.Active {
		return nil, fmt.Errorf("%w: %s", ErrNotStockBearing, component.SKU)
	}

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidQuantity, req.Quantity)
	}

	exists, err := s.entries.Exists(ctx, kitID, componentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateComponent, component.SKU, kit.SKU)
	}

	entry := &model.CompositionEntry{
		KitID:       kitID,
		ComponentID: componentID,
		Quantity:    req.Quantity,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &dto.CompositionEntryResponse{
		ComponentID:   componentID.String(),
		ComponentSKU:  component.SKU,
		ComponentName: component.Name,
		Quantity:      req.Quantity,
	}, nil
}

// RemoveComponent deletes one BOM line. Allowed even when the kit holds
// positive physical stock: past ledger entries are never rewritten, callers
// re-derive availability afterwards.
func (s *compositionService) RemoveComponent(ctx context.Context, kitID, componentID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, kitID); err != nil {
		return fmt.Errorf("%w: kit %s", ErrProductNotFound, kitID)
	}
	removed, err := s.entries.Delete(ctx, kitID, componentID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s in kit %s", ErrComponentNotFound, componentID, kitID)
	}
	return nil
}

func (s *compositionService) GetComposition(ctx context.Context, kitID uuid.UUID) (*dto.CompositionResponse, error) {
	if _, err := s.products.FindByID(ctx, kitID); err != nil {
		return nil, fmt.Errorf("%w: kit %s", ErrProductNotFound, kitID)
	}
	entries, err := s.entries.ListByKit(ctx, kitID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CompositionResponse{KitID: kitID.String(), Entries: make([]dto.CompositionEntryResponse, 0, len(entries))}
	for _, e := range entries {
		item := dto.CompositionEntryResponse{
			ComponentID: e.ComponentID.String(),
			Quantity:    e.Quantity,
		}
		if e.Component != nil {
			item.ComponentSKU = e.Component.SKU
			item.ComponentName = e.Component.Name
		}
		resp.Entries = append(resp.Entries, item)
	}
	return resp, nil
}

// ValidateKit reports sellability: composition non-empty, all components
// active. A failing kit is NOT auto-deactivated — that is an explicit
// administrative action elsewhere.
func (s *compositionService) ValidateKit(ctx context.Context, kitID uuid.UUID) (*dto.KitValidationResponse, error) {
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

	var issues []string
	if len(entries) == 0 {
		issues = append(issues, "composition is empty")
	}
	for _, e := range entries {
		if e.Component != nil && !e.Component.Active {
			issues = append(issues, fmt.Sprintf("component %s is inactive", e.Component.SKU))
		}
	}
	return &dto.KitValidationResponse{
		KitID:    kitID.String(),
		Sellable: len(issues) == 0,
		Issues:   issues,
	}, nil
}
