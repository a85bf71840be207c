package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"

	"github.com/google/uuid"
)

// ProductService owns product identity as far as the stock engine is
// concerned: role, stock_mode and the active flag. Roles are fixed at
// creation time; stock_mode freezes once the product has composition or
// ledger history, so past movements keep their meaning.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	SetStockMode(ctx context.Context, id uuid.UUID, mode model.StockMode) (*dto.ProductResponse, error)
}

type productService struct {
	repo        repository.ProductRepository
	composition repository.CompositionRepository
	ledger      repository.StockLedgerRepository
}

func NewProductService(
	repo repository.ProductRepository,
	composition repository.CompositionRepository,
	ledger repository.StockLedgerRepository,
) ProductService {
	return &productService{repo: repo, composition: composition, ledger: ledger}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		SKU:       req.SKU,
		Name:      req.Name,
		Role:      model.ProductRole(req.Role),
		StockMode: model.StockModeNone,
		MinStock:  req.MinStock,
		Active:    true,
	}

	switch p.Role {
	case model.RolePlain, model.RoleParent:
		if req.ParentID != "" || req.IsComposed || req.StockMode != "" && req.StockMode != string(model.StockModeNone) {
			return nil, fmt.Errorf("%w: %s products carry no composition or parent", ErrInvalidTypeTransition, p.Role)
		}

	case model.RoleVariant:
		if req.ParentID == "" {
			return nil, fmt.Errorf("%w: variant requires a parent", ErrInvalidTypeTransition)
		}
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid parent id", ErrProductNotFound)
		}
		parent, err := s.repo.FindByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent %s", ErrProductNotFound, parentID)
		}
		if parent.Role != model.RoleParent || !parent.Active {
			return nil, fmt.Errorf("%w: parent must be an active grouping product", ErrInvalidTypeTransition)
		}
		p.ParentID = &parentID
		if req.IsComposed {
			p.IsComposed = true
			p.StockMode = composedStockMode(req.StockMode)
		}

	case model.RoleKit:
		if req.ParentID != "" {
			return nil, fmt.Errorf("%w: kit cannot belong to a parent", ErrInvalidTypeTransition)
		}
		p.StockMode = composedStockMode(req.StockMode)

	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidTypeTransition, req.Role)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// composedStockMode defaults a composed product to virtual derivation when
// the caller did not choose.
func composedStockMode(requested string) model.StockMode {
	if requested == string(model.StockModePhysical) {
		return model.StockModePhysical
	}
	return model.StockModeVirtual
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return toProductResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if p.Role == model.RoleParent {
		count, err := s.repo.CountActiveVariants(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d active variants", ErrHasActiveChildren, count)
		}
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return s.repo.Reactivate(ctx, id)
}

// SetStockMode switches a composed product between virtual and physical
// derivation. The mode is frozen once the product has any composition entry
// or ledger activity — switching then would change the meaning of history,
// and no reconciliation is defined for that.
func (s *productService) SetStockMode(ctx context.Context, id uuid.UUID, mode model.StockMode) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if !p.Composed() {
		return nil, fmt.Errorf("%w: %s is not a composed product", ErrInvalidTypeTransition, id)
	}
	if p.StockMode == mode {
		return toProductResponse(p), nil
	}

	referenced, err := s.composition.ReferencesProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	hasLedger, err := s.ledger.HasEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	if referenced || hasLedger {
		return nil, fmt.Errorf("%w: stock_mode is frozen after first composition entry or stock movement", ErrInvalidTypeTransition)
	}

	p.StockMode = mode
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                    p.ID.String(),
		SKU:                   p.SKU,
		Name:                  p.Name,
		Role:                  string(p.Role),
		StockMode:             string(p.StockMode),
		IsComposed:            p.IsComposed,
		MinStock:              p.MinStock,
		Active:                p.Active,
		DiscontinuationReason: p.DiscontinuationReason,
		CreatedAt:             p.CreatedAt.Format(time.RFC3339),
	}
	if p.ParentID != nil {
		v := p.ParentID.String()
		resp.ParentID = &v
	}
	if p.PredecessorID != nil {
		v := p.PredecessorID.String()
		resp.PredecessorID = &v
	}
	if p.SuccessorID != nil {
		v := p.SuccessorID.String()
		resp.SuccessorID = &v
	}
	if p.DiscontinuedAt != nil {
		v := p.DiscontinuedAt.Format(time.RFC3339)
		resp.DiscontinuedAt = &v
	}
	return resp
}
