package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/dto"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxChainLength bounds lineage walks. The chain is a simple path by
// invariant; the bound keeps a corrupted row from looping the walker.
const maxChainLength = 256

// LineageService maintains the predecessor → successor discontinuation
// chain: a simple doubly-linked path over product identity, created once at
// discontinuation time and immutable afterwards. Reporting consolidates
// sales history across re-issued SKUs by following it.
type LineageService interface {
	LinkPredecessor(ctx context.Context, req dto.LinkPredecessorRequest) (*dto.LineageResponse, error)
	GetLineage(ctx context.Context, productID uuid.UUID) (*dto.LineageResponse, error)
}

type lineageService struct {
	products repository.ProductRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewLineageService(products repository.ProductRepository, rdb *redis.Client, cacheTTL time.Duration) LineageService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &lineageService{products: products, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *lineageService) LinkPredecessor(ctx context.Context, req dto.LinkPredecessorRequest) (*dto.LineageResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrProductNotFound)
	}
	predecessorID, err := uuid.Parse(req.PredecessorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid predecessor id", ErrProductNotFound)
	}
	if productID == predecessorID {
		return nil, ErrSelfReference
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	predecessor, err := s.products.FindByID(ctx, predecessorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, predecessorID)
	}

	if predecessor.SuccessorID != nil {
		return nil, fmt.Errorf("%w: %s", ErrPredecessorAlreadyLinked, predecessor.SKU)
	}
	if product.PredecessorID != nil {
		return nil, fmt.Errorf("%w: %s already has a predecessor", ErrPredecessorAlreadyLinked, product.SKU)
	}

	// Walk the predecessor's own chain backwards; reaching the new product
	// means the link would close a loop.
	cursor := predecessor
	for i := 0; cursor.PredecessorID != nil && i < maxChainLength; i++ {
		if *cursor.PredecessorID == productID {
			return nil, ErrWouldCreateCycle
		}
		cursor, err = s.products.FindByID(ctx, *cursor.PredecessorID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, *cursor.PredecessorID)
		}
	}

	now := time.Now()
	reason := req.Reason
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		predecessor.SuccessorID = &productID
		predecessor.DiscontinuedAt = &now
		predecessor.DiscontinuationReason = &reason
		if err := s.products.UpdateTx(tx, predecessor); err != nil {
			return err
		}
		product.PredecessorID = &predecessorID
		return s.products.UpdateTx(tx, product)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp, err := s.buildChain(ctx, product)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, resp)
	return resp, nil
}

func (s *lineageService) GetLineage(ctx context.Context, productID uuid.UUID) (*dto.LineageResponse, error) {
	if cached := s.cacheGet(ctx, productID); cached != nil {
		return cached, nil
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	resp, err := s.buildChain(ctx, product)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, productID, resp)
	return resp, nil
}

// buildChain walks back to the earliest predecessor, then forward through
// the successor pointers, producing the chain in chronological order.
func (s *lineageService) buildChain(ctx context.Context, p *model.Product) (*dto.LineageResponse, error) {
	earliest := p
	var err error
	for i := 0; earliest.PredecessorID != nil && i < maxChainLength; i++ {
		earliest, err = s.products.FindByID(ctx, *earliest.PredecessorID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, *earliest.PredecessorID)
		}
	}

	resp := &dto.LineageResponse{}
	cursor := earliest
	for i := 0; cursor != nil && i < maxChainLength; i++ {
		resp.Chain = append(resp.Chain, lineageNode(cursor))
		if cursor.SuccessorID == nil {
			break
		}
		cursor, err = s.products.FindByID(ctx, *cursor.SuccessorID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, *cursor.SuccessorID)
		}
	}
	return resp, nil
}

func lineageNode(p *model.Product) dto.LineageNode {
	node := dto.LineageNode{
		ProductID: p.ID.String(),
		SKU:       p.SKU,
		Name:      p.Name,
		Active:    p.Active,
	}
	if p.DiscontinuedAt != nil {
		v := p.DiscontinuedAt.Format(time.RFC3339)
		node.DiscontinuedAt = &v
	}
	return node
}

// ── cache ─────────────────────────────────────────────────────────────────────
// Lineage edges are immutable once written, so cached chains only go stale
// when a NEW link extends the chain — invalidate covers every member then.

func lineageCacheKey(id uuid.UUID) string { return "lineage:" + id.String() }

func (s *lineageService) cacheGet(ctx context.Context, id uuid.UUID) *dto.LineageResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, lineageCacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var resp dto.LineageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *lineageService) cacheSet(ctx context.Context, id uuid.UUID, resp *dto.LineageResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, lineageCacheKey(id), raw, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("lineage cache set failed")
	}
}

func (s *lineageService) invalidate(ctx context.Context, resp *dto.LineageResponse) {
	if s.rdb == nil {
		return
	}
	keys := make([]string, 0, len(resp.Chain))
	for _, node := range resp.Chain {
		if id, err := uuid.Parse(node.ProductID); err == nil {
			keys = append(keys, lineageCacheKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("lineage cache invalidation failed")
	}
}
