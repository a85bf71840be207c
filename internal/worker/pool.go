package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertHandler reacts to stock events: outbound movements that leave a leaf
// product at or below its minimum stock are logged as low-stock alerts.
// This runs outside the engine's request path — the ledger is the source of
// truth and never depends on the handler.
type AlertHandler struct {
	products repository.ProductRepository
	ledger   repository.StockLedgerRepository
}

func NewAlertHandler(products repository.ProductRepository, ledger repository.StockLedgerRepository) *AlertHandler {
	return &AlertHandler{products: products, ledger: ledger}
}

func (h *AlertHandler) Handle(ctx context.Context, ev StockEvent) {
	if ev.Delta >= 0 {
		return
	}
	productID, err := uuid.Parse(ev.ProductID)
	if err != nil {
		log.Error().Str("product_id", ev.ProductID).Msg("stock event with invalid product id")
		return
	}
	p, err := h.products.FindByID(ctx, productID)
	if err != nil {
		return
	}
	bal, err := h.ledger.Balance(ctx, productID)
	if err != nil {
		return
	}
	if bal <= p.MinStock {
		log.Warn().
			Str("product_id", ev.ProductID).
			Str("sku", p.SKU).
			Int("stock", bal).
			Int("min_stock", p.MinStock).
			Str("reason", ev.Reason).
			Msg("low stock alert")
	}
}

// StartWorkerPool launches numWorkers goroutines consuming the stock event
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handler *AlertHandler, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handler, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handler *AlertHandler, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueStockEvents).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			var ev StockEvent
			if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal stock event")
				continue
			}
			handler.Handle(ctx, ev)
		}
	}
}
