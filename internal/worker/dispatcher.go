package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueStockEvents = "events:stock"

// StockEvent describes one ledger append, published after commit for the
// alert worker and any external reporting consumer. Best-effort: the stock
// transaction itself never depends on the publish succeeding.
type StockEvent struct {
	ProductID   string `json:"product_id"`
	Delta       int    `json:"delta"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// Dispatcher pushes stock events into a Redis list.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) PublishStockEvent(ctx context.Context, ev StockEvent) error {
	encoded, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueStockEvents, encoded).Err()
}
