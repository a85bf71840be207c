package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// productLocks serializes stock mutations per product. Assemble/disassemble
// span several products, so locks are always taken in sorted ID order —
// concurrent calls sharing components cannot deadlock.
type productLocks struct {
	mu   sync.Mutex
	sems map[uuid.UUID]*semaphore.Weighted
}

func newProductLocks() *productLocks {
	return &productLocks{sems: make(map[uuid.UUID]*semaphore.Weighted)}
}

func (l *productLocks) sem(id uuid.UUID) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[id]
	if !ok {
		s = semaphore.NewWeighted(1)
		l.sems[id] = s
	}
	return s
}

// acquire locks every given product, waiting at most wait in total. It
// returns a release func on success and ErrConcurrentConflict when the wait
// is exceeded, so callers surface a retryable conflict instead of blocking.
func (l *productLocks) acquire(ctx context.Context, ids []uuid.UUID, wait time.Duration) (func(), error) {
	sorted := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	held := make([]*semaphore.Weighted, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}
	for _, id := range sorted {
		s := l.sem(id)
		if err := s.Acquire(ctx, 1); err != nil {
			release()
			return nil, ErrConcurrentConflict
		}
		held = append(held, s)
	}
	return release, nil
}
