package lock

import (
	"context"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"sync"
	"time"
)

type orderSlot struct {
	ch   chan struct{}
	refs int
}

// LocalOrderLocker serializes work per order inside one process.
// Slots are created on demand and dropped once nobody holds or waits on them.
type LocalOrderLocker struct {
	mu    sync.Mutex
	slots map[int64]*orderSlot
	wait  time.Duration
}

var _ ports.OrderLocker = (*LocalOrderLocker)(nil)

// NewLocalOrderLocker returns a locker that gives up after wait. A zero wait blocks until ctx ends.
func NewLocalOrderLocker(wait time.Duration) *LocalOrderLocker {
	return &LocalOrderLocker{slots: make(map[int64]*orderSlot), wait: wait}
}

func (l *LocalOrderLocker) Lock(ctx context.Context, orderID int64) (func(), error) {
	slot := l.acquire(orderID)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(orderID)
		return nil, fmt.Errorf("lock order %d: %w", orderID, domain.ErrLockTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.release(orderID)
		})
	}, nil
}

func (l *LocalOrderLocker) acquire(orderID int64) *orderSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[orderID]
	if !ok {
		slot = &orderSlot{ch: make(chan struct{}, 1)}
		l.slots[orderID] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalOrderLocker) release(orderID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[orderID]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, orderID)
	}
}
