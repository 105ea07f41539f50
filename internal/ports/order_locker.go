package ports

import "context"

// Serializes allocation work per order id across callers.
type OrderLocker interface {
	// Block until the order is locked or ctx ends. The returned func releases the lock.
	Lock(ctx context.Context, orderID int64) (unlock func(), err error)
}
