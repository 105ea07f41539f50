package ports

import (
	"context"
	"freight-fulfillment-service/internal/domain"
	"time"
)

type OrderStatus int

const (
	OrdersAll OrderStatus = iota
	OrdersActive
	OrdersCompleted
)

// Everything one accepted carrier selection writes.
// The ledger decrement, trip insert and order updates commit together or not at all.
type AllocationCommit struct {
	Trip domain.Trip
	City domain.City
	// New order quantity; nil leaves the quantity alone (FTL).
	RemainingQuantity *int
	// Quantity the selection was planned from. The commit fails with
	// domain.ErrStaleSession unless the stored quantity still matches (LTL),
	// or when the order already has a trip (FTL).
	ExpectedQuantity int
	// Stamped only if the order has not started yet.
	StartedAt time.Time
}

// Port: orders and the trips assigned to them.
type OrderRepository interface {
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, status OrderStatus) ([]*domain.Order, error)
	// Insert or replace an order under its own id (seeding).
	CreateOrder(ctx context.Context, o domain.Order) error
	// Insert a new order under the next free id and return that id.
	InsertOrder(ctx context.Context, o domain.Order) (int64, error)
	// Unguarded write; allocation goes through CommitAllocation.
	UpdateOrderQuantity(ctx context.Context, orderID int64, quantity int) error
	MarkOrderCompleted(ctx context.Context, orderID int64, at time.Time) error

	// Insert a trip on its own, without touching the ledger or the order. Allocation uses CommitAllocation.
	SaveTrip(ctx context.Context, trip domain.Trip) (int64, error)
	ListTrips(ctx context.Context, orderID int64) ([]domain.Trip, error)

	// Apply one selection in a single transaction and return the new trip id.
	CommitAllocation(ctx context.Context, commit AllocationCommit) (int64, error)
}

// The full persistence surface consumed by the fulfillment engine.
type Persistence interface {
	RouteRepository
	CapacityLedgerRepository
	OrderRepository
}
