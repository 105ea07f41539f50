package services

import (
	"context"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
	"freight-fulfillment-service/internal/ports"
	"time"
)

// OrderStatus is an order with its trips and simulated delivery progress.
type OrderStatus struct {
	Order            *domain.Order
	Trips            []domain.Trip
	ExpectedDelivery *time.Time
	Progress         float64
}

func NewOrderStatus(order *domain.Order, trips []domain.Trip, now time.Time) OrderStatus {
	return OrderStatus{
		Order:            order,
		Trips:            trips,
		ExpectedDelivery: order.ExpectedDelivery(trips),
		Progress:         order.Progress(trips, now),
	}
}

// CreateOrder accepts a new shipment request. FTL orders are one truckload
// whatever quantity was sent.
func (c *AllocationController) CreateOrder(ctx context.Context, o domain.Order) (_ OrderStatus, err error) {
	defer obs.Time(ctx, "orders.Create")(&err)

	o.OrderID = 0
	o.CreatedAt = c.Now()
	o.StartedAt, o.CompletedAt, o.Completed = nil, nil, false
	if o.JobType == domain.FTL {
		o.Quantity = 1
	}
	if err := o.Validate(); err != nil {
		return OrderStatus{}, fmt.Errorf("create order: %w", err)
	}

	id, err := c.Orders.InsertOrder(ctx, o)
	if err != nil {
		return OrderStatus{}, fmt.Errorf("create order: %w", err)
	}
	o.OrderID = id

	c.Logger.Printf("op=orders.create order=%d client=%q job=%s van=%s qty=%d %s->%s",
		id, o.ClientName, o.JobType, o.VanType, o.Quantity, o.Origin, o.Destination)

	return NewOrderStatus(&o, nil, c.Now()), nil
}

// OrderStatus loads one order and its trips.
func (c *AllocationController) OrderStatus(ctx context.Context, orderID int64) (OrderStatus, error) {
	order, err := c.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return OrderStatus{}, fmt.Errorf("order status %d: %w", orderID, err)
	}

	trips, err := c.Orders.ListTrips(ctx, orderID)
	if err != nil {
		return OrderStatus{}, fmt.Errorf("order status %d: list trips: %w", orderID, err)
	}

	return NewOrderStatus(order, trips, c.Now()), nil
}

// ListOrders returns orders filtered by completion status, oldest first.
func (c *AllocationController) ListOrders(ctx context.Context, status ports.OrderStatus) ([]OrderStatus, error) {
	orders, err := c.Orders.ListOrders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	now := c.Now()
	out := make([]OrderStatus, 0, len(orders))
	for _, o := range orders {
		trips, err := c.Orders.ListTrips(ctx, o.OrderID)
		if err != nil {
			return nil, fmt.Errorf("list orders: trips of order %d: %w", o.OrderID, err)
		}
		out = append(out, NewOrderStatus(o, trips, now))
	}

	return out, nil
}
