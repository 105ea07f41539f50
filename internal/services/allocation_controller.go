package services

import (
	"context"
	"errors"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
	"freight-fulfillment-service/internal/ports"
	"log"
	"time"

	"github.com/google/uuid"
)

// AllocationController drives orders through carrier selection.
//
// Each call locks the order, loads the session from the store, works on a copy
// and writes the copy back only after persistence has accepted the change.
type AllocationController struct {
	Ledger    *CapacityLedger
	Orders    ports.OrderRepository
	Distances ports.DistanceProvider
	Sessions  ports.SessionStore
	Locker    ports.OrderLocker
	Logger    ports.Logger

	Now   func() time.Time
	NewID func() string
}

func NewAllocationController(
	ledger *CapacityLedger,
	orders ports.OrderRepository,
	distances ports.DistanceProvider,
	sessions ports.SessionStore,
	locker ports.OrderLocker,
	logger ports.Logger,
) *AllocationController {
	if logger == nil {
		logger = log.Default()
	}
	return &AllocationController{
		Ledger:    ledger,
		Orders:    orders,
		Distances: distances,
		Sessions:  sessions,
		Locker:    locker,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

// StartSession opens (or returns the open) allocation session for an order.
func (c *AllocationController) StartSession(ctx context.Context, orderID int64) (_ *domain.AllocationSession, err error) {
	defer obs.Time(ctx, "allocation.StartSession")(&err)

	unlock, err := c.Locker.Lock(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("start session: order %d: %w", orderID, err)
	}
	defer unlock()

	order, err := c.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("start session: get order %d: %w", orderID, err)
	}
	if order.Completed {
		return nil, fmt.Errorf("start session: order %d: %w", orderID, domain.ErrOrderCompleted)
	}

	trips, err := c.Orders.ListTrips(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("start session: list trips of order %d: %w", orderID, err)
	}
	if s, ok := c.Sessions.GetByOrder(orderID); ok && s.State != domain.Fulfilled {
		if current(s, order, trips) {
			return s, nil
		}
		c.Sessions.Delete(s.SessionID)
		c.Logger.Printf("op=allocation.stale session=%s order=%d remaining=%d stored=%d", s.SessionID, orderID, s.Remaining, order.Quantity)
	}
	if allocated(order, trips) {
		return nil, fmt.Errorf("start session: order %d is already fulfilled: %w", orderID, domain.ErrInvalidSelection)
	}

	dist, err := c.Distances.GetDistance(ctx, order.Origin, order.Destination)
	if err != nil {
		return nil, fmt.Errorf("start session: resolve %s -> %s: %w", order.Origin, order.Destination, err)
	}
	leg := domain.Leg{
		Origin:      order.Origin,
		Destination: order.Destination,
		DistanceKm:  dist.DistanceKm,
		TravelHours: dist.TravelHours,
	}

	candidates, err := c.Ledger.ListCarriersAt(ctx, order.Origin, order.JobType)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	s, err := domain.NewAllocationSession(c.NewID(), *order, leg, candidates)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	c.Sessions.Put(s)

	c.Logger.Printf("op=allocation.start session=%s order=%d job=%s remaining=%d candidates=%d",
		s.SessionID, orderID, order.JobType, s.Remaining, len(s.Candidates))

	return s, nil
}

// Session returns the current state of a session.
func (c *AllocationController) Session(sessionID string) (*domain.AllocationSession, error) {
	s, ok := c.Sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("get session %q: %w", sessionID, domain.ErrSessionNotFound)
	}
	return s, nil
}

// SelectCarrier assigns the chosen carrier to the session's order.
//
// On success the ledger decrement, trip and order update are committed together
// and the session advances. On any error the session's remaining quantity and
// state are unchanged; on ErrInsufficientCapacity the candidate list is refreshed
// from the ledger before the error is returned.
func (c *AllocationController) SelectCarrier(
	ctx context.Context,
	sessionID string,
	carrierID int64,
) (_ *domain.AllocationSession, _ domain.Trip, err error) {
	defer obs.Time(ctx, "allocation.SelectCarrier")(&err)

	s, err := c.Session(sessionID)
	if err != nil {
		return nil, domain.Trip{}, fmt.Errorf("select carrier: %w", err)
	}
	orderID := s.Order.OrderID

	unlock, err := c.Locker.Lock(ctx, orderID)
	if err != nil {
		return nil, domain.Trip{}, fmt.Errorf("select carrier: order %d: %w", orderID, err)
	}
	defer unlock()

	// Another caller may have advanced the session while we waited for the lock.
	s, err = c.Session(sessionID)
	if err != nil {
		return nil, domain.Trip{}, fmt.Errorf("select carrier: %w", err)
	}

	a, err := s.Plan(carrierID)
	if err != nil {
		return s, domain.Trip{}, fmt.Errorf("select carrier: %w", err)
	}

	now := c.Now()
	trip := domain.Trip{
		OrderID:     orderID,
		CarrierID:   carrierID,
		Origin:      s.Order.Origin,
		Destination: s.Order.Destination,
		JobType:     a.JobType,
		VanType:     s.Order.VanType,
		Units:       a.Units,
		DistanceKm:  s.Leg.DistanceKm,
		TravelHours: s.Leg.TravelHours,
		Cost:        domain.TripCost(a.Candidate.Carrier, a.JobType, s.Order.VanType, a.Units, s.Leg.DistanceKm),
	}

	commit := ports.AllocationCommit{Trip: trip, City: s.Order.Origin, StartedAt: now}
	if a.JobType == domain.LTL {
		remaining := a.RemainingAfter
		commit.RemainingQuantity = &remaining
		commit.ExpectedQuantity = a.RemainingBefore
	}

	tripID, err := c.Orders.CommitAllocation(ctx, commit)
	if errors.Is(err, domain.ErrStaleSession) {
		// Another instance allocated this order; the next StartSession rebuilds from storage.
		c.Sessions.Delete(sessionID)
		c.Logger.Printf("op=allocation.stale session=%s order=%d err=%v", sessionID, orderID, err)
		return nil, domain.Trip{}, fmt.Errorf("select carrier %d for order %d: %w", carrierID, orderID, err)
	}
	if errors.Is(err, domain.ErrInsufficientCapacity) {
		fresh, lerr := c.Ledger.ListCarriersAt(ctx, s.Order.Origin, s.Order.JobType)
		if lerr != nil {
			c.Logger.Printf("op=allocation.refresh session=%s order=%d err=%v", sessionID, orderID, lerr)
		} else {
			s.SetCandidates(fresh)
			c.Sessions.Put(s)
		}
		return s, domain.Trip{}, fmt.Errorf("select carrier %d for order %d: %w", carrierID, orderID, err)
	}
	if err != nil {
		return s, domain.Trip{}, fmt.Errorf("select carrier %d for order %d: commit: %w", carrierID, orderID, err)
	}
	trip.TripID = tripID

	if err := s.Apply(a, trip); err != nil {
		// Committed but the in-memory copy is stale; drop it so the next start reloads from storage.
		c.Sessions.Delete(sessionID)
		return nil, domain.Trip{}, fmt.Errorf("select carrier: %w", err)
	}
	if s.Order.StartedAt == nil {
		s.Order.StartedAt = &now
	}
	if a.JobType == domain.LTL {
		s.Order.Quantity = a.RemainingAfter
	}
	c.Sessions.Put(s)

	c.Logger.Printf("op=allocation.select session=%s order=%d carrier=%d units=%d remaining=%d state=%s",
		sessionID, orderID, carrierID, a.Units, s.Remaining, s.State)

	return s, trip, nil
}

// CompleteOrder marks a fully allocated order as delivered.
func (c *AllocationController) CompleteOrder(ctx context.Context, orderID int64) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "allocation.CompleteOrder")(&err)

	unlock, err := c.Locker.Lock(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("complete order %d: %w", orderID, err)
	}
	defer unlock()

	order, err := c.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("complete order %d: %w", orderID, err)
	}
	if order.Completed {
		return nil, fmt.Errorf("complete order %d: %w", orderID, domain.ErrOrderCompleted)
	}

	s, hasSession := c.Sessions.GetByOrder(orderID)
	if hasSession && s.State != domain.Fulfilled {
		return nil, fmt.Errorf("complete order %d: session %s is %s: %w", orderID, s.SessionID, s.State, domain.ErrOrderNotFulfilled)
	}

	trips, err := c.Orders.ListTrips(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("complete order %d: list trips: %w", orderID, err)
	}
	if !allocated(order, trips) {
		return nil, fmt.Errorf("complete order %d: %w", orderID, domain.ErrOrderNotFulfilled)
	}

	now := c.Now()
	if err := c.Orders.MarkOrderCompleted(ctx, orderID, now); err != nil {
		return nil, fmt.Errorf("complete order %d: %w", orderID, err)
	}
	if hasSession {
		c.Sessions.Delete(s.SessionID)
	}

	order.Completed = true
	order.CompletedAt = &now

	c.Logger.Printf("op=allocation.complete order=%d trips=%d", orderID, len(trips))
	return order, nil
}

// allocated reports whether every unit of the order has been assigned a carrier.
func allocated(order *domain.Order, trips []domain.Trip) bool {
	if len(trips) == 0 {
		return false
	}
	if order.JobType == domain.LTL {
		return order.Quantity == 0
	}
	return true
}

// current reports whether a cached session still matches what storage holds for its order.
func current(s *domain.AllocationSession, order *domain.Order, trips []domain.Trip) bool {
	if order.JobType == domain.LTL {
		return s.Remaining == order.Quantity
	}
	return len(trips) == 0
}
