package memory

import (
	"cmp"
	"context"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"slices"
	"sync"
	"time"
)

type ledgerKey struct {
	carrierID int64
	city      domain.City
}

type ledgerEntry struct {
	ftl, ltl int
}

// Store is an in-memory implementation of ports.Persistence.
// A single mutex makes every method, including CommitAllocation, atomic.
type Store struct {
	mu       sync.Mutex
	routes   map[domain.City]domain.RouteNode
	carriers map[int64]domain.Carrier
	ledger   map[ledgerKey]ledgerEntry
	orders   map[int64]domain.Order
	trips    []domain.Trip
	nextTrip int64
}

var _ ports.Persistence = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		routes:   make(map[domain.City]domain.RouteNode),
		carriers: make(map[int64]domain.Carrier),
		ledger:   make(map[ledgerKey]ledgerEntry),
		orders:   make(map[int64]domain.Order),
	}
}

func (s *Store) LoadRoutes(ctx context.Context) ([]domain.RouteNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.RouteNode, 0, len(s.routes))
	for _, n := range s.routes {
		out = append(out, domain.RouteNode{City: n.City, DistanceKm: n.DistanceKm, TravelHours: n.TravelHours})
	}
	slices.SortFunc(out, func(a, b domain.RouteNode) int { return cmp.Compare(a.City, b.City) })
	return out, nil
}

func (s *Store) UpdateRoute(ctx context.Context, node domain.RouteNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes[node.City] = domain.RouteNode{City: node.City, DistanceKm: node.DistanceKm, TravelHours: node.TravelHours}
	return nil
}

func (s *Store) ListCarrierCities(ctx context.Context, filter ports.CarrierCityFilter) ([]domain.CarrierCity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CarrierCity, 0, len(s.ledger))
	for k, e := range s.ledger {
		if filter.City != nil && k.city != *filter.City {
			continue
		}
		cc := domain.CarrierCity{Carrier: s.carriers[k.carrierID], City: k.city, FTLAvailable: e.ftl, LTLAvailable: e.ltl}
		if filter.JobType != nil && (!cc.Carrier.Active || cc.Available(*filter.JobType) <= 0) {
			continue
		}
		out = append(out, cc)
	}

	slices.SortFunc(out, func(a, b domain.CarrierCity) int {
		if c := cmp.Compare(a.Carrier.CarrierID, b.Carrier.CarrierID); c != 0 {
			return c
		}
		return cmp.Compare(a.City, b.City)
	})
	return out, nil
}

func (s *Store) Consume(ctx context.Context, carrierID int64, city domain.City, job domain.JobType, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.consumeLocked(carrierID, city, job, units)
}

func (s *Store) consumeLocked(carrierID int64, city domain.City, job domain.JobType, units int) error {
	k := ledgerKey{carrierID, city}
	e, ok := s.ledger[k]
	if !ok {
		return fmt.Errorf("consume: carrier %d at %s: %w", carrierID, city, domain.ErrNotFound)
	}

	avail := e.ltl
	if job == domain.FTL {
		avail = e.ftl
	}
	if units > avail {
		return fmt.Errorf("consume: carrier %d at %s has %d %s, need %d: %w", carrierID, city, avail, job, units, domain.ErrInsufficientCapacity)
	}

	if job == domain.FTL {
		e.ftl -= units
	} else {
		e.ltl -= units
	}
	s.ledger[k] = e
	return nil
}

func (s *Store) UpsertCarrierCity(ctx context.Context, cc domain.CarrierCity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carriers[cc.Carrier.CarrierID]; !ok {
		return fmt.Errorf("upsert carrier city: carrier %d: %w", cc.Carrier.CarrierID, domain.ErrNotFound)
	}
	s.ledger[ledgerKey{cc.Carrier.CarrierID, cc.City}] = ledgerEntry{ftl: cc.FTLAvailable, ltl: cc.LTLAvailable}
	return nil
}

func (s *Store) RemoveCarrierCity(ctx context.Context, carrierID int64, city domain.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := ledgerKey{carrierID, city}
	if _, ok := s.ledger[k]; !ok {
		return fmt.Errorf("remove carrier city: %w", domain.ErrNotFound)
	}
	delete(s.ledger, k)
	return nil
}

func (s *Store) UpsertCarrier(ctx context.Context, c domain.Carrier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carriers[c.CarrierID] = c
	return nil
}

func (s *Store) GetCarrier(ctx context.Context, carrierID int64) (*domain.Carrier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carriers[carrierID]
	if !ok {
		return nil, fmt.Errorf("get carrier %d: %w", carrierID, domain.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) SetCarrierActive(ctx context.Context, carrierID int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carriers[carrierID]
	if !ok {
		return fmt.Errorf("set carrier active: carrier %d: %w", carrierID, domain.ErrNotFound)
	}
	c.Active = active
	s.carriers[carrierID] = c
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("get order %d: %w", orderID, domain.ErrNotFound)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, status ports.OrderStatus) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		o := o
		if status == ports.OrdersActive && o.Completed || status == ports.OrdersCompleted && !o.Completed {
			continue
		}
		out = append(out, &o)
	}
	slices.SortFunc(out, func(a, b *domain.Order) int { return cmp.Compare(a.OrderID, b.OrderID) })
	return out, nil
}

func (s *Store) CreateOrder(ctx context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.OrderID <= 0 {
		return fmt.Errorf("create order: order id must be positive, got %d", o.OrderID)
	}
	s.orders[o.OrderID] = o
	return nil
}

func (s *Store) InsertOrder(ctx context.Context, o domain.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	for existing := range s.orders {
		id = max(id, existing)
	}
	o.OrderID = id + 1
	s.orders[o.OrderID] = o
	return o.OrderID, nil
}

func (s *Store) UpdateOrderQuantity(ctx context.Context, orderID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("update order quantity: order %d: %w", orderID, domain.ErrNotFound)
	}
	o.Quantity = quantity
	s.orders[orderID] = o
	return nil
}

func (s *Store) MarkOrderCompleted(ctx context.Context, orderID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("mark order completed: order %d: %w", orderID, domain.ErrNotFound)
	}
	o.Completed = true
	o.CompletedAt = &at
	s.orders[orderID] = o
	return nil
}

func (s *Store) SaveTrip(ctx context.Context, trip domain.Trip) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveTripLocked(trip), nil
}

func (s *Store) saveTripLocked(trip domain.Trip) int64 {
	s.nextTrip++
	trip.TripID = s.nextTrip
	s.trips = append(s.trips, trip)
	return trip.TripID
}

func (s *Store) ListTrips(ctx context.Context, orderID int64) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Trip, 0)
	for _, t := range s.trips {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) CommitAllocation(ctx context.Context, commit ports.AllocationCommit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[commit.Trip.OrderID]
	if !ok {
		return 0, fmt.Errorf("commit allocation: order %d: %w", commit.Trip.OrderID, domain.ErrNotFound)
	}

	if o.Completed {
		return 0, fmt.Errorf("commit allocation: order %d: %w", o.OrderID, domain.ErrOrderCompleted)
	}
	if commit.RemainingQuantity != nil && o.Quantity != commit.ExpectedQuantity {
		return 0, fmt.Errorf("commit allocation: order %d quantity is %d, planned from %d: %w", o.OrderID, o.Quantity, commit.ExpectedQuantity, domain.ErrStaleSession)
	}
	if commit.RemainingQuantity == nil && slices.ContainsFunc(s.trips, func(t domain.Trip) bool { return t.OrderID == o.OrderID }) {
		return 0, fmt.Errorf("commit allocation: order %d already has a truckload assigned: %w", o.OrderID, domain.ErrStaleSession)
	}

	if err := s.consumeLocked(commit.Trip.CarrierID, commit.City, commit.Trip.JobType, commit.Trip.Units); err != nil {
		return 0, fmt.Errorf("commit allocation: %w", err)
	}

	if commit.RemainingQuantity != nil {
		o.Quantity = *commit.RemainingQuantity
	}
	if o.StartedAt == nil {
		at := commit.StartedAt
		o.StartedAt = &at
	}
	s.orders[o.OrderID] = o

	return s.saveTripLocked(commit.Trip), nil
}
