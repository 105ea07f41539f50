package domain

import (
	"fmt"
	"slices"
)

// AllocationState is the progress of an order through carrier selection.
type AllocationState int

const (
	AwaitingSelection AllocationState = iota
	PartiallyFulfilled
	Fulfilled
)

func (s AllocationState) String() string {
	switch s {
	case AwaitingSelection:
		return "AwaitingSelection"
	case PartiallyFulfilled:
		return "PartiallyFulfilled"
	case Fulfilled:
		return "Fulfilled"
	default:
		return fmt.Sprintf("AllocationState(%d)", int(s))
	}
}

func (s AllocationState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// AllocationSession holds the in-progress carrier selection for one order.
//
// Remaining counts pallets for LTL orders and truckloads (1, then 0) for FTL orders.
// Candidates is the session's view of the capacity ledger at the order's origin;
// it shrinks as carriers are exhausted. Plan never mutates the session and Apply
// is the only mutator, so a failed commit leaves the session untouched.
type AllocationSession struct {
	SessionID       string
	Order           Order
	Leg             Leg
	InitialQuantity int
	Remaining       int
	State           AllocationState
	Candidates      []CarrierCity
	Trips           []Trip
}

// Assignment is one planned carrier selection, not yet committed.
type Assignment struct {
	Candidate       CarrierCity
	JobType         JobType
	Units           int
	RemainingBefore int
	RemainingAfter  int
	StateAfter      AllocationState
	ExhaustsCarrier bool
}

// NewAllocationSession opens a session for an order against the carriers available at its origin.
func NewAllocationSession(id string, order Order, leg Leg, candidates []CarrierCity) (*AllocationSession, error) {
	if order.Completed {
		return nil, fmt.Errorf("new allocation session: order %d: %w", order.OrderID, ErrOrderCompleted)
	}
	if !order.JobType.Valid() {
		return nil, fmt.Errorf("new allocation session: order %d has job type %d: %w", order.OrderID, int(order.JobType), ErrInvalidSelection)
	}

	initial := 1
	if order.JobType == LTL {
		if order.Quantity <= 0 {
			return nil, fmt.Errorf("new allocation session: order %d has quantity %d: %w", order.OrderID, order.Quantity, ErrInvalidSelection)
		}
		initial = order.Quantity
	}

	s := &AllocationSession{
		SessionID:       id,
		Order:           order,
		Leg:             leg,
		InitialQuantity: initial,
		Remaining:       initial,
		State:           AwaitingSelection,
	}
	s.SetCandidates(candidates)

	return s, nil
}

// SetCandidates replaces the candidate list, keeping only active carriers at the
// order's origin that still have capacity for the order's job type.
func (s *AllocationSession) SetCandidates(candidates []CarrierCity) {
	out := make([]CarrierCity, 0, len(candidates))
	for _, c := range candidates {
		if !c.Carrier.Active || c.City != s.Order.Origin || c.Available(s.Order.JobType) <= 0 {
			continue
		}
		out = append(out, c)
	}
	s.Candidates = out
}

// Candidate looks up a carrier in the session's candidate list.
func (s *AllocationSession) Candidate(carrierID int64) (CarrierCity, bool) {
	for _, c := range s.Candidates {
		if c.Carrier.CarrierID == carrierID {
			return c, true
		}
	}
	return CarrierCity{}, false
}

// Plan computes the effect of selecting a carrier without changing the session.
//
// FTL selections take one truckload and fulfil the order. LTL selections take
// min(remaining, available, TripCap) pallets.
func (s *AllocationSession) Plan(carrierID int64) (Assignment, error) {
	if s.State == Fulfilled {
		return Assignment{}, fmt.Errorf("plan selection: order %d is already fulfilled: %w", s.Order.OrderID, ErrInvalidSelection)
	}
	if carrierID == 0 {
		return Assignment{}, fmt.Errorf("plan selection: select a carrier: %w", ErrInvalidSelection)
	}

	cand, ok := s.Candidate(carrierID)
	if !ok {
		return Assignment{}, fmt.Errorf("plan selection: carrier %d is not a candidate at %s: %w", carrierID, s.Order.Origin, ErrInvalidSelection)
	}

	job := s.Order.JobType
	available := cand.Available(job)
	if available <= 0 {
		return Assignment{}, fmt.Errorf("plan selection: carrier %d has no %s capacity at %s: %w", carrierID, job, cand.City, ErrInvalidSelection)
	}

	units := 1
	if job == LTL {
		units = min(s.Remaining, available, TripCap)
	}
	if units <= 0 {
		return Assignment{}, fmt.Errorf("plan selection: computed %d units: %w", units, ErrInvalidSelection)
	}

	after := s.Remaining - units
	state := PartiallyFulfilled
	if after == 0 {
		state = Fulfilled
	}

	return Assignment{
		Candidate:       cand,
		JobType:         job,
		Units:           units,
		RemainingBefore: s.Remaining,
		RemainingAfter:  after,
		StateAfter:      state,
		ExhaustsCarrier: units == available,
	}, nil
}

// Apply records a committed assignment and its trip.
func (s *AllocationSession) Apply(a Assignment, trip Trip) error {
	if a.RemainingBefore != s.Remaining {
		return fmt.Errorf("apply selection: stale assignment (planned at %d, now %d): %w", a.RemainingBefore, s.Remaining, ErrInvalidSelection)
	}

	s.Remaining = a.RemainingAfter
	s.State = a.StateAfter
	s.Trips = append(s.Trips, trip)

	for i := range s.Candidates {
		if s.Candidates[i].Carrier.CarrierID != a.Candidate.Carrier.CarrierID {
			continue
		}
		s.Candidates[i].consume(a.JobType, a.Units)
		if s.Candidates[i].Available(a.JobType) <= 0 {
			s.Candidates = slices.Delete(s.Candidates, i, i+1)
		}
		break
	}

	return nil
}

// AllocatedUnits sums the units of every trip recorded in the session.
func (s *AllocationSession) AllocatedUnits() int {
	total := 0
	for _, t := range s.Trips {
		total += t.Units
	}
	return total
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *AllocationSession) Clone() *AllocationSession {
	c := *s
	c.Candidates = slices.Clone(s.Candidates)
	c.Trips = slices.Clone(s.Trips)
	return &c
}
