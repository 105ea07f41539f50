package memory

import (
	"context"
	"errors"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"testing"
	"time"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	s := NewStore()
	if err := s.UpsertCarrier(ctx, domain.Carrier{CarrierID: 1, Name: "carrier", Active: true}); err != nil {
		t.Fatalf("seed carrier: %v", err)
	}
	cc := domain.CarrierCity{Carrier: domain.Carrier{CarrierID: 1}, City: domain.Windsor, FTLAvailable: 5, LTLAvailable: 50}
	if err := s.UpsertCarrierCity(ctx, cc); err != nil {
		t.Fatalf("seed carrier city: %v", err)
	}
	for _, o := range []domain.Order{
		{OrderID: 1, Origin: domain.Windsor, Destination: domain.London, JobType: domain.LTL, Quantity: 30},
		{OrderID: 2, Origin: domain.Windsor, Destination: domain.London, JobType: domain.FTL, Quantity: 1},
	} {
		if err := s.CreateOrder(ctx, o); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}
	return s
}

func ltlCommit(units, expected int) ports.AllocationCommit {
	remaining := expected - units
	return ports.AllocationCommit{
		Trip:              domain.Trip{OrderID: 1, CarrierID: 1, JobType: domain.LTL, Units: units},
		City:              domain.Windsor,
		RemainingQuantity: &remaining,
		ExpectedQuantity:  expected,
		StartedAt:         time.Now(),
	}
}

func TestCommitAllocationChecksStoredQuantity(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.CommitAllocation(ctx, ltlCommit(26, 30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CommitAllocation(ctx, ltlCommit(26, 30)); !errors.Is(err, domain.ErrStaleSession) {
		t.Fatalf("replayed plan: err = %v, want ErrStaleSession", err)
	}

	order, _ := s.GetOrder(ctx, 1)
	trips, _ := s.ListTrips(ctx, 1)
	if order.Quantity != 4 || len(trips) != 1 {
		t.Fatalf("order quantity=%d trips=%d, want 4 and 1", order.Quantity, len(trips))
	}
}

func TestCommitAllocationAllowsOneTruckload(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	commit := ports.AllocationCommit{
		Trip:      domain.Trip{OrderID: 2, CarrierID: 1, JobType: domain.FTL, Units: 1},
		City:      domain.Windsor,
		StartedAt: time.Now(),
	}

	if _, err := s.CommitAllocation(ctx, commit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CommitAllocation(ctx, commit); !errors.Is(err, domain.ErrStaleSession) {
		t.Fatalf("second truckload: err = %v, want ErrStaleSession", err)
	}

	rows, _ := s.ListCarrierCities(ctx, ports.CarrierCityFilter{})
	if rows[0].FTLAvailable != 4 {
		t.Fatalf("ftl = %d, want 4", rows[0].FTLAvailable)
	}
}

func TestCommitAllocationRejectsCompletedOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.MarkOrderCompleted(ctx, 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CommitAllocation(ctx, ltlCommit(26, 30)); !errors.Is(err, domain.ErrOrderCompleted) {
		t.Fatalf("err = %v, want ErrOrderCompleted", err)
	}

	rows, _ := s.ListCarrierCities(ctx, ports.CarrierCityFilter{})
	trips, _ := s.ListTrips(ctx, 1)
	if rows[0].LTLAvailable != 50 || len(trips) != 0 {
		t.Fatalf("completed order consumed capacity: ltl=%d trips=%d", rows[0].LTLAvailable, len(trips))
	}
}
