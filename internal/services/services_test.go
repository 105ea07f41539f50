package services

import (
	"context"
	"freight-fulfillment-service/internal/adapters/lock"
	"freight-fulfillment-service/internal/adapters/memory"
	"freight-fulfillment-service/internal/adapters/session"
	"freight-fulfillment-service/internal/domain"
	"io"
	"log"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	resolver   *RouteResolver
	ledger     *CapacityLedger
	controller *AllocationController
}

func seedRoutes(t *testing.T, store *memory.Store) {
	t.Helper()

	rows := []domain.RouteNode{
		{City: domain.Windsor, DistanceKm: 191, TravelHours: 2.5},
		{City: domain.London, DistanceKm: 128, TravelHours: 1.75},
		{City: domain.Hamilton, DistanceKm: 68, TravelHours: 1.25},
		{City: domain.Toronto, DistanceKm: 60, TravelHours: 1.3},
		{City: domain.Oshawa, DistanceKm: 134, TravelHours: 1.65},
		{City: domain.Belleville, DistanceKm: 82, TravelHours: 1.2},
		{City: domain.Kingston, DistanceKm: 196, TravelHours: 2.5},
		{City: domain.Ottawa},
	}
	for _, r := range rows {
		if err := store.UpdateRoute(context.Background(), r); err != nil {
			t.Fatalf("seed route: %v", err)
		}
	}
}

func addCarrier(t *testing.T, store *memory.Store, id int64, city domain.City, ftl, ltl int) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.GetCarrier(ctx, id); err != nil {
		c := domain.Carrier{
			CarrierID:    id,
			Name:         "carrier",
			FTLRate:      decimal.RequireFromString("5.21"),
			LTLRate:      decimal.RequireFromString("0.3621"),
			ReeferCharge: decimal.RequireFromString("0.08"),
			Active:       true,
		}
		if err := store.UpsertCarrier(ctx, c); err != nil {
			t.Fatalf("seed carrier: %v", err)
		}
	}

	cc := domain.CarrierCity{Carrier: domain.Carrier{CarrierID: id}, City: city, FTLAvailable: ftl, LTLAvailable: ltl}
	if err := store.UpsertCarrierCity(ctx, cc); err != nil {
		t.Fatalf("seed carrier city: %v", err)
	}
}

func addOrder(t *testing.T, store *memory.Store, o domain.Order) {
	t.Helper()
	if err := store.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	seedRoutes(t, store)

	resolver, err := NewRouteResolver(context.Background(), store)
	if err != nil {
		t.Fatalf("new route resolver: %v", err)
	}

	ledger := NewCapacityLedger(store)
	controller := NewAllocationController(
		ledger,
		store,
		resolver,
		session.NewCacheSessionStore(time.Minute),
		lock.NewLocalOrderLocker(time.Second),
		log.New(io.Discard, "", 0),
	)
	controller.Now = func() time.Time { return testNow }

	ids := 0
	controller.NewID = func() string {
		ids++
		return "session-" + strconv.Itoa(ids)
	}

	return &fixture{store: store, resolver: resolver, ledger: ledger, controller: controller}
}
