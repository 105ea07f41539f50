package services

import (
	"context"
	"errors"
	"freight-fulfillment-service/internal/domain"
	"sync"
	"testing"
)

func TestCapacityLedgerListCarriersAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	addCarrier(t, f.store, 3, domain.Windsor, 0, 10)
	addCarrier(t, f.store, 1, domain.Windsor, 2, 5)
	addCarrier(t, f.store, 2, domain.Windsor, 1, 0)
	addCarrier(t, f.store, 4, domain.London, 5, 5)
	addCarrier(t, f.store, 5, domain.Windsor, 5, 5)
	if err := f.ledger.SetCarrierActive(ctx, 5, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.ledger.ListCarriersAt(ctx, domain.Windsor, domain.LTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Carrier.CarrierID != 1 || got[1].Carrier.CarrierID != 3 {
		t.Fatalf("LTL candidates at Windsor = %+v, want carriers 1 and 3", got)
	}

	ftl, err := f.ledger.ListCarriersAt(ctx, domain.Windsor, domain.FTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ftl) != 2 || ftl[0].Carrier.CarrierID != 1 || ftl[1].Carrier.CarrierID != 2 {
		t.Fatalf("FTL candidates at Windsor = %+v, want carriers 1 and 2", ftl)
	}

	if _, err := f.ledger.ListCarriersAt(ctx, domain.CityNone, domain.LTL); !errors.Is(err, domain.ErrUnknownCity) {
		t.Fatalf("err = %v, want ErrUnknownCity", err)
	}
}

func TestCapacityLedgerConsume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addCarrier(t, f.store, 1, domain.Windsor, 1, 10)

	if err := f.ledger.Consume(ctx, 1, domain.Windsor, domain.LTL, 0); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("zero units: err = %v, want ErrInvalidSelection", err)
	}
	if err := f.ledger.Consume(ctx, 1, domain.Windsor, domain.LTL, 11); !errors.Is(err, domain.ErrInsufficientCapacity) {
		t.Fatalf("too many units: err = %v, want ErrInsufficientCapacity", err)
	}
	if err := f.ledger.Consume(ctx, 1, domain.Windsor, domain.LTL, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.ledger.Consume(ctx, 1, domain.Windsor, domain.FTL, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := f.ledger.ListAll(ctx, nil)
	if len(all) != 1 || all[0].LTLAvailable != 0 || all[0].FTLAvailable != 0 {
		t.Fatalf("ledger = %+v, want carrier 1 drained", all)
	}
}

func TestCapacityLedgerConcurrentConsumeNeverOversells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addCarrier(t, f.store, 1, domain.Windsor, 0, 26)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		okN  int
		errN int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.ledger.Consume(ctx, 1, domain.Windsor, domain.LTL, 5)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okN++
			case errors.Is(err, domain.ErrInsufficientCapacity):
				errN++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if okN != 5 || errN != 5 {
		t.Fatalf("successes=%d failures=%d, want 5/5", okN, errN)
	}
	all, _ := f.ledger.ListAll(ctx, nil)
	if all[0].LTLAvailable != 1 {
		t.Fatalf("remaining = %d, want 1", all[0].LTLAvailable)
	}
}

func TestCapacityLedgerAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addCarrier(t, f.store, 1, domain.Windsor, 1, 1)

	bad := domain.CarrierCity{Carrier: domain.Carrier{CarrierID: 1}, City: domain.London, LTLAvailable: -1}
	if err := f.ledger.UpsertCity(ctx, bad); err == nil {
		t.Fatalf("negative capacity accepted")
	}

	unknown := domain.CarrierCity{Carrier: domain.Carrier{CarrierID: 99}, City: domain.London}
	if err := f.ledger.UpsertCity(ctx, unknown); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown carrier: err = %v, want ErrNotFound", err)
	}

	ok := domain.CarrierCity{Carrier: domain.Carrier{CarrierID: 1}, City: domain.London, FTLAvailable: 3, LTLAvailable: 40}
	if err := f.ledger.UpsertCity(ctx, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	london := domain.London
	rows, _ := f.ledger.ListAll(ctx, &london)
	if len(rows) != 1 || rows[0].LTLAvailable != 40 {
		t.Fatalf("London ledger = %+v", rows)
	}

	if err := f.ledger.Remove(ctx, 1, domain.London); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.ledger.Remove(ctx, 1, domain.London); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second remove: err = %v, want ErrNotFound", err)
	}

	if err := f.ledger.SetCarrierActive(ctx, 42, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown carrier: err = %v, want ErrNotFound", err)
	}
}
