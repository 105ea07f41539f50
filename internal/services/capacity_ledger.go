package services

import (
	"context"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
	"freight-fulfillment-service/internal/ports"
	"slices"
	"strings"
)

// CapacityLedger validates ledger operations before they reach the repository.
type CapacityLedger struct {
	Repo ports.CapacityLedgerRepository
}

func NewCapacityLedger(repo ports.CapacityLedgerRepository) *CapacityLedger {
	return &CapacityLedger{Repo: repo}
}

// ListCarriersAt returns the active carriers with capacity for job at city,
// ordered by carrier id. The result is a snapshot; nothing is reserved.
func (l *CapacityLedger) ListCarriersAt(
	ctx context.Context,
	city domain.City,
	job domain.JobType,
) (_ []domain.CarrierCity, err error) {
	defer obs.Time(ctx, "ledger.ListCarriersAt")(&err)

	if !city.Valid() {
		return nil, fmt.Errorf("list carriers at %d: %w", int(city), domain.ErrUnknownCity)
	}
	if !job.Valid() {
		return nil, fmt.Errorf("list carriers at %s: invalid job type %d", city, int(job))
	}

	rows, err := l.Repo.ListCarrierCities(ctx, ports.CarrierCityFilter{City: &city, JobType: &job})
	if err != nil {
		return nil, fmt.Errorf("list carriers at %s: %w", city, err)
	}

	// Repositories already filter; re-check so a loose adapter cannot leak empty carriers.
	out := make([]domain.CarrierCity, 0, len(rows))
	for _, cc := range rows {
		if cc.City != city || !cc.Carrier.Active || cc.Available(job) <= 0 {
			continue
		}
		out = append(out, cc)
	}

	slices.SortFunc(out, func(a, b domain.CarrierCity) int {
		switch {
		case a.Carrier.CarrierID < b.Carrier.CarrierID:
			return -1
		case a.Carrier.CarrierID > b.Carrier.CarrierID:
			return 1
		}
		return 0
	})

	return out, nil
}

// ListAll returns every ledger entry, optionally restricted to one city.
func (l *CapacityLedger) ListAll(ctx context.Context, city *domain.City) ([]domain.CarrierCity, error) {
	if city != nil && !city.Valid() {
		return nil, fmt.Errorf("list ledger: %w", domain.ErrUnknownCity)
	}

	rows, err := l.Repo.ListCarrierCities(ctx, ports.CarrierCityFilter{City: city})
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return rows, nil
}

// Consume decrements a carrier's capacity at a city.
func (l *CapacityLedger) Consume(ctx context.Context, carrierID int64, city domain.City, job domain.JobType, units int) error {
	if units <= 0 {
		return fmt.Errorf("consume capacity: %d units: %w", units, domain.ErrInvalidSelection)
	}
	if !city.Valid() {
		return fmt.Errorf("consume capacity: %w", domain.ErrUnknownCity)
	}

	if err := l.Repo.Consume(ctx, carrierID, city, job, units); err != nil {
		return fmt.Errorf("consume capacity: carrier %d at %s: %w", carrierID, city, err)
	}
	return nil
}

// UpsertCity creates or updates the ledger entry for (carrier, city).
func (l *CapacityLedger) UpsertCity(ctx context.Context, cc domain.CarrierCity) error {
	if cc.Carrier.CarrierID <= 0 {
		return fmt.Errorf("upsert carrier city: carrier id must be positive: %w", domain.ErrInvalidInput)
	}
	if !cc.City.Valid() {
		return fmt.Errorf("upsert carrier city: %w", domain.ErrUnknownCity)
	}
	if cc.FTLAvailable < 0 || cc.LTLAvailable < 0 {
		return fmt.Errorf("upsert carrier city: availability must be non-negative (ftl=%d ltl=%d): %w", cc.FTLAvailable, cc.LTLAvailable, domain.ErrInvalidInput)
	}

	if _, err := l.Repo.GetCarrier(ctx, cc.Carrier.CarrierID); err != nil {
		return fmt.Errorf("upsert carrier city: carrier %d: %w", cc.Carrier.CarrierID, err)
	}

	if err := l.Repo.UpsertCarrierCity(ctx, cc); err != nil {
		return fmt.Errorf("upsert carrier city: %w", err)
	}
	return nil
}

// Remove deletes the ledger entry for (carrier, city).
func (l *CapacityLedger) Remove(ctx context.Context, carrierID int64, city domain.City) error {
	if !city.Valid() {
		return fmt.Errorf("remove carrier city: %w", domain.ErrUnknownCity)
	}
	if err := l.Repo.RemoveCarrierCity(ctx, carrierID, city); err != nil {
		return fmt.Errorf("remove carrier city: carrier %d at %s: %w", carrierID, city, err)
	}
	return nil
}

// UpsertCarrier creates or updates a carrier and its rate schedule.
func (l *CapacityLedger) UpsertCarrier(ctx context.Context, c domain.Carrier) error {
	if c.CarrierID <= 0 {
		return fmt.Errorf("upsert carrier: carrier id must be positive: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("upsert carrier: name must not be empty: %w", domain.ErrInvalidInput)
	}
	if c.FTLRate.IsNegative() || c.LTLRate.IsNegative() || c.ReeferCharge.IsNegative() {
		return fmt.Errorf("upsert carrier: rates must be non-negative: %w", domain.ErrInvalidInput)
	}

	if err := l.Repo.UpsertCarrier(ctx, c); err != nil {
		return fmt.Errorf("upsert carrier: %w", err)
	}
	return nil
}

// SetCarrierActive toggles whether a carrier is offered as a candidate.
func (l *CapacityLedger) SetCarrierActive(ctx context.Context, carrierID int64, active bool) error {
	if err := l.Repo.SetCarrierActive(ctx, carrierID, active); err != nil {
		return fmt.Errorf("set carrier %d active=%v: %w", carrierID, active, err)
	}
	return nil
}
