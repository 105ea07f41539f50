package ports

import (
	"context"
	"freight-fulfillment-service/internal/domain"
)

// Narrows a capacity ledger query. Nil fields match everything.
// When JobType is set only active carriers with capacity for that job type are returned.
type CarrierCityFilter struct {
	City    *domain.City
	JobType *domain.JobType
}

// Port: the per-carrier, per-city capacity ledger and the carrier rate schedule.
type CapacityLedgerRepository interface {
	ListCarrierCities(ctx context.Context, filter CarrierCityFilter) ([]domain.CarrierCity, error)
	// Atomically decrement availability; domain.ErrInsufficientCapacity when units exceed it.
	Consume(ctx context.Context, carrierID int64, city domain.City, job domain.JobType, units int) error
	// Create or update the (carrier, city) entry.
	UpsertCarrierCity(ctx context.Context, cc domain.CarrierCity) error
	// domain.ErrNotFound when no (carrier, city) entry exists.
	RemoveCarrierCity(ctx context.Context, carrierID int64, city domain.City) error

	UpsertCarrier(ctx context.Context, c domain.Carrier) error
	GetCarrier(ctx context.Context, carrierID int64) (*domain.Carrier, error)
	SetCarrierActive(ctx context.Context, carrierID int64, active bool) error
}
