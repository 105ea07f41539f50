package ports

import (
	"context"
	"freight-fulfillment-service/internal/domain"
)

// Distance and travel duration between two cities.
type DistanceResult struct {
	DistanceKm  int
	TravelHours float64
}

// Contract for retrieving travel distance and duration between cities.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two cities.
	GetDistance(ctx context.Context, origin domain.City, destination domain.City) (DistanceResult, error)
}
