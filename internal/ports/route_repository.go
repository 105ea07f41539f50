package ports

import (
	"context"
	"freight-fulfillment-service/internal/domain"
)

// Port: persisted route rows, one per city.
type RouteRepository interface {
	// Return every persisted route row. Neighbor links are not populated.
	LoadRoutes(ctx context.Context) ([]domain.RouteNode, error)
	// Create or replace the edge weights of one city's route row.
	UpdateRoute(ctx context.Context, node domain.RouteNode) error
}
