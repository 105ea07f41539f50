package services

import (
	"context"
	"errors"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
	"freight-fulfillment-service/internal/ports"
	"sync"
	"sync/atomic"
)

// RouteResolver answers distance/time queries over the city chain.
//
// Reads go through an atomically swapped *domain.Topology and never block.
// Administrative edits persist first, then publish a fresh topology.
//
// RouteResolver implements ports.DistanceProvider.
type RouteResolver struct {
	repo     ports.RouteRepository
	topology atomic.Pointer[domain.Topology]
	writeMu  sync.Mutex
}

var _ ports.DistanceProvider = (*RouteResolver)(nil)

func NewRouteResolver(ctx context.Context, repo ports.RouteRepository) (*RouteResolver, error) {
	if repo == nil {
		return nil, errors.New("new route resolver: repository is nil")
	}

	r := &RouteResolver{repo: repo}
	if err := r.Reload(ctx); err != nil {
		return nil, fmt.Errorf("new route resolver: %w", err)
	}

	return r, nil
}

// Reload rebuilds the topology from the persisted route rows.
func (r *RouteResolver) Reload(ctx context.Context) (err error) {
	defer obs.Time(ctx, "routes.Reload")(&err)

	rows, err := r.repo.LoadRoutes(ctx)
	if err != nil {
		return fmt.Errorf("reload routes: load: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("reload routes: no route rows: %w", domain.ErrInvalidTopology)
	}

	topo, err := domain.NewTopology(rows)
	if err != nil {
		return fmt.Errorf("reload routes: %w", err)
	}

	r.topology.Store(topo)
	return nil
}

// Resolve returns the accumulated distance and time between two cities.
func (r *RouteResolver) Resolve(origin, destination domain.City) (domain.Leg, error) {
	topo := r.topology.Load()
	if topo == nil {
		return domain.Leg{}, fmt.Errorf("resolve route: topology not loaded: %w", domain.ErrInvalidTopology)
	}
	return topo.Resolve(origin, destination)
}

func (r *RouteResolver) GetDistance(
	ctx context.Context,
	origin domain.City,
	destination domain.City,
) (ports.DistanceResult, error) {
	leg, err := r.Resolve(origin, destination)
	if err != nil {
		return ports.DistanceResult{}, err
	}

	return ports.DistanceResult{DistanceKm: leg.DistanceKm, TravelHours: leg.TravelHours}, nil
}

// Routes returns the current chain in west-to-east order.
func (r *RouteResolver) Routes() []domain.RouteNode {
	topo := r.topology.Load()
	if topo == nil {
		return nil
	}
	return topo.Nodes()
}

// UpdateRoute changes the edge from a city to its east neighbor.
// Readers see either the old or the new topology, never a mix.
func (r *RouteResolver) UpdateRoute(ctx context.Context, city domain.City, distanceKm int, travelHours float64) (err error) {
	defer obs.Time(ctx, "routes.UpdateRoute")(&err)

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cur := r.topology.Load()
	if cur == nil {
		return fmt.Errorf("update route: topology not loaded: %w", domain.ErrInvalidTopology)
	}

	next, err := cur.WithRoute(city, distanceKm, travelHours)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}

	node, err := next.Node(city)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}

	if err := r.repo.UpdateRoute(ctx, node); err != nil {
		return fmt.Errorf("update route %s: persist: %w", city, err)
	}

	r.topology.Store(next)
	return nil
}
