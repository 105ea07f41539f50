package distance

import (
	"context"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
)

type MockPair struct {
	From, To    domain.City
	DistanceKm  int
	TravelHours float64
}

// MockDistanceProvider answers only the pairs it was built with.
// Pairs are directional; register both directions when a test needs them.
type MockDistanceProvider struct {
	m map[[2]domain.City]ports.DistanceResult
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[[2]domain.City]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[[2]domain.City{p.From, p.To}] = ports.DistanceResult{DistanceKm: p.DistanceKm, TravelHours: p.TravelHours}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.City) (ports.DistanceResult, error) {
	if origin == destination {
		return ports.DistanceResult{}, nil
	}

	r, ok := p.m[[2]domain.City{origin, destination}]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", origin, destination)
	}

	return r, nil
}
