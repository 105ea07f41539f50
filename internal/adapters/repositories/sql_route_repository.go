package repositories

import (
	"context"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
)

// Return every persisted route row ordered by city.
func (s *SQLStore) LoadRoutes(ctx context.Context) (_ []domain.RouteNode, err error) {
	defer obs.Time(ctx, "routes.LoadRoutes")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT city, distance_km, travel_hours
	FROM routes
	ORDER BY city;
	`)
	if err != nil {
		return nil, fmt.Errorf("load routes: query routes table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RouteNode, 0, 8)
	for rows.Next() {
		var (
			city  int
			km    int
			hours float64
		)
		if err := rows.Scan(&city, &km, &hours); err != nil {
			return nil, fmt.Errorf("load routes: scan row: %w", err)
		}
		out = append(out, domain.RouteNode{City: domain.City(city), DistanceKm: km, TravelHours: hours})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load routes: row iteration: %w", err)
	}

	return out, nil
}

// Create or replace one city's edge weights.
func (s *SQLStore) UpdateRoute(ctx context.Context, node domain.RouteNode) (err error) {
	defer obs.Time(ctx, "routes.UpdateRoute")(&err)

	if err := s.check(); err != nil {
		return err
	}
	if !node.City.Valid() {
		return fmt.Errorf("update route: %w", domain.ErrUnknownCity)
	}

	_, err = s.DB.ExecContext(ctx, s.q(`
	INSERT INTO routes (city, city_name, distance_km, travel_hours)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (city) DO UPDATE
	SET distance_km = excluded.distance_km,
		travel_hours = excluded.travel_hours;
	`), node.City.Index(), node.City.String(), node.DistanceKm, node.TravelHours)
	if err != nil {
		return fmt.Errorf("update route %s: %w", node.City, err)
	}

	return nil
}
