package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type RouteSeed struct {
	City        domain.City `json:"city"`
	DistanceKm  int         `json:"distance_km"`
	TravelHours float64     `json:"travel_hours"`
}

type DepotSeed struct {
	City         domain.City `json:"city"`
	FTLAvailable int         `json:"ftl_available"`
	LTLAvailable int         `json:"ltl_available"`
}

type CarrierSeed struct {
	CarrierID    int64           `json:"carrier_id"`
	Name         string          `json:"name"`
	FTLRate      decimal.Decimal `json:"ftl_rate"`
	LTLRate      decimal.Decimal `json:"ltl_rate"`
	ReeferCharge decimal.Decimal `json:"reefer_charge"`
	Active       *bool           `json:"active"`
	Depots       []DepotSeed     `json:"depots"`
}

type OrderSeed struct {
	OrderID     int64          `json:"order_id"`
	ClientName  string         `json:"client_name"`
	Origin      domain.City    `json:"origin"`
	Destination domain.City    `json:"destination"`
	JobType     domain.JobType `json:"job_type"`
	VanType     domain.VanType `json:"van_type"`
	Quantity    int            `json:"quantity"`
}

type Seed struct {
	Routes   []RouteSeed   `json:"routes"`
	Carriers []CarrierSeed `json:"carriers"`
	Orders   []OrderSeed   `json:"orders"`
}

// LoadSeed reads and validates a JSON seed file.
func LoadSeed(jsonPath string) (*Seed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	return &seed, nil
}

func (s *Seed) validate() error {
	rows := make([]domain.RouteNode, 0, len(s.Routes))
	for _, r := range s.Routes {
		rows = append(rows, domain.RouteNode{City: r.City, DistanceKm: r.DistanceKm, TravelHours: r.TravelHours})
	}
	if _, err := domain.NewTopology(rows); err != nil {
		return fmt.Errorf("routes: %w", err)
	}

	carriers := make(map[int64]struct{}, len(s.Carriers))
	for i, c := range s.Carriers {
		if c.CarrierID <= 0 {
			return fmt.Errorf("carrier at index %d: invalid carrier_id %d", i+1, c.CarrierID)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("carrier %d: name cannot be empty", c.CarrierID)
		}
		if _, dup := carriers[c.CarrierID]; dup {
			return fmt.Errorf("carrier %d: duplicate carrier_id", c.CarrierID)
		}
		carriers[c.CarrierID] = struct{}{}

		depots := make(map[domain.City]struct{}, len(c.Depots))
		for _, d := range c.Depots {
			if !d.City.Valid() {
				return fmt.Errorf("carrier %d: depot city: %w", c.CarrierID, domain.ErrUnknownCity)
			}
			if d.FTLAvailable < 0 || d.LTLAvailable < 0 {
				return fmt.Errorf("carrier %d at %s: negative availability", c.CarrierID, d.City)
			}
			if _, dup := depots[d.City]; dup {
				return fmt.Errorf("carrier %d at %s: %w", c.CarrierID, d.City, domain.ErrDuplicateCarrierCity)
			}
			depots[d.City] = struct{}{}
		}
	}

	for i, o := range s.Orders {
		if o.OrderID <= 0 {
			return fmt.Errorf("order at index %d: invalid order_id %d", i+1, o.OrderID)
		}
		if !o.Origin.Valid() || !o.Destination.Valid() {
			return fmt.Errorf("order %d: %w", o.OrderID, domain.ErrUnknownCity)
		}
		if o.JobType == domain.LTL && o.Quantity <= 0 {
			return fmt.Errorf("order %d: LTL quantity must be positive", o.OrderID)
		}
	}

	return nil
}

// Apply writes the seed through the persistence ports.
func (s *Seed) Apply(ctx context.Context, store ports.Persistence) error {
	for _, r := range s.Routes {
		node := domain.RouteNode{City: r.City, DistanceKm: r.DistanceKm, TravelHours: r.TravelHours}
		if err := store.UpdateRoute(ctx, node); err != nil {
			return fmt.Errorf("seed routes: %w", err)
		}
	}

	for _, c := range s.Carriers {
		active := c.Active == nil || *c.Active
		carrier := domain.Carrier{
			CarrierID:    c.CarrierID,
			Name:         strings.TrimSpace(c.Name),
			FTLRate:      c.FTLRate,
			LTLRate:      c.LTLRate,
			ReeferCharge: c.ReeferCharge,
			Active:       active,
		}
		if err := store.UpsertCarrier(ctx, carrier); err != nil {
			return fmt.Errorf("seed carriers: %w", err)
		}

		for _, d := range c.Depots {
			cc := domain.CarrierCity{Carrier: carrier, City: d.City, FTLAvailable: d.FTLAvailable, LTLAvailable: d.LTLAvailable}
			if err := store.UpsertCarrierCity(ctx, cc); err != nil {
				return fmt.Errorf("seed carrier cities: %w", err)
			}
		}
	}

	for _, o := range s.Orders {
		order := domain.Order{
			OrderID:     o.OrderID,
			ClientName:  strings.TrimSpace(o.ClientName),
			Origin:      o.Origin,
			Destination: o.Destination,
			JobType:     o.JobType,
			VanType:     o.VanType,
			Quantity:    o.Quantity,
		}
		if err := store.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
	}

	return nil
}

// SeedFromJSON populates an empty store from a JSON seed file.
// A store that already has routes is left alone unless force is set,
// since re-seeding would reset ledger capacity and order quantities.
func SeedFromJSON(ctx context.Context, store ports.Persistence, jsonPath string, force bool) (bool, error) {
	if !force {
		existing, err := store.LoadRoutes(ctx)
		if err != nil {
			return false, fmt.Errorf("seed: check existing routes: %w", err)
		}
		if len(existing) > 0 {
			log.Printf("op=seed skipped=true reason=already_seeded routes=%d", len(existing))
			return false, nil
		}
	}

	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if err := seed.Apply(ctx, store); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	log.Printf("op=seed routes=%d carriers=%d orders=%d", len(seed.Routes), len(seed.Carriers), len(seed.Orders))
	return true, nil
}
