package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type TripResponse struct {
	TripID      int64           `json:"trip_id"`
	CarrierID   int64           `json:"carrier_id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	JobType     string          `json:"job_type"`
	VanType     string          `json:"van_type"`
	Units       int             `json:"units"`
	DistanceKm  int             `json:"distance_km"`
	TravelHours float64         `json:"travel_hours"`
	Cost        decimal.Decimal `json:"cost"`
}

type OrderResponse struct {
	OrderID          int64          `json:"order_id"`
	ClientName       string         `json:"client_name"`
	Origin           string         `json:"origin"`
	Destination      string         `json:"destination"`
	JobType          string         `json:"job_type"`
	VanType          string         `json:"van_type"`
	Quantity         int            `json:"quantity"`
	CreatedAt        time.Time      `json:"created_at"`
	StartedAt        *time.Time     `json:"started_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	Completed        bool           `json:"completed"`
	ExpectedDelivery *time.Time     `json:"expected_delivery,omitempty"`
	Progress         float64        `json:"progress"`
	Trips            []TripResponse `json:"trips"`
}

// CreateOrderRequest is a new shipment request. Quantity is ignored for FTL.
type CreateOrderRequest struct {
	ClientName  string `json:"client_name"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	JobType     string `json:"job_type"`
	VanType     string `json:"van_type"`
	Quantity    int    `json:"quantity"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
