package dto

type SessionResponse struct {
	SessionID       string                `json:"session_id"`
	OrderID         int64                 `json:"order_id"`
	JobType         string                `json:"job_type"`
	State           string                `json:"state"`
	InitialQuantity int                   `json:"initial_quantity"`
	Remaining       int                   `json:"remaining"`
	DistanceKm      int                   `json:"distance_km"`
	TravelHours     float64               `json:"travel_hours"`
	Candidates      []CarrierCityResponse `json:"candidates"`
	Trips           []TripResponse        `json:"trips"`
}

type SelectCarrierRequest struct {
	CarrierID int64 `json:"carrier_id"`
}

type SelectCarrierResponse struct {
	Session SessionResponse `json:"session"`
	Trip    TripResponse    `json:"trip"`
}

// SelectCarrierError is returned with 409 when capacity ran out between listing and selection.
// Session carries the refreshed candidate list.
type SelectCarrierError struct {
	Error   string          `json:"error"`
	Session SessionResponse `json:"session"`
}
