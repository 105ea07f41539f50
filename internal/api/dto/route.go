package dto

type RouteResponse struct {
	City        string  `json:"city"`
	CityIndex   int     `json:"city_index"`
	DistanceKm  int     `json:"distance_km"`
	TravelHours float64 `json:"travel_hours"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type UpdateRouteRequest struct {
	DistanceKm  *int     `json:"distance_km"`
	TravelHours *float64 `json:"travel_hours"`
}

type DistanceResponse struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKm  int     `json:"distance_km"`
	TravelHours float64 `json:"travel_hours"`
}
