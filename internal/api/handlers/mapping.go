package handlers

import (
	"freight-fulfillment-service/internal/api/dto"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/services"
)

func toCarrierCity(cc domain.CarrierCity) dto.CarrierCityResponse {
	return dto.CarrierCityResponse{
		CarrierID:    cc.Carrier.CarrierID,
		Name:         cc.Carrier.Name,
		City:         cc.City.String(),
		FTLAvailable: cc.FTLAvailable,
		LTLAvailable: cc.LTLAvailable,
		FTLRate:      cc.Carrier.FTLRate,
		LTLRate:      cc.Carrier.LTLRate,
		ReeferCharge: cc.Carrier.ReeferCharge,
		Active:       cc.Carrier.Active,
	}
}

func toCarrierCities(in []domain.CarrierCity) []dto.CarrierCityResponse {
	out := make([]dto.CarrierCityResponse, 0, len(in))
	for _, cc := range in {
		out = append(out, toCarrierCity(cc))
	}
	return out
}

func toTrip(t domain.Trip) dto.TripResponse {
	return dto.TripResponse{
		TripID:      t.TripID,
		CarrierID:   t.CarrierID,
		Origin:      t.Origin.String(),
		Destination: t.Destination.String(),
		JobType:     t.JobType.String(),
		VanType:     t.VanType.String(),
		Units:       t.Units,
		DistanceKm:  t.DistanceKm,
		TravelHours: t.TravelHours,
		Cost:        t.Cost,
	}
}

func toTrips(in []domain.Trip) []dto.TripResponse {
	out := make([]dto.TripResponse, 0, len(in))
	for _, t := range in {
		out = append(out, toTrip(t))
	}
	return out
}

func toSession(s *domain.AllocationSession) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID:       s.SessionID,
		OrderID:         s.Order.OrderID,
		JobType:         s.Order.JobType.String(),
		State:           s.State.String(),
		InitialQuantity: s.InitialQuantity,
		Remaining:       s.Remaining,
		DistanceKm:      s.Leg.DistanceKm,
		TravelHours:     s.Leg.TravelHours,
		Candidates:      toCarrierCities(s.Candidates),
		Trips:           toTrips(s.Trips),
	}
}

func toOrder(st services.OrderStatus) dto.OrderResponse {
	o := st.Order
	return dto.OrderResponse{
		OrderID:          o.OrderID,
		ClientName:       o.ClientName,
		Origin:           o.Origin.String(),
		Destination:      o.Destination.String(),
		JobType:          o.JobType.String(),
		VanType:          o.VanType.String(),
		Quantity:         o.Quantity,
		CreatedAt:        o.CreatedAt,
		StartedAt:        o.StartedAt,
		CompletedAt:      o.CompletedAt,
		Completed:        o.Completed,
		ExpectedDelivery: st.ExpectedDelivery,
		Progress:         st.Progress,
		Trips:            toTrips(st.Trips),
	}
}
