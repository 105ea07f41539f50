package handlers

import (
	"freight-fulfillment-service/internal/api/dto"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/services"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type RouteHandler struct {
	Resolver *services.RouteResolver
}

// List returns the city chain west to east with each city's edge to its east neighbor.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	nodes := h.Resolver.Routes()

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(nodes))}
	for _, n := range nodes {
		res.Routes = append(res.Routes, dto.RouteResponse{
			City:        n.City.String(),
			CityIndex:   n.City.Index(),
			DistanceKm:  n.DistanceKm,
			TravelHours: n.TravelHours,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Update(w http.ResponseWriter, r *http.Request) {
	city, err := domain.ParseCity(mux.Vars(r)["city"])
	if err != nil {
		writeDomainError(w, r, "update route", err)
		return
	}

	var req dto.UpdateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DistanceKm == nil || req.TravelHours == nil {
		writeError(w, r, http.StatusBadRequest, "distance_km and travel_hours are required")
		return
	}

	if err := h.Resolver.UpdateRoute(r.Context(), city, *req.DistanceKm, *req.TravelHours); err != nil {
		writeDomainError(w, r, "update route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		City:        city.String(),
		CityIndex:   city.Index(),
		DistanceKm:  *req.DistanceKm,
		TravelHours: *req.TravelHours,
	})
}

// Distance resolves the accumulated distance and time between two cities.
func (h *RouteHandler) Distance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawOrigin := strings.TrimSpace(q.Get("origin"))
	rawDest := strings.TrimSpace(q.Get("destination"))
	if rawOrigin == "" || rawDest == "" {
		writeError(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}

	origin, err := domain.ParseCity(rawOrigin)
	if err != nil {
		writeDomainError(w, r, "resolve distance", err)
		return
	}
	dest, err := domain.ParseCity(rawDest)
	if err != nil {
		writeDomainError(w, r, "resolve distance", err)
		return
	}

	leg, err := h.Resolver.Resolve(origin, dest)
	if err != nil {
		writeDomainError(w, r, "resolve distance", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		Origin:      origin.String(),
		Destination: dest.String(),
		DistanceKm:  leg.DistanceKm,
		TravelHours: leg.TravelHours,
	})
}
