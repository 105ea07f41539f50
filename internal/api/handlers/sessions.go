package handlers

import (
	"errors"
	"freight-fulfillment-service/internal/api/dto"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

type SessionHandler struct {
	Controller *services.AllocationController
}

// Start opens an allocation session for the order, or returns the one already open.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathInt64(w, r, "orderID")
	if !ok {
		return
	}

	s, err := h.Controller.StartSession(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, "start session", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toSession(s))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.Session(mux.Vars(r)["sessionID"])
	if err != nil {
		writeDomainError(w, r, "get session", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toSession(s))
}

// Select assigns one carrier. A carrier_id of 0 is rejected as "select a carrier".
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectCarrierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, trip, err := h.Controller.SelectCarrier(r.Context(), mux.Vars(r)["sessionID"], req.CarrierID)
	if errors.Is(err, domain.ErrInsufficientCapacity) && s != nil {
		writeJSON(w, r, http.StatusConflict, dto.SelectCarrierError{Error: err.Error(), Session: toSession(s)})
		return
	}
	if err != nil {
		writeDomainError(w, r, "select carrier", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SelectCarrierResponse{Session: toSession(s), Trip: toTrip(trip)})
}
