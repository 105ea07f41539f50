package handlers

import (
	"freight-fulfillment-service/internal/api/dto"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/services"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type CarrierHandler struct {
	Ledger *services.CapacityLedger
}

// List returns candidate carriers when both city and job_type are given,
// otherwise the raw ledger (optionally for one city).
func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawCity := strings.TrimSpace(q.Get("city"))
	rawJob := strings.TrimSpace(q.Get("job_type"))

	var city *domain.City
	if rawCity != "" {
		c, err := domain.ParseCity(rawCity)
		if err != nil {
			writeDomainError(w, r, "list carriers", err)
			return
		}
		city = &c
	}

	var (
		rows []domain.CarrierCity
		err  error
	)
	switch {
	case rawJob != "":
		if city == nil {
			writeError(w, r, http.StatusBadRequest, "city is required with job_type")
			return
		}
		job, perr := domain.ParseJobType(rawJob)
		if perr != nil {
			writeError(w, r, http.StatusBadRequest, perr.Error())
			return
		}
		rows, err = h.Ledger.ListCarriersAt(r.Context(), *city, job)
	default:
		rows, err = h.Ledger.ListAll(r.Context(), city)
	}
	if err != nil {
		writeDomainError(w, r, "list carriers", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListCarrierCitiesResponse{Carriers: toCarrierCities(rows)})
}

func (h *CarrierHandler) UpsertCity(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertCarrierCityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	city, err := domain.ParseCity(req.City)
	if err != nil {
		writeDomainError(w, r, "upsert carrier city", err)
		return
	}

	cc := domain.CarrierCity{
		Carrier:      domain.Carrier{CarrierID: req.CarrierID},
		City:         city,
		FTLAvailable: req.FTLAvailable,
		LTLAvailable: req.LTLAvailable,
	}
	if cc.Carrier.CarrierID <= 0 || cc.FTLAvailable < 0 || cc.LTLAvailable < 0 {
		writeError(w, r, http.StatusBadRequest, "carrier_id must be positive and availability non-negative")
		return
	}

	if err := h.Ledger.UpsertCity(r.Context(), cc); err != nil {
		writeDomainError(w, r, "upsert carrier city", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CarrierHandler) RemoveCity(w http.ResponseWriter, r *http.Request) {
	carrierID, ok := pathInt64(w, r, "carrierID")
	if !ok {
		return
	}
	city, err := domain.ParseCity(mux.Vars(r)["city"])
	if err != nil {
		writeDomainError(w, r, "remove carrier city", err)
		return
	}

	if err := h.Ledger.Remove(r.Context(), carrierID, city); err != nil {
		writeDomainError(w, r, "remove carrier city", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upsert creates or replaces a carrier's name, rate schedule and active flag.
func (h *CarrierHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	carrierID, ok := pathInt64(w, r, "carrierID")
	if !ok {
		return
	}

	var req dto.UpsertCarrierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := domain.Carrier{
		CarrierID:    carrierID,
		Name:         strings.TrimSpace(req.Name),
		FTLRate:      req.FTLRate,
		LTLRate:      req.LTLRate,
		ReeferCharge: req.ReeferCharge,
		Active:       req.Active == nil || *req.Active,
	}
	if err := h.Ledger.UpsertCarrier(r.Context(), c); err != nil {
		writeDomainError(w, r, "upsert carrier", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CarrierResponse{
		CarrierID:    c.CarrierID,
		Name:         c.Name,
		FTLRate:      c.FTLRate,
		LTLRate:      c.LTLRate,
		ReeferCharge: c.ReeferCharge,
		Active:       c.Active,
	})
}

func (h *CarrierHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	carrierID, ok := pathInt64(w, r, "carrierID")
	if !ok {
		return
	}

	var req dto.SetCarrierActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeError(w, r, http.StatusBadRequest, "active is required")
		return
	}

	if err := h.Ledger.SetCarrierActive(r.Context(), carrierID, *req.Active); err != nil {
		writeDomainError(w, r, "set carrier active", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
