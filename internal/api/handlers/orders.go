package handlers

import (
	"freight-fulfillment-service/internal/api/dto"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"freight-fulfillment-service/internal/services"
	"net/http"
	"strings"
)

type OrderHandler struct {
	Controller *services.AllocationController
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var status ports.OrderStatus
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))) {
	case "", "all":
		status = ports.OrdersAll
	case "active":
		status = ports.OrdersActive
	case "completed":
		status = ports.OrdersCompleted
	default:
		writeError(w, r, http.StatusBadRequest, "status must be all, active or completed")
		return
	}

	orders, err := h.Controller.ListOrders(r.Context(), status)
	if err != nil {
		writeDomainError(w, r, "list orders", err)
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		res.Orders = append(res.Orders, toOrder(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	origin, err := domain.ParseCity(req.Origin)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	dest, err := domain.ParseCity(req.Destination)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	job, err := domain.ParseJobType(req.JobType)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	van, err := domain.ParseVanType(req.VanType)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.Controller.CreateOrder(r.Context(), domain.Order{
		ClientName:  strings.TrimSpace(req.ClientName),
		Origin:      origin,
		Destination: dest,
		JobType:     job,
		VanType:     van,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeDomainError(w, r, "create order", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toOrder(st))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathInt64(w, r, "orderID")
	if !ok {
		return
	}

	st, err := h.Controller.OrderStatus(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, "get order", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toOrder(st))
}

// Complete marks a fully allocated order as delivered.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathInt64(w, r, "orderID")
	if !ok {
		return
	}

	if _, err := h.Controller.CompleteOrder(r.Context(), orderID); err != nil {
		writeDomainError(w, r, "complete order", err)
		return
	}

	st, err := h.Controller.OrderStatus(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, "complete order", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toOrder(st))
}
