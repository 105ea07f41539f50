package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
	Cities int    `json:"cities"`
}

// Health reports liveness and how many cities the loaded route chain holds.
func (h *RouteHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Cities: len(h.Resolver.Routes())})
}
