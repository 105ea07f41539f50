package api

import (
	"freight-fulfillment-service/internal/api/handlers"
	"freight-fulfillment-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Deps struct {
	Resolver       *services.RouteResolver
	Ledger         *services.CapacityLedger
	Controller     *services.AllocationController
	AllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	routeHandler := &handlers.RouteHandler{Resolver: d.Resolver}
	carrierHandler := &handlers.CarrierHandler{Ledger: d.Ledger}
	orderHandler := &handlers.OrderHandler{Controller: d.Controller}
	sessionHandler := &handlers.SessionHandler{Controller: d.Controller}

	r.HandleFunc("/health", routeHandler.Health).Methods(http.MethodGet)

	r.HandleFunc("/routes", routeHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/routes/distance", routeHandler.Distance).Methods(http.MethodGet)
	r.HandleFunc("/routes/{city}", routeHandler.Update).Methods(http.MethodPut)

	r.HandleFunc("/carriers", carrierHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/carriers/{carrierID}", carrierHandler.Upsert).Methods(http.MethodPut)
	r.HandleFunc("/carriers/{carrierID}/active", carrierHandler.SetActive).Methods(http.MethodPut)
	r.HandleFunc("/carrier-cities", carrierHandler.UpsertCity).Methods(http.MethodPut)
	r.HandleFunc("/carrier-cities/{carrierID}/{city}", carrierHandler.RemoveCity).Methods(http.MethodDelete)

	r.HandleFunc("/orders", orderHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/orders", orderHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/orders/{orderID}", orderHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderID}/complete", orderHandler.Complete).Methods(http.MethodPost)
	r.HandleFunc("/orders/{orderID}/sessions", sessionHandler.Start).Methods(http.MethodPost)

	r.HandleFunc("/sessions/{sessionID}", sessionHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionID}/selections", sessionHandler.Select).Methods(http.MethodPost)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(r)))
}
