package api

import (
	"bytes"
	"context"
	"encoding/json"
	"freight-fulfillment-service/internal/adapters/lock"
	"freight-fulfillment-service/internal/adapters/memory"
	"freight-fulfillment-service/internal/adapters/session"
	"freight-fulfillment-service/internal/api/dto"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"freight-fulfillment-service/internal/services"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	for _, n := range []domain.RouteNode{
		{City: domain.Windsor, DistanceKm: 200, TravelHours: 2},
		{City: domain.London, DistanceKm: 70, TravelHours: 1},
		{City: domain.Hamilton},
	} {
		if err := store.UpdateRoute(ctx, n); err != nil {
			t.Fatalf("seed route: %v", err)
		}
	}

	carrier := domain.Carrier{
		CarrierID:    1,
		Name:         "Northline Freight",
		FTLRate:      decimal.RequireFromString("5.21"),
		LTLRate:      decimal.RequireFromString("0.3621"),
		ReeferCharge: decimal.RequireFromString("0.08"),
		Active:       true,
	}
	if err := store.UpsertCarrier(ctx, carrier); err != nil {
		t.Fatalf("seed carrier: %v", err)
	}
	if err := store.UpsertCarrierCity(ctx, domain.CarrierCity{Carrier: carrier, City: domain.Windsor, FTLAvailable: 2, LTLAvailable: 50}); err != nil {
		t.Fatalf("seed carrier city: %v", err)
	}
	if err := store.CreateOrder(ctx, domain.Order{OrderID: 1, ClientName: "Harbour Foods", Origin: domain.Windsor, Destination: domain.Hamilton, JobType: domain.LTL, Quantity: 30}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	resolver, err := services.NewRouteResolver(ctx, store)
	if err != nil {
		t.Fatalf("new route resolver: %v", err)
	}
	ledger := services.NewCapacityLedger(store)
	controller := services.NewAllocationController(
		ledger,
		store,
		resolver,
		session.NewCacheSessionStore(time.Minute),
		lock.NewLocalOrderLocker(time.Second),
		log.New(io.Discard, "", 0),
	)

	srv := httptest.NewServer(NewRouter(Deps{Resolver: resolver, Ledger: ledger, Controller: controller}))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	if out != nil && res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return res.StatusCode
}

func TestHealthAndRequestID(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}

	var health struct {
		Status string `json:"status"`
		Cities int    `json:"cities"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Cities != 3 {
		t.Fatalf("health = %+v", health)
	}

	if code := do(t, http.MethodPost, srv.URL+"/health", nil, nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health = %d, want 405", code)
	}
}

func TestDistanceEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var d dto.DistanceResponse
	if code := do(t, http.MethodGet, srv.URL+"/routes/distance?origin=hamilton&destination=Windsor", nil, &d); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if d.DistanceKm != 270 || d.TravelHours != 3 {
		t.Fatalf("distance = %+v, want 270km/3h", d)
	}

	if code := do(t, http.MethodGet, srv.URL+"/routes/distance?origin=Montreal&destination=Windsor", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown city = %d, want 404", code)
	}
	if code := do(t, http.MethodGet, srv.URL+"/routes/distance?origin=Windsor&destination=Ottawa", nil, nil); code != http.StatusNotFound {
		t.Fatalf("city outside topology = %d, want 404", code)
	}
	if code := do(t, http.MethodGet, srv.URL+"/routes/distance?origin=Windsor", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("missing destination = %d, want 400", code)
	}

	if code := do(t, http.MethodPut, srv.URL+"/routes/Windsor", map[string]any{"distance_km": 210, "travel_hours": 2.25}, nil); code != http.StatusOK {
		t.Fatalf("update route = %d", code)
	}
	do(t, http.MethodGet, srv.URL+"/routes/distance?origin=Windsor&destination=Hamilton", nil, &d)
	if d.DistanceKm != 280 {
		t.Fatalf("distance after update = %d, want 280", d.DistanceKm)
	}
}

func TestAllocationFlow(t *testing.T) {
	srv, store := newTestServer(t)

	var carriers dto.ListCarrierCitiesResponse
	if code := do(t, http.MethodGet, srv.URL+"/carriers?city=Windsor&job_type=LTL", nil, &carriers); code != http.StatusOK {
		t.Fatalf("list carriers = %d", code)
	}
	if len(carriers.Carriers) != 1 || carriers.Carriers[0].LTLAvailable != 50 {
		t.Fatalf("carriers = %+v", carriers)
	}

	var sess dto.SessionResponse
	if code := do(t, http.MethodPost, srv.URL+"/orders/1/sessions", nil, &sess); code != http.StatusCreated {
		t.Fatalf("start session = %d", code)
	}
	if sess.Remaining != 30 || sess.State != "AwaitingSelection" || sess.DistanceKm != 270 {
		t.Fatalf("session = %+v", sess)
	}

	selectURL := srv.URL + "/sessions/" + sess.SessionID + "/selections"

	if code := do(t, http.MethodPost, selectURL, dto.SelectCarrierRequest{}, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("empty selection = %d, want 422", code)
	}

	var sel dto.SelectCarrierResponse
	if code := do(t, http.MethodPost, selectURL, dto.SelectCarrierRequest{CarrierID: 1}, &sel); code != http.StatusOK {
		t.Fatalf("first selection = %d", code)
	}
	if sel.Trip.Units != 26 || sel.Session.Remaining != 4 || sel.Session.State != "PartiallyFulfilled" {
		t.Fatalf("first selection = %+v", sel)
	}

	if code := do(t, http.MethodPost, srv.URL+"/orders/1/complete", nil, nil); code != http.StatusConflict {
		t.Fatalf("complete partial order = %d, want 409", code)
	}

	if code := do(t, http.MethodPost, selectURL, dto.SelectCarrierRequest{CarrierID: 1}, &sel); code != http.StatusOK {
		t.Fatalf("second selection = %d", code)
	}
	if sel.Trip.Units != 4 || sel.Session.State != "Fulfilled" {
		t.Fatalf("second selection = %+v", sel)
	}

	var order dto.OrderResponse
	if code := do(t, http.MethodPost, srv.URL+"/orders/1/complete", nil, &order); code != http.StatusOK {
		t.Fatalf("complete order = %d", code)
	}
	if !order.Completed || len(order.Trips) != 2 || order.Progress != 100 {
		t.Fatalf("completed order = %+v", order)
	}

	if code := do(t, http.MethodGet, srv.URL+"/sessions/"+sess.SessionID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("session after completion = %d, want 404", code)
	}

	rows, _ := store.ListCarrierCities(context.Background(), ports.CarrierCityFilter{})
	if rows[0].LTLAvailable != 20 {
		t.Fatalf("ledger = %d, want 20", rows[0].LTLAvailable)
	}
}

func TestCarrierAdministration(t *testing.T) {
	srv, _ := newTestServer(t)

	body := dto.UpsertCarrierCityRequest{CarrierID: 1, City: "London", FTLAvailable: 1, LTLAvailable: 9}
	if code := do(t, http.MethodPut, srv.URL+"/carrier-cities", body, nil); code != http.StatusNoContent {
		t.Fatalf("upsert = %d", code)
	}

	body.City = "Atlantis"
	if code := do(t, http.MethodPut, srv.URL+"/carrier-cities", body, nil); code != http.StatusNotFound {
		t.Fatalf("upsert unknown city = %d, want 404", code)
	}

	if code := do(t, http.MethodPut, srv.URL+"/carriers/1/active", map[string]bool{"active": false}, nil); code != http.StatusNoContent {
		t.Fatalf("deactivate = %d", code)
	}

	var carriers dto.ListCarrierCitiesResponse
	do(t, http.MethodGet, srv.URL+"/carriers?city=Windsor&job_type=LTL", nil, &carriers)
	if len(carriers.Carriers) != 0 {
		t.Fatalf("inactive carrier still listed: %+v", carriers)
	}

	if code := do(t, http.MethodDelete, srv.URL+"/carrier-cities/1/London", nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	if code := do(t, http.MethodDelete, srv.URL+"/carrier-cities/1/London", nil, nil); code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", code)
	}

	if code := do(t, http.MethodGet, srv.URL+"/carriers?job_type=LTL", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("job_type without city = %d, want 400", code)
	}
}

func TestOrdersEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var list dto.ListOrdersResponse
	if code := do(t, http.MethodGet, srv.URL+"/orders?status=active", nil, &list); code != http.StatusOK {
		t.Fatalf("list = %d", code)
	}
	if len(list.Orders) != 1 || list.Orders[0].ClientName != "Harbour Foods" || list.Orders[0].JobType != "LTL" {
		t.Fatalf("orders = %+v", list)
	}

	if code := do(t, http.MethodGet, srv.URL+"/orders?status=bogus", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad status = %d, want 400", code)
	}
	if code := do(t, http.MethodGet, srv.URL+"/orders/99", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown order = %d, want 404", code)
	}
	if code := do(t, http.MethodGet, srv.URL+"/orders/abc", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", code)
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var created dto.OrderResponse
	req := dto.CreateOrderRequest{ClientName: "Lakeview Grocers", Origin: "Windsor", Destination: "London", JobType: "LTL", VanType: "Reefer", Quantity: 12}
	if code := do(t, http.MethodPost, srv.URL+"/orders", req, &created); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}
	if created.OrderID != 2 || created.Quantity != 12 || created.VanType != "Reefer" || created.Completed || created.CreatedAt.IsZero() {
		t.Fatalf("created = %+v", created)
	}

	// A new order goes straight into allocation.
	var sess dto.SessionResponse
	if code := do(t, http.MethodPost, srv.URL+"/orders/2/sessions", nil, &sess); code != http.StatusCreated {
		t.Fatalf("start session = %d", code)
	}
	if sess.Remaining != 12 || sess.DistanceKm != 200 || len(sess.Candidates) != 1 {
		t.Fatalf("session = %+v", sess)
	}

	ftl := dto.CreateOrderRequest{ClientName: "Northgate Steel", Origin: "Hamilton", Destination: "Windsor", JobType: "FTL"}
	if code := do(t, http.MethodPost, srv.URL+"/orders", ftl, &created); code != http.StatusCreated {
		t.Fatalf("create ftl = %d", code)
	}
	if created.OrderID != 3 || created.Quantity != 1 || created.VanType != "Dry" {
		t.Fatalf("created ftl = %+v", created)
	}

	bad := map[string]dto.CreateOrderRequest{
		"ltl without quantity": {ClientName: "x", Origin: "Windsor", Destination: "London", JobType: "LTL"},
		"same city":            {ClientName: "x", Origin: "London", Destination: "London", JobType: "FTL"},
		"unknown city":         {ClientName: "x", Origin: "Atlantis", Destination: "London", JobType: "FTL"},
		"bad job type":         {ClientName: "x", Origin: "Windsor", Destination: "London", JobType: "Barge"},
		"no client":            {Origin: "Windsor", Destination: "London", JobType: "FTL"},
	}
	for name, body := range bad {
		if code := do(t, http.MethodPost, srv.URL+"/orders", body, nil); code != http.StatusBadRequest {
			t.Fatalf("%s: create = %d, want 400", name, code)
		}
	}

	var list dto.ListOrdersResponse
	do(t, http.MethodGet, srv.URL+"/orders", nil, &list)
	if len(list.Orders) != 3 {
		t.Fatalf("orders = %d, want 3", len(list.Orders))
	}
}

func TestUpsertCarrierEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body := dto.UpsertCarrierRequest{
		Name:         "Lakeshore Cartage",
		FTLRate:      decimal.RequireFromString("4.10"),
		LTLRate:      decimal.RequireFromString("0.29"),
		ReeferCharge: decimal.RequireFromString("0.05"),
	}
	var carrier dto.CarrierResponse
	if code := do(t, http.MethodPut, srv.URL+"/carriers/2", body, &carrier); code != http.StatusOK {
		t.Fatalf("create carrier = %d", code)
	}
	if carrier.CarrierID != 2 || !carrier.Active || !carrier.LTLRate.Equal(body.LTLRate) {
		t.Fatalf("carrier = %+v", carrier)
	}

	depot := dto.UpsertCarrierCityRequest{CarrierID: 2, City: "Windsor", LTLAvailable: 10}
	if code := do(t, http.MethodPut, srv.URL+"/carrier-cities", depot, nil); code != http.StatusNoContent {
		t.Fatalf("add depot = %d", code)
	}

	var candidates dto.ListCarrierCitiesResponse
	do(t, http.MethodGet, srv.URL+"/carriers?city=Windsor&job_type=LTL", nil, &candidates)
	if len(candidates.Carriers) != 2 || candidates.Carriers[1].Name != "Lakeshore Cartage" {
		t.Fatalf("candidates = %+v", candidates)
	}

	// Renaming and deactivating an existing carrier.
	inactive := false
	update := dto.UpsertCarrierRequest{Name: "Northline Freight Ltd", FTLRate: decimal.RequireFromString("5.50"), LTLRate: decimal.RequireFromString("0.40"), Active: &inactive}
	if code := do(t, http.MethodPut, srv.URL+"/carriers/1", update, nil); code != http.StatusOK {
		t.Fatalf("update carrier = %d", code)
	}
	do(t, http.MethodGet, srv.URL+"/carriers?city=Windsor", nil, &candidates)
	if len(candidates.Carriers) != 2 || candidates.Carriers[0].Name != "Northline Freight Ltd" || candidates.Carriers[0].Active {
		t.Fatalf("ledger after update = %+v", candidates)
	}
	do(t, http.MethodGet, srv.URL+"/carriers?city=Windsor&job_type=LTL", nil, &candidates)
	if len(candidates.Carriers) != 1 || candidates.Carriers[0].CarrierID != 2 {
		t.Fatalf("candidates after deactivation = %+v", candidates)
	}

	if code := do(t, http.MethodPut, srv.URL+"/carriers/3", dto.UpsertCarrierRequest{Name: " "}, nil); code != http.StatusBadRequest {
		t.Fatalf("blank name = %d, want 400", code)
	}
	negative := dto.UpsertCarrierRequest{Name: "Rideau Transport", FTLRate: decimal.RequireFromString("-1")}
	if code := do(t, http.MethodPut, srv.URL+"/carriers/3", negative, nil); code != http.StatusBadRequest {
		t.Fatalf("negative rate = %d, want 400", code)
	}
}
