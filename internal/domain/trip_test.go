package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTripCost(t *testing.T) {
	c := Carrier{
		FTLRate:      decimal.RequireFromString("5.21"),
		LTLRate:      decimal.RequireFromString("0.3621"),
		ReeferCharge: decimal.RequireFromString("0.08"),
	}

	tests := []struct {
		name  string
		job   JobType
		van   VanType
		units int
		km    int
		want  string
	}{
		{name: "ftl dry", job: FTL, van: DryVan, units: 1, km: 100, want: "521"},
		{name: "ftl reefer", job: FTL, van: ReeferVan, units: 1, km: 100, want: "562.68"},
		{name: "ltl dry", job: LTL, van: DryVan, units: 10, km: 191, want: "691.61"},
		{name: "ltl zero distance", job: LTL, van: DryVan, units: 10, km: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TripCost(c, tt.job, tt.van, tt.units, tt.km)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("cost = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderProgress(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	order := Order{OrderID: 1, StartedAt: &start}
	trips := []Trip{{TravelHours: 2}, {TravelHours: 4}}

	eta := order.ExpectedDelivery(trips)
	if eta == nil || !eta.Equal(start.Add(4*time.Hour)) {
		t.Fatalf("expected delivery = %v, want %v", eta, start.Add(4*time.Hour))
	}

	if got := order.Progress(trips, start.Add(time.Hour)); got != 25 {
		t.Fatalf("progress after 1h = %v, want 25", got)
	}
	if got := order.Progress(trips, start.Add(10*time.Hour)); got != 100 {
		t.Fatalf("progress after 10h = %v, want 100", got)
	}
	if got := (Order{}).Progress(trips, start); got != 0 {
		t.Fatalf("unstarted progress = %v, want 0", got)
	}
}

func TestOrderValidate(t *testing.T) {
	ok := Order{ClientName: "Harbour Foods", Origin: Windsor, Destination: Hamilton, JobType: LTL, Quantity: 30}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(o *Order)
		want   error
	}{
		{"blank client", func(o *Order) { o.ClientName = "  " }, ErrInvalidInput},
		{"unknown origin", func(o *Order) { o.Origin = City(42) }, ErrUnknownCity},
		{"same city", func(o *Order) { o.Destination = Windsor }, ErrInvalidInput},
		{"bad job type", func(o *Order) { o.JobType = JobType(9) }, ErrInvalidInput},
		{"bad van type", func(o *Order) { o.VanType = VanType(9) }, ErrInvalidInput},
		{"ltl without pallets", func(o *Order) { o.Quantity = 0 }, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ok
			tt.mutate(&o)
			if err := o.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	ftl := Order{ClientName: "Cedar Pharma", Origin: Toronto, Destination: Ottawa, JobType: FTL}
	if err := ftl.Validate(); err != nil {
		t.Fatalf("ftl without quantity: %v", err)
	}
}
