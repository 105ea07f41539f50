package domain

import (
	"fmt"
	"strings"
	"time"
)

// Represents a customer shipment request between two depot cities.
// Quantity counts pallets and is only decremented for LTL orders;
// an FTL order is always a single truckload.
type Order struct {
	OrderID     int64
	ClientName  string
	Origin      City
	Destination City
	JobType     JobType
	VanType     VanType
	Quantity    int
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Completed   bool
}

// Validate checks a new order before it is stored.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ClientName) == "" {
		return fmt.Errorf("validate order: client name is required: %w", ErrInvalidInput)
	}
	if !o.Origin.Valid() || !o.Destination.Valid() {
		return fmt.Errorf("validate order: %w", ErrUnknownCity)
	}
	if o.Origin == o.Destination {
		return fmt.Errorf("validate order: origin and destination are both %s: %w", o.Origin, ErrInvalidInput)
	}
	if !o.JobType.Valid() {
		return fmt.Errorf("validate order: job type %d: %w", int(o.JobType), ErrInvalidInput)
	}
	if !o.VanType.Valid() {
		return fmt.Errorf("validate order: van type %d: %w", int(o.VanType), ErrInvalidInput)
	}
	if o.JobType == LTL && o.Quantity <= 0 {
		return fmt.Errorf("validate order: LTL quantity must be positive, got %d: %w", o.Quantity, ErrInvalidInput)
	}
	return nil
}

// ExpectedDelivery is the start time plus the longest trip of the order.
// It is nil until a carrier has been assigned.
func (o Order) ExpectedDelivery(trips []Trip) *time.Time {
	if o.StartedAt == nil || len(trips) == 0 {
		return nil
	}

	longest := 0.0
	for _, t := range trips {
		if t.TravelHours > longest {
			longest = t.TravelHours
		}
	}

	eta := o.StartedAt.Add(time.Duration(longest * float64(time.Hour)))
	return &eta
}

// Progress returns the simulated delivery progress in percent, capped at 100.
func (o Order) Progress(trips []Trip, now time.Time) float64 {
	if o.Completed {
		return 100
	}

	eta := o.ExpectedDelivery(trips)
	if eta == nil {
		return 0
	}

	total := eta.Sub(*o.StartedAt)
	if total <= 0 {
		return 100
	}

	elapsed := now.Sub(*o.StartedAt)
	if elapsed <= 0 {
		return 0
	}

	pct := float64(elapsed) * 100 / float64(total)
	if pct > 100 {
		return 100
	}
	return pct
}
