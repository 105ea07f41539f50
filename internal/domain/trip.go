package domain

import "github.com/shopspring/decimal"

// Trip is a committed carrier assignment covering part or all of an order.
// Units is the number of pallets for LTL trips and 1 (truckload) for FTL trips.
type Trip struct {
	TripID      int64
	OrderID     int64
	CarrierID   int64
	Origin      City
	Destination City
	JobType     JobType
	VanType     VanType
	Units       int
	DistanceKm  int
	TravelHours float64
	Cost        decimal.Decimal
}

// TripCost prices a trip from the carrier's rate schedule.
//
//	FTL: ftlRate * km
//	LTL: ltlRate * units * km
//
// Reefer trips are marked up by the carrier's reefer surcharge. The result is rounded to cents.
func TripCost(c Carrier, job JobType, van VanType, units int, distanceKm int) decimal.Decimal {
	km := decimal.NewFromInt(int64(distanceKm))

	var cost decimal.Decimal
	if job == FTL {
		cost = c.FTLRate.Mul(km)
	} else {
		cost = c.LTLRate.Mul(decimal.NewFromInt(int64(units))).Mul(km)
	}

	if van == ReeferVan {
		cost = cost.Mul(decimal.NewFromInt(1).Add(c.ReeferCharge))
	}

	return cost.Round(2)
}
