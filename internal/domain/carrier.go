package domain

import "github.com/shopspring/decimal"

// Carrier is a trucking company and its rate schedule.
// FTLRate is charged per km per truck, LTLRate per pallet per km,
// and ReeferCharge is a fractional surcharge applied to reefer trips.
type Carrier struct {
	CarrierID    int64
	Name         string
	FTLRate      decimal.Decimal
	LTLRate      decimal.Decimal
	ReeferCharge decimal.Decimal
	Active       bool
}

// CarrierCity is a capacity ledger entry: what one carrier has left at one depot city.
type CarrierCity struct {
	Carrier      Carrier
	City         City
	FTLAvailable int
	LTLAvailable int
}

// Available reports the remaining units for the given job type.
func (cc CarrierCity) Available(j JobType) int {
	if j == FTL {
		return cc.FTLAvailable
	}
	return cc.LTLAvailable
}

func (cc *CarrierCity) consume(j JobType, units int) {
	if j == FTL {
		cc.FTLAvailable -= units
		return
	}
	cc.LTLAvailable -= units
}
