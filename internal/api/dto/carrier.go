package dto

import "github.com/shopspring/decimal"

type CarrierCityResponse struct {
	CarrierID    int64           `json:"carrier_id"`
	Name         string          `json:"name"`
	City         string          `json:"city"`
	FTLAvailable int             `json:"ftl_available"`
	LTLAvailable int             `json:"ltl_available"`
	FTLRate      decimal.Decimal `json:"ftl_rate"`
	LTLRate      decimal.Decimal `json:"ltl_rate"`
	ReeferCharge decimal.Decimal `json:"reefer_charge"`
	Active       bool            `json:"active"`
}

type ListCarrierCitiesResponse struct {
	Carriers []CarrierCityResponse `json:"carriers"`
}

type UpsertCarrierCityRequest struct {
	CarrierID    int64  `json:"carrier_id"`
	City         string `json:"city"`
	FTLAvailable int    `json:"ftl_available"`
	LTLAvailable int    `json:"ltl_available"`
}

type UpsertCarrierRequest struct {
	Name         string          `json:"name"`
	FTLRate      decimal.Decimal `json:"ftl_rate"`
	LTLRate      decimal.Decimal `json:"ltl_rate"`
	ReeferCharge decimal.Decimal `json:"reefer_charge"`
	Active       *bool           `json:"active"`
}

type CarrierResponse struct {
	CarrierID    int64           `json:"carrier_id"`
	Name         string          `json:"name"`
	FTLRate      decimal.Decimal `json:"ftl_rate"`
	LTLRate      decimal.Decimal `json:"ltl_rate"`
	ReeferCharge decimal.Decimal `json:"reefer_charge"`
	Active       bool            `json:"active"`
}

type SetCarrierActiveRequest struct {
	Active *bool `json:"active"`
}
