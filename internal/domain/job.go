package domain

import (
	"fmt"
	"strings"
)

// TripCap is the maximum number of pallet-equivalent units a single LTL trip may carry,
// regardless of how much capacity the carrier has posted.
const TripCap = 26

// JobType distinguishes full-truckload from less-than-truckload shipments.
type JobType int

const (
	FTL JobType = iota
	LTL
)

func (j JobType) Valid() bool { return j == FTL || j == LTL }

func (j JobType) String() string {
	switch j {
	case FTL:
		return "FTL"
	case LTL:
		return "LTL"
	default:
		return fmt.Sprintf("JobType(%d)", int(j))
	}
}

func ParseJobType(s string) (JobType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FTL", "0":
		return FTL, nil
	case "LTL", "1":
		return LTL, nil
	}
	return 0, fmt.Errorf("parse job type %q: must be FTL or LTL", s)
}

func (j JobType) MarshalText() ([]byte, error) { return []byte(j.String()), nil }

func (j *JobType) UnmarshalText(b []byte) error {
	parsed, err := ParseJobType(string(b))
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// VanType is the trailer kind requested by an order.
type VanType int

const (
	DryVan VanType = iota
	ReeferVan
)

func (v VanType) Valid() bool { return v == DryVan || v == ReeferVan }

func (v VanType) String() string {
	if v == ReeferVan {
		return "Reefer"
	}
	return "Dry"
}

func ParseVanType(s string) (VanType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dry", "0":
		return DryVan, nil
	case "reefer", "1":
		return ReeferVan, nil
	}
	return 0, fmt.Errorf("parse van type %q: must be Dry or Reefer", s)
}

func (v VanType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *VanType) UnmarshalText(b []byte) error {
	parsed, err := ParseVanType(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
