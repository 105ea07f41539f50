package domain

import "errors"

var (
	ErrInvalidTopology      = errors.New("invalid topology")
	ErrUnknownCity          = errors.New("unknown city")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrInvalidSelection     = errors.New("invalid selection")

	ErrNotFound             = errors.New("not found")
	ErrDuplicateCarrierCity = errors.New("carrier city already exists")
	ErrOrderCompleted       = errors.New("order already completed")
	ErrOrderNotFulfilled    = errors.New("order not fulfilled")
	ErrSessionNotFound      = errors.New("allocation session not found")
	ErrLockTimeout          = errors.New("order lock timeout")
	ErrStaleSession         = errors.New("allocation session is out of date")
	ErrInvalidInput         = errors.New("invalid input")
)
