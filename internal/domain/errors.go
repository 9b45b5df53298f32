package domain

import "errors"

var (
	// Period errors
	ErrPeriodNotFound    = errors.New("period not found")
	ErrPeriodExists      = errors.New("period already exists")
	ErrPeriodsOutOfOrder = errors.New("periods are not in chronological order")
	ErrVersionConflict   = errors.New("period was modified concurrently")

	// Holder errors
	ErrHolderNotFound = errors.New("holder not found")
	ErrHolderExists   = errors.New("holder already exists")
	ErrHolderInactive = errors.New("holder is inactive")
)
