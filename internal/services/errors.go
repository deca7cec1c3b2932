package services

import "errors"

var (
	ErrUnknownClient    = errors.New("unknown client")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidMetric    = errors.New("invalid chart metric")
	ErrInvalidPage      = errors.New("invalid page")
	ErrInvalidTheme     = errors.New("invalid theme")

	// ErrNoDashboard is the panic value of FromContext when no dashboard is
	// in scope. It indicates a wiring bug, never a runtime condition.
	ErrNoDashboard = errors.New("dashboard accessed outside provider scope")
)
