package engine

import "errors"

// Domain errors surfaced to the evolution driver.
var (
	// ErrNumerical indicates NaN or Inf in the density integral.
	ErrNumerical = errors.New("engine: non-finite density (NaN or Inf detected)")

	// ErrBackendUnavailable indicates the requested compute backend
	// cannot be initialized; the driver recovers by falling back to
	// the CPU path.
	ErrBackendUnavailable = errors.New("engine: compute backend unavailable")
)
