package heap

import "github.com/cockroachdb/errors"

var (
	// ErrNullBase is returned from New when the heap region starts at the null address
	ErrNullBase = errors.New("heap region cannot start at the null address")
	// ErrRegionOutOfBounds is returned from New when the heap region does not fit in its space
	ErrRegionOutOfBounds = errors.New("heap region does not fit in its address space")
	// ErrRegionTooSmall is returned from New when the region cannot hold a single chunk and its bitmap
	ErrRegionTooSmall = errors.New("heap region is too small to hold a chunk")
	// ErrInvalidThreshold is returned from New when CreateOptions.BestFitThreshold is negative
	ErrInvalidThreshold = errors.New("best fit threshold cannot be negative")
	// ErrUnknownAllocation marks the panic raised by Deallocate when allocation tracking is enabled
	// and the pointer does not belong to a live allocation
	ErrUnknownAllocation = errors.New("pointer does not belong to a live allocation")
)
