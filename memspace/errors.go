package memspace

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfBounds marks the panic raised when an access leaves the space
	ErrOutOfBounds = errors.New("address out of bounds")
	// ErrInvalidCapacity is returned from New when the requested capacity is not positive
	ErrInvalidCapacity = errors.New("space capacity must be positive")
)
