package morph

import "errors"

var (
	// ErrEmptyBasin no valid DEM cell falls inside the basin polygon.
	ErrEmptyBasin = errors.New("empty basin")

	// ErrInvalidBands malformed interpretation table.
	ErrInvalidBands = errors.New("invalid interpretation bands")
)
