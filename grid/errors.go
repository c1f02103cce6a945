package grid

import "errors"

var (
	// ErrInvalidGrid is returned for malformed or empty elevation grids.
	ErrInvalidGrid = errors.New("invalid grid")

	// ErrUnprojectedCRS flags area or length measured without a projected
	// reference. It is a warning: results are kept and marked approximate.
	ErrUnprojectedCRS = errors.New("coordinate reference is not projected; areas and lengths are approximate")
)
