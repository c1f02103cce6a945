package watershed

import "errors"

var (
	// ErrPourPointUnreachable no cell within the snap radius carries enough
	// accumulation to serve as an outlet.
	ErrPourPointUnreachable = errors.New("pour point unreachable")

	// ErrEmptyBasin delineation collected no cells.
	ErrEmptyBasin = errors.New("empty basin")
)
