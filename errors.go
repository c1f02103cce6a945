package basinmorph

import (
	"errors"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/morph"
	"github.com/maseology/basinmorph/streams"
	"github.com/maseology/basinmorph/tem"
	"github.com/maseology/basinmorph/watershed"
)

// ErrInvalidConfig reports an out-of-range or unreadable configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// error kinds returned by Kind
const (
	KindInvalidGrid          = "InvalidGrid"
	KindPourPointUnreachable = "PourPointUnreachable"
	KindEmptyBasin           = "EmptyBasin"
	KindCycleDetected        = "CycleDetected"
	KindUnprojectedCRS       = "UnprojectedCRS"
	KindInvalidConfig        = "InvalidConfig"
)

// Kind names the failure class of err, or "" when err is nil or foreign.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tem.ErrCycleDetected):
		return KindCycleDetected
	case errors.Is(err, watershed.ErrPourPointUnreachable):
		return KindPourPointUnreachable
	case errors.Is(err, watershed.ErrEmptyBasin), errors.Is(err, morph.ErrEmptyBasin):
		return KindEmptyBasin
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, streams.ErrInvalidThreshold), errors.Is(err, morph.ErrInvalidBands):
		return KindInvalidConfig
	case errors.Is(err, grid.ErrInvalidGrid):
		return KindInvalidGrid
	case errors.Is(err, grid.ErrUnprojectedCRS):
		return KindUnprojectedCRS
	}
	return ""
}
