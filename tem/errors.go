package tem

import "errors"

// ErrCycleDetected is returned when a flow direction grid is not acyclic.
// A grid built by Build never fails this check; host-supplied grids may.
var ErrCycleDetected = errors.New("flow direction cycle detected")
