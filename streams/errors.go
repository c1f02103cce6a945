package streams

import "errors"

// ErrInvalidThreshold stream threshold below one cell
var ErrInvalidThreshold = errors.New("invalid stream threshold")
