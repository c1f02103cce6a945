package grid

import (
	"fmt"
	"math"
)

type offset struct {
	dr, dc int
	f      float64 // distance factor
}

// D8 offsets ordered cardinal before diagonal: N, E, S, W, NE, SE, SW, NW.
// The order doubles as the tie-break priority during flow routing.
var d8 = [8]offset{
	{-1, 0, 1.}, {0, 1, 1.}, {1, 0, 1.}, {0, -1, 1.},
	{-1, 1, math.Sqrt2}, {1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// Neighbourhood is the set of adjacent cells considered by routing.
type Neighbourhood struct {
	offsets []offset
}

var (
	// D8 eight-neighbour (queen) connectivity.
	D8 = Neighbourhood{d8[:]}
	// D4 four-neighbour (rook) connectivity.
	D4 = Neighbourhood{d8[:4]}
)

// NewNeighbourhood returns D4 or D8 from a neighbour count.
func NewNeighbourhood(n int) (Neighbourhood, error) {
	switch n {
	case 0, 8:
		return D8, nil
	case 4:
		return D4, nil
	}
	return Neighbourhood{}, fmt.Errorf("grid.NewNeighbourhood: unsupported neighbour count %d (use 4 or 8)", n)
}

// Len number of neighbours
func (n Neighbourhood) Len() int { return len(n.offsets) }

// Opposite returns the index pointing back toward the cell at index k.
func (n Neighbourhood) Opposite(k int) int {
	if k < 4 {
		return (k + 2) % 4
	}
	return 4 + (k-4+2)%4
}

// Offset returns the row and column shift of neighbour k.
func (n Neighbourhood) Offset(k int) (dr, dc int) {
	return n.offsets[k].dr, n.offsets[k].dc
}
