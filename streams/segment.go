package streams

import (
	"github.com/twpayne/go-geom"
)

// Kind discriminates segments by their tributary count.
type Kind int

const (
	// Source segment without tributaries.
	Source Kind = iota
	// Confluence segment starting where two or more segments join.
	Confluence
)

func (k Kind) String() string {
	switch k {
	case Source:
		return "source"
	case Confluence:
		return "confluence"
	}
	return "unknown"
}

// Segment a reach of stream cells between a head (source or confluence)
// and the next confluence or the network outlet.
type Segment struct {
	ID          int
	Kind        Kind
	Cells       []int // downstream order, head first
	Tributaries []int // ids of segments draining into the head
	Downstream  int   // id of the receiving segment, -1 at an outlet
	Order       int   // Strahler
	Magnitude   int   // Shreve
	Length      float64
	Line        *geom.LineString
}

// Head returns the first cell of the segment, -1 for line-only segments.
func (s *Segment) Head() int {
	if len(s.Cells) == 0 {
		return -1
	}
	return s.Cells[0]
}
