package pixel

import (
	"fmt"
	"math"
	"sort"
)

// Adjacency is a fixed table of coordinate offsets. Slot 0 always holds
// the zero offset (the node itself); slots [1, NeighborCount) hold the
// proper neighbours in the order they are visited.
type Adjacency struct {
	dims    int
	offsets [][]int
}

// Ball builds the adjacency of every offset whose Euclidean length is at
// most radius in a dims-dimensional grid. Offsets are ordered by length;
// offsets of equal length keep scan order (axis 0 fastest, starting from
// the most negative corner).
//
// Radius 1 yields 4-neighbourhoods in 2-D and 6-neighbourhoods in 3-D;
// radius 1.5 yields 8- and 26-neighbourhoods.
//
// Complexity: O((2r+1)^D · log((2r+1)^D)).
func Ball(dims int, radius float64) (*Adjacency, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: %d axes", ErrBadDimension, dims)
	}
	if radius < 0 || math.IsInf(radius, 0) || math.IsNaN(radius) {
		return nil, fmt.Errorf("%w: %v", ErrBadRadius, radius)
	}
	r := int(math.Floor(radius))
	side := 2*r + 1
	total := 1
	for i := 0; i < dims; i++ {
		total *= side
	}

	type entry struct {
		off []int
		sqr int
	}
	limit := radius * radius
	entries := make([]entry, 0, total)
	for k := 0; k < total; k++ {
		off := make([]int, dims)
		rest := k
		sq := 0
		for axis := 0; axis < dims; axis++ {
			off[axis] = rest%side - r
			rest /= side
			sq += off[axis] * off[axis]
		}
		if sq == 0 || float64(sq) > limit {
			continue
		}
		entries = append(entries, entry{off: off, sqr: sq})
	}
	// Stable: equal lengths keep raster order.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].sqr < entries[j].sqr })

	adj := &Adjacency{dims: dims, offsets: make([][]int, 0, len(entries)+1)}
	adj.offsets = append(adj.offsets, make([]int, dims))
	for _, e := range entries {
		adj.offsets = append(adj.offsets, e.off)
	}

	return adj, nil
}

// Circular is Ball(2, radius).
func Circular(radius float64) (*Adjacency, error) { return Ball(2, radius) }

// Spherical is Ball(3, radius).
func Spherical(radius float64) (*Adjacency, error) { return Ball(3, radius) }

// FromOffsets builds an adjacency from an explicit offset list. The zero
// offset is placed in slot 0 and dropped from the list if present; the
// remaining offsets keep the given order. All offsets must share one
// dimensionality.
func FromOffsets(offsets [][]int) (*Adjacency, error) {
	if len(offsets) == 0 || len(offsets[0]) == 0 {
		return nil, ErrEmptyShape
	}
	dims := len(offsets[0])
	adj := &Adjacency{dims: dims, offsets: [][]int{make([]int, dims)}}
	for i, off := range offsets {
		if len(off) != dims {
			return nil, fmt.Errorf("%w: offset %d has %d axes, want %d", ErrDimensionMismatch, i, len(off), dims)
		}
		zero := true
		for _, c := range off {
			if c != 0 {
				zero = false
				break
			}
		}
		if zero {
			continue
		}
		cp := make([]int, dims)
		copy(cp, off)
		adj.offsets = append(adj.offsets, cp)
	}

	return adj, nil
}

// Dims returns the dimensionality of the offsets.
func (a *Adjacency) Dims() int { return a.dims }

// NeighborCount returns the number of slots, including slot 0.
func (a *Adjacency) NeighborCount() int { return len(a.offsets) }

// Offset returns the k-th offset. The returned slice must not be modified.
func (a *Adjacency) Offset(k int) []int { return a.offsets[k] }

// Iterator enumerates the in-bounds neighbours of nodes of one shape.
// It precomputes linear deltas so each lookup costs O(D) per slot.
// An Iterator is not safe for concurrent use; build one per goroutine.
type Iterator struct {
	shape  Shape
	adj    *Adjacency
	deltas []int
	coords []int
	target []int
}

// Iterator binds a to shape. Returns ErrDimensionMismatch when the
// adjacency and the shape disagree on dimensionality.
func (a *Adjacency) Iterator(shape Shape) (*Iterator, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.Dims() != a.dims {
		return nil, fmt.Errorf("%w: adjacency has %d axes, shape %s has %d",
			ErrDimensionMismatch, a.dims, shape, shape.Dims())
	}
	it := &Iterator{
		shape:  shape,
		adj:    a,
		deltas: make([]int, len(a.offsets)),
		coords: make([]int, a.dims),
		target: make([]int, a.dims),
	}
	for k, off := range a.offsets {
		stride := 1
		for axis, c := range off {
			it.deltas[k] += c * stride
			stride *= shape[axis]
		}
	}

	return it, nil
}

// Neighbors appends to dst[:0] the linear indices of the in-bounds
// neighbours of index, in slot order, and returns the result.
// Complexity: O(n·D) for n slots.
func (it *Iterator) Neighbors(index int, dst []int) []int {
	dst = dst[:0]
	it.coords = it.shape.Coordinates(index, it.coords)
	for k := 1; k < len(it.adj.offsets); k++ {
		off := it.adj.offsets[k]
		for axis := range off {
			it.target[axis] = it.coords[axis] + off[axis]
		}
		if !it.shape.ValidCoordinate(it.target) {
			continue
		}
		dst = append(dst, index+it.deltas[k])
	}

	return dst
}
