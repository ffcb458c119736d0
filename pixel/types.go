// Package pixel defines the dense sample containers, shapes and
// adjacency relations that the foresting transform walks over.
package pixel

import (
	"errors"
	"fmt"
)

// Sentinel errors for pixel operations.
var (
	// ErrEmptyShape indicates a shape with no dimensions.
	ErrEmptyShape = errors.New("pixel: shape must have at least one dimension")
	// ErrBadDimension indicates a non-positive extent on some axis.
	ErrBadDimension = errors.New("pixel: every dimension must be positive")
	// ErrDimensionMismatch indicates two containers (or a container and its data)
	// that disagree on shape or element count.
	ErrDimensionMismatch = errors.New("pixel: dimensions do not match")
	// ErrBadRadius indicates an adjacency radius that is negative or not finite.
	ErrBadRadius = errors.New("pixel: adjacency radius must be finite and non-negative")
	// ErrNotPlanar indicates an operation that only supports 2-D data.
	ErrNotPlanar = errors.New("pixel: operation requires a 2-D shape")
)

// Shape lists the extent of each axis. Axis 0 varies fastest in linear
// indices, so a 2-D shape is {width, height} and a 3-D shape is
// {width, height, depth}.
type Shape []int

// Validate reports whether s describes a non-empty grid.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return ErrEmptyShape
	}
	for axis, n := range s {
		if n <= 0 {
			return fmt.Errorf("%w: axis %d has extent %d", ErrBadDimension, axis, n)
		}
	}

	return nil
}

// Dims returns the number of axes.
func (s Shape) Dims() int { return len(s) }

// Size returns the number of nodes in the grid.
// Complexity: O(D).
func (s Shape) Size() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// Equal reports whether s and o have the same axes and extents.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}

	return true
}

// Clone returns an independent copy of s.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)

	return out
}

// ValidCoordinate reports whether coords lies inside the grid.
// A coordinate vector of the wrong length is never valid.
// Complexity: O(D).
func (s Shape) ValidCoordinate(coords []int) bool {
	if len(coords) != len(s) {
		return false
	}
	for i, c := range coords {
		if c < 0 || c >= s[i] {
			return false
		}
	}

	return true
}

// Index maps coords to a linear index: x + y*w + z*w*h + ...
// The caller is responsible for passing a valid coordinate.
// Complexity: O(D).
func (s Shape) Index(coords []int) int {
	idx := 0
	stride := 1
	for i, c := range coords {
		idx += c * stride
		stride *= s[i]
	}

	return idx
}

// Coordinates converts a linear index back to per-axis coordinates,
// writing into dst when it has enough capacity.
// Complexity: O(D).
func (s Shape) Coordinates(index int, dst []int) []int {
	if cap(dst) < len(s) {
		dst = make([]int, len(s))
	}
	dst = dst[:len(s)]
	for i, d := range s {
		dst[i] = index % d
		index /= d
	}

	return dst
}

// String renders the shape as "WxHxD".
func (s Shape) String() string {
	out := ""
	for i, d := range s {
		if i > 0 {
			out += "x"
		}
		out += fmt.Sprint(d)
	}

	return out
}
