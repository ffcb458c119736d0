package pixel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Image is a dense D-dimensional array of float64 samples stored in
// linear-index order. It is used for handicap, intensity and value maps.
type Image struct {
	shape Shape
	data  []float64
}

// NewImage allocates a zero-filled image of the given extents.
// Returns ErrEmptyShape or ErrBadDimension for an invalid shape.
// Complexity: O(N) time and memory.
func NewImage(dims ...int) (*Image, error) {
	s := Shape(dims).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &Image{shape: s, data: make([]float64, s.Size())}, nil
}

// ImageFromSlice wraps data as an image without copying it. The image
// keeps a reference to data, so later writes through either side are
// visible to both. Returns ErrDimensionMismatch if len(data) differs from
// the product of dims.
func ImageFromSlice(data []float64, dims ...int) (*Image, error) {
	s := Shape(dims).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(data) != s.Size() {
		return nil, fmt.Errorf("%w: %d samples for shape %s", ErrDimensionMismatch, len(data), s)
	}

	return &Image{shape: s, data: data}, nil
}

// Shape returns the image extents. The returned slice must not be modified.
func (im *Image) Shape() Shape { return im.shape }

// Size returns the number of samples.
func (im *Image) Size() int { return len(im.data) }

// At returns the sample at a linear index.
func (im *Image) At(index int) float64 { return im.data[index] }

// Set writes the sample at a linear index.
func (im *Image) Set(index int, v float64) { im.data[index] = v }

// AtCoords returns the sample at the given coordinates.
func (im *Image) AtCoords(coords ...int) float64 { return im.data[im.shape.Index(coords)] }

// Data exposes the backing slice.
func (im *Image) Data() []float64 { return im.data }

// Fill sets every sample to v.
func (im *Image) Fill(v float64) {
	for i := range im.data {
		im.data[i] = v
	}
}

// Clone returns a deep copy of im.
func (im *Image) Clone() *Image {
	data := make([]float64, len(im.data))
	copy(data, im.data)

	return &Image{shape: im.shape.Clone(), data: data}
}

// Max returns the largest finite sample, or 0 when the image holds none.
// Infinite samples are skipped so that seed sentinels do not leak into
// cost bounds.
func (im *Image) Max() float64 {
	finite := finiteSamples(im.data)
	if len(finite) == 0 {
		return 0
	}

	return floats.Max(finite)
}

// Min returns the smallest finite sample, or 0 when the image holds none.
func (im *Image) Min() float64 {
	finite := finiteSamples(im.data)
	if len(finite) == 0 {
		return 0
	}

	return floats.Min(finite)
}

// finiteSamples returns data itself when every sample is finite, or a
// filtered copy otherwise.
func finiteSamples(data []float64) []float64 {
	for i, v := range data {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			out := make([]float64, i, len(data))
			copy(out, data[:i])
			for _, w := range data[i+1:] {
				if !math.IsInf(w, 0) && !math.IsNaN(w) {
					out = append(out, w)
				}
			}

			return out
		}
	}

	return data
}

// IntMap is a dense D-dimensional array of int samples. It carries label
// maps, masks (0 = excluded) and geodesic restriction maps (a linear index
// per node, or a negative value for "no privileged neighbour").
type IntMap struct {
	shape Shape
	data  []int
}

// NewIntMap allocates a zero-filled map of the given extents.
func NewIntMap(dims ...int) (*IntMap, error) {
	s := Shape(dims).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &IntMap{shape: s, data: make([]int, s.Size())}, nil
}

// IntMapFromSlice wraps data without copying it.
// Returns ErrDimensionMismatch if len(data) differs from the product of dims.
func IntMapFromSlice(data []int, dims ...int) (*IntMap, error) {
	s := Shape(dims).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(data) != s.Size() {
		return nil, fmt.Errorf("%w: %d samples for shape %s", ErrDimensionMismatch, len(data), s)
	}

	return &IntMap{shape: s, data: data}, nil
}

// Shape returns the map extents.
func (m *IntMap) Shape() Shape { return m.shape }

// Size returns the number of samples.
func (m *IntMap) Size() int { return len(m.data) }

// At returns the sample at a linear index.
func (m *IntMap) At(index int) int { return m.data[index] }

// Set writes the sample at a linear index.
func (m *IntMap) Set(index int, v int) { m.data[index] = v }

// Data exposes the backing slice.
func (m *IntMap) Data() []int { return m.data }
