package pathfunc

import (
	"fmt"
	"math"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pixel"
)

// Watershed is the max-arc path function of the watershed transform: the
// cost of a path is the highest handicap along it, and nodes are flooded
// lowest first (Increasing() == false).
//
// Two seeding modes:
//
//   - sequential labelling: every node starts one unit above its handicap,
//     so each regional minimum is popped unconquered, drops back to its
//     handicap and becomes a root with a fresh label;
//   - markers (labels given, no sequential labelling): nodes with a
//     non-zero label start at their handicap, all others at +Inf, and the
//     marker labels flood the image.
//
// In both modes a finite value already in the map is a caller seed: the
// node starts at max(value, handicap) and keeps that level as a root.
type Watershed struct {
	base
	handicap *pixel.Image
	lifted   []bool // seeded one unit above the handicap
}

// NewWatershed builds a Watershed function over handicap.
// Returns ErrNilMap for a nil handicap.
func NewWatershed(handicap *pixel.Image, opts ...Option) (*Watershed, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if handicap == nil {
		return nil, fmt.Errorf("%w: handicap", ErrNilMap)
	}

	return &Watershed{base: base{bucketSize: o.BucketSize}, handicap: handicap}, nil
}

// Initialize writes the seed values of the selected mode.
func (f *Watershed) Initialize(m *Maps, sequentialLabel bool) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := sameShape("handicap", f.handicap.Shape(), m.Shape); err != nil {
		return err
	}

	markers := !sequentialLabel && m.Label != nil
	f.bind(m, sequentialLabel)
	f.lifted = make([]bool, len(m.Value))
	f.lo, f.hi = f.handicap.Min(), f.handicap.Max()+1
	for i, v := range m.Value {
		h := f.handicap.At(i)
		switch {
		case !math.IsInf(v, 0) && !math.IsNaN(v):
			m.Value[i] = math.Max(v, h)
			f.hi = math.Max(f.hi, m.Value[i])
		case !markers:
			m.Value[i] = h + 1
			f.lifted[i] = true
		case m.Label[i] != 0:
			m.Value[i] = h
		default:
			m.Value[i] = math.Inf(1)
		}
	}

	return nil
}

// RemoveSimple lowers a popped root that was seeded above its handicap.
func (f *Watershed) RemoveSimple(index int, state bucketqueue.State) bool {
	if f.isRoot(index, state) && f.lifted[index] {
		f.maps.Value[index] = f.handicap.At(index)
	}

	return true
}

// RemoveLabel is RemoveSimple plus a fresh label for every root.
func (f *Watershed) RemoveLabel(index int, state bucketqueue.State) bool {
	root := f.isRoot(index, state)
	f.RemoveSimple(index, state)
	if root && f.maps.Label != nil {
		f.maps.Label[index] = f.maps.NextLabel()
	}

	return true
}

// Capable is true when adj is not final and index is strictly lower.
func (f *Watershed) Capable(index, adj int, adjState bucketqueue.State) bool {
	return adjState != bucketqueue.Removed && f.maps.Value[index] < f.maps.Value[adj]
}

// Propagate offers max(value(index), handicap(adj)) to adj.
func (f *Watershed) Propagate(index, adj int) bool {
	v := math.Max(f.maps.Value[index], f.handicap.At(adj))
	if v < f.maps.Value[adj] {
		f.maps.Value[adj] = v
		return true
	}

	return false
}

// Increasing is false: accepted propagations lower values.
func (f *Watershed) Increasing() bool { return false }

// BestValue returns the handicap of index.
func (f *Watershed) BestValue(index int) float64 { return f.handicap.At(index) }
