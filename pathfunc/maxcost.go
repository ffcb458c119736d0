package pathfunc

import (
	"math"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pixel"
)

// MaxCost is the maximum-cost path function: higher values mean stronger
// connectivity. Every node starts at its caller-supplied seed value or,
// failing that, at its handicap (1.0 without one). A node offers its
// neighbours its own value minus a fixed attenuation, so strength decays
// with each arc away from the strongest seeds. Nodes are processed
// strongest first (Increasing() == true).
type MaxCost struct {
	base
	handicap    *pixel.Image
	attenuation float64
}

// NewMaxCost builds a MaxCost function. handicap may be nil.
// Returns ErrBadBucketSize or ErrBadAttenuation for invalid options.
func NewMaxCost(handicap *pixel.Image, opts ...Option) (*MaxCost, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	return &MaxCost{
		base:        base{bucketSize: o.BucketSize},
		handicap:    handicap,
		attenuation: o.Attenuation,
	}, nil
}

// Initialize seeds every node. A finite value already in the map (a
// caller-supplied seed) is kept; any other node starts at BestValue.
// Nodes whose handicap is -Inf stay unseeded until a propagation reaches
// them, so the lower bound of Range then covers a full-length chain of
// attenuations below the strongest seed.
func (f *MaxCost) Initialize(m *Maps, sequentialLabel bool) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if f.handicap != nil {
		if err := sameShape("handicap", f.handicap.Shape(), m.Shape); err != nil {
			return err
		}
	}

	f.bind(m, sequentialLabel)
	unseeded := false
	for i, v := range m.Value {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			v = f.BestValue(i)
			m.Value[i] = v
		}
		if math.IsInf(v, -1) {
			unseeded = true
		}
	}
	f.lo, f.hi = f.valueBounds()
	if unseeded {
		f.lo = math.Min(f.lo, f.hi-f.attenuation*float64(len(m.Value)-1))
	}

	return nil
}

// Capable is true when adj is not final and index is strictly stronger.
func (f *MaxCost) Capable(index, adj int, adjState bucketqueue.State) bool {
	return adjState != bucketqueue.Removed && f.maps.Value[index] > f.maps.Value[adj]
}

// Propagate offers value(index) - attenuation to adj.
func (f *MaxCost) Propagate(index, adj int) bool {
	v := f.maps.Value[index] - f.attenuation
	if v > f.maps.Value[adj] {
		f.maps.Value[adj] = v
		return true
	}

	return false
}

// Increasing is true: accepted propagations raise values.
func (f *MaxCost) Increasing() bool { return true }

// BestValue returns the handicap of index, or 1.0 without a handicap.
func (f *MaxCost) BestValue(index int) float64 {
	if f.handicap == nil {
		return 1.0
	}

	return f.handicap.At(index)
}
