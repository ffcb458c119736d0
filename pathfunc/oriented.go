package pathfunc

import (
	"fmt"
	"math"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pixel"
)

// MaxArcWeight bounds the rounded arc weight of OrientedIntern before the
// two unit increments, keeping every value exactly representable and the
// queue's bucket range finite.
const MaxArcWeight = 1 << 30

// OrientedIntern is the oriented path function for object segmentation
// with orientation-aware arcs. The value of a node is the weight of the
// arc through which it was conquered, so nodes are processed cheapest
// first (Increasing() == false).
//
// Arc weight from u to v:
//
//	w = handicap(u) + handicap(v)
//	f = +alpha if intensity(u) > intensity(v), -alpha if lower, 0 if equal
//	f = -f     if label(u) != 0
//	w = round(w · (1 + f)), clamped to [0, MaxArcWeight]
//	w = w + 1
//	w = 0      if the arc follows the geodesic restriction
//	w = w + 1
//
// A background source (label 0) pays more to descend in intensity; a
// labelled source pays less. The restriction applies to arcs u→v where
// restriction(u) == v for a labelled u, or restriction(v) == u for a
// background u.
type OrientedIntern struct {
	base
	handicap    *pixel.Image
	intensity   *pixel.Image
	restriction *pixel.IntMap
	alpha       float64
}

// NewOrientedIntern builds an OrientedIntern function. restriction may be
// nil. Returns ErrNilMap for a nil handicap or intensity, ErrAlphaRange
// for alpha outside [0, 1], ErrNonFiniteHandicap for an infinite or NaN
// handicap sample and ErrDimensionMismatch when the maps disagree in shape.
func NewOrientedIntern(handicap, intensity *pixel.Image, restriction *pixel.IntMap, alpha float64, opts ...Option) (*OrientedIntern, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if handicap == nil || intensity == nil {
		return nil, fmt.Errorf("%w: handicap and intensity", ErrNilMap)
	}
	if !(alpha >= 0 && alpha <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrAlphaRange, alpha)
	}
	for i, h := range handicap.Data() {
		if math.IsInf(h, 0) || math.IsNaN(h) {
			return nil, fmt.Errorf("%w: sample %d is %v", ErrNonFiniteHandicap, i, h)
		}
	}
	if err = sameShape("handicap", handicap.Shape(), intensity.Shape()); err != nil {
		return nil, err
	}
	if restriction != nil {
		if err = sameShape("restriction", restriction.Shape(), intensity.Shape()); err != nil {
			return nil, err
		}
	}

	return &OrientedIntern{
		base:        base{bucketSize: o.BucketSize},
		handicap:    handicap,
		intensity:   intensity,
		restriction: restriction,
		alpha:       alpha,
	}, nil
}

// Initialize keeps the caller's seed values (finite for seeds, +Inf for
// the rest) and requires a label map.
func (f *OrientedIntern) Initialize(m *Maps, sequentialLabel bool) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Label == nil {
		return ErrLabelMapRequired
	}
	if err := sameShape("intensity", f.intensity.Shape(), m.Shape); err != nil {
		return err
	}
	if f.restriction != nil {
		if err := sameShape("restriction", f.restriction.Shape(), m.Shape); err != nil {
			return err
		}
	}

	f.bind(m, sequentialLabel)
	lo, hi := f.valueBounds()
	f.lo = math.Min(lo, 0)
	f.hi = math.Max(hi, f.maxWeight())

	return nil
}

// maxWeight bounds every weight Propagate can produce.
func (f *OrientedIntern) maxWeight() float64 {
	w := math.Max(2*f.handicap.Max(), 0)
	w = math.Min(math.Round(w*(1+f.alpha)), MaxArcWeight)

	return w + 2
}

// Capable is true when adj is not final and index is strictly cheaper.
func (f *OrientedIntern) Capable(index, adj int, adjState bucketqueue.State) bool {
	return adjState != bucketqueue.Removed && f.maps.Value[index] < f.maps.Value[adj]
}

// Propagate computes the oriented arc weight and offers it to adj.
func (f *OrientedIntern) Propagate(index, adj int) bool {
	m := f.maps
	w := f.handicap.At(index) + f.handicap.At(adj)

	fraction := 0.0
	if src, dst := f.intensity.At(index), f.intensity.At(adj); src > dst {
		fraction = f.alpha
	} else if src < dst {
		fraction = -f.alpha
	}
	if m.Label[index] != 0 {
		fraction = -fraction
	}

	w = math.Round(w * (1 + fraction))
	w = math.Max(0, math.Min(w, MaxArcWeight))
	w++
	if f.restriction != nil && f.restricted(index, adj) {
		w = 0
	}
	w++

	if m.Value[adj] > w {
		m.Value[adj] = w
		return true
	}

	return false
}

func (f *OrientedIntern) restricted(index, adj int) bool {
	if f.maps.Label[index] != 0 {
		return f.restriction.At(index) == adj
	}

	return f.restriction.At(adj) == index
}

// Increasing is false: accepted propagations lower values.
func (f *OrientedIntern) Increasing() bool { return false }

// BestValue returns the handicap of index.
func (f *OrientedIntern) BestValue(index int) float64 { return f.handicap.At(index) }
