package pathfunc

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pixel"
)

// Sentinel errors for path-function configuration and initialization.
var (
	// ErrLabelMapRequired is returned by Initialize of label-aware variants
	// when Maps.Label is nil.
	ErrLabelMapRequired = errors.New("pathfunc: this path function requires a label map")

	// ErrNilMaps is returned when Initialize receives a nil *Maps or a Maps
	// without a value map.
	ErrNilMaps = errors.New("pathfunc: value map is required")

	// ErrNilMap is returned by constructors when a mandatory auxiliary map
	// (handicap, intensity) is nil.
	ErrNilMap = errors.New("pathfunc: auxiliary map is required")

	// ErrDimensionMismatch is returned when an auxiliary map, the label map
	// or the predecessor map disagrees with the value map's shape.
	ErrDimensionMismatch = errors.New("pathfunc: map dimensions do not match")

	// ErrNonFiniteHandicap is returned when a handicap that feeds arc weights
	// holds an infinite or NaN sample.
	ErrNonFiniteHandicap = errors.New("pathfunc: handicap samples must be finite")

	// ErrAlphaRange is returned when the orientation factor is outside [0, 1].
	ErrAlphaRange = errors.New("pathfunc: alpha must lie in [0, 1]")

	// ErrBadBucketSize is returned when the bucket size is not positive and finite.
	ErrBadBucketSize = errors.New("pathfunc: bucket size must be positive and finite")

	// ErrBadAttenuation is returned when the per-arc attenuation is not
	// positive and finite.
	ErrBadAttenuation = errors.New("pathfunc: attenuation must be positive and finite")
)

// NoPredecessor marks a root in Maps.Predecessor.
const NoPredecessor = -1

// PathFunction computes seed costs and propagates optimum-path values over
// a pixel graph. The driver calls Initialize once, then for each popped
// node one of RemoveSimple/RemoveLabel, then Capable and Propagate for each
// neighbour that is not Removed.
type PathFunction interface {
	// Initialize validates m against the function's auxiliary maps, binds
	// it, resets the predecessor map (and the label map plus the label
	// counter when sequentialLabel is set) and writes seed values.
	// Nothing is written when an error is returned.
	Initialize(m *Maps, sequentialLabel bool) error

	// RemoveSimple is called once when index is popped. It reports whether
	// the node may propagate.
	RemoveSimple(index int, state bucketqueue.State) bool

	// RemoveLabel is RemoveSimple plus sequential labelling: a popped root
	// receives the next label of the run.
	RemoveLabel(index int, state bucketqueue.State) bool

	// Capable is a cheap pre-check; false means Propagate cannot improve adj.
	Capable(index, adj int, adjState bucketqueue.State) bool

	// Propagate offers the path through index to adj and writes adj's value
	// when the offer is strictly better. It reports whether it wrote.
	Propagate(index, adj int) bool

	// Increasing reports whether accepted propagations raise values
	// (maximum-ordered queue) rather than lower them (minimum-ordered queue).
	Increasing() bool

	// BestValue returns the best value index could ever reach.
	BestValue(index int) float64

	// BucketSize returns the queue bucket span this function wants.
	BucketSize() float64

	// Range returns bounds on every finite value the run can produce.
	// It is meaningful only after a successful Initialize.
	Range() (lo, hi float64)
}

// Maps is the per-run arena of node attributes, indexed by linear node id.
// Label and Predecessor may be nil. The run's sequential label counter
// lives here so that independent runs never share it.
type Maps struct {
	Shape       pixel.Shape
	Value       []float64
	Label       []int
	Predecessor []int

	nextLabel int
}

// NewMaps bundles caller-owned slices into a Maps. No data is copied.
func NewMaps(shape pixel.Shape, value []float64, label, predecessor []int) *Maps {
	return &Maps{
		Shape:       shape,
		Value:       value,
		Label:       label,
		Predecessor: predecessor,
		nextLabel:   1,
	}
}

// NextLabel returns the next sequential label (starting at 1) and
// advances the counter.
func (m *Maps) NextLabel() int {
	l := m.nextLabel
	m.nextLabel++

	return l
}

// Validate checks that every present map has Shape.Size() entries.
func (m *Maps) Validate() error {
	if m == nil || m.Value == nil {
		return ErrNilMaps
	}
	if err := m.Shape.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
	}
	n := m.Shape.Size()
	if len(m.Value) != n {
		return fmt.Errorf("%w: value map has %d entries, shape %s needs %d", ErrDimensionMismatch, len(m.Value), m.Shape, n)
	}
	if m.Label != nil && len(m.Label) != n {
		return fmt.Errorf("%w: label map has %d entries, shape %s needs %d", ErrDimensionMismatch, len(m.Label), m.Shape, n)
	}
	if m.Predecessor != nil && len(m.Predecessor) != n {
		return fmt.Errorf("%w: predecessor map has %d entries, shape %s needs %d",
			ErrDimensionMismatch, len(m.Predecessor), m.Shape, n)
	}

	return nil
}

// Option configures a path function via functional arguments. Invalid
// values are recorded and surfaced by the constructor.
type Option func(*Options)

// Options holds the tunables shared by the path-function variants.
type Options struct {
	// BucketSize is the queue bucket span. Default 1.0.
	BucketSize float64
	// Attenuation is the per-arc cost decrement of MaxCost. Default 1.0.
	Attenuation float64

	err error
}

// DefaultOptions returns unit bucket size and unit attenuation.
func DefaultOptions() Options {
	return Options{
		BucketSize:  1.0,
		Attenuation: 1.0,
	}
}

// WithBucketSize sets the queue bucket span (must be positive and finite).
func WithBucketSize(size float64) Option {
	return func(o *Options) {
		if !(size > 0) || math.IsInf(size, 0) {
			o.err = fmt.Errorf("%w: %v", ErrBadBucketSize, size)
			return
		}
		o.BucketSize = size
	}
}

// WithAttenuation sets the per-arc decrement used by MaxCost (must be
// positive and finite, so that every accepted propagation is strict).
func WithAttenuation(a float64) Option {
	return func(o *Options) {
		if !(a > 0) || math.IsInf(a, 0) {
			o.err = fmt.Errorf("%w: %v", ErrBadAttenuation, a)
			return
		}
		o.Attenuation = a
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o, o.err
}

// sameShape reports a dimension mismatch between an auxiliary map and the
// value map, naming the auxiliary map in the error.
func sameShape(name string, aux, target pixel.Shape) error {
	if !aux.Equal(target) {
		return fmt.Errorf("%w: %s map is %s, value map is %s", ErrDimensionMismatch, name, aux, target)
	}

	return nil
}
