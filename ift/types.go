package ift

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pixel"
)

// Sentinel errors returned by Transform and the Result helpers.
var (
	// ErrNilPathFunction is returned when Transform receives a nil path function.
	ErrNilPathFunction = errors.New("ift: path function is nil")

	// ErrNilAdjacency is returned when Transform receives a nil adjacency.
	ErrNilAdjacency = errors.New("ift: adjacency is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied or an
	// option's data disagrees with the shape of the run.
	ErrOptionViolation = errors.New("ift: invalid option supplied")

	// ErrNodeRemovedTwice signals a broken queue invariant: a node came out
	// of the queue after it had already been finalized.
	ErrNodeRemovedTwice = errors.New("ift: node removed twice")

	// ErrIndexOutOfRange is returned by Result.PathTo for an index outside the shape.
	ErrIndexOutOfRange = errors.New("ift: node index out of range")

	// ErrNotReached is returned by Result.PathTo for a node the run never finalized.
	ErrNotReached = errors.New("ift: node was not reached")

	// ErrBrokenForest is returned by Result.PathTo when the predecessor map
	// holds a cycle, which only a caller-modified Result can contain.
	ErrBrokenForest = errors.New("ift: predecessor map is not a forest")
)

// Option configures a Transform run via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation when
// Transform is invoked.
type Option func(*Options)

// Options holds the per-run inputs and callbacks of Transform.
type Options struct {
	// InitialValue, when set, is copied into the value map before the path
	// function's Initialize. Seed nodes carry finite values; the rest carry
	// +Inf (minimizing functions) or -Inf (maximizing functions).
	// Without it every node starts at the non-seed sentinel.
	InitialValue []float64

	// Labels, when set, is copied into the label map before Initialize.
	Labels []int

	// LabelMap allocates a zeroed label map even without Labels.
	LabelMap bool

	// SequentialLabel makes every root receive a fresh label, starting at 1.
	// It implies a label map.
	SequentialLabel bool

	// Mask excludes nodes with a zero entry from seeding and from being
	// visited as neighbours. Nil means every node is valid.
	Mask *pixel.IntMap

	// TieBreak selects FIFO (default) or LIFO order among equal buckets.
	TieBreak bucketqueue.TieBreak

	// MaxIterations, if > 0, stops the run after that many pops and marks
	// the result Truncated. Zero means no bound.
	MaxIterations int

	// Logger receives run events. Defaults to a disabled logger.
	Logger zerolog.Logger

	// OnRemove is called once for every popped node, after the path
	// function's remove hook, with the node's final value.
	OnRemove func(index int, value float64)

	// OnPropagate is called after every accepted propagation from -> to.
	OnPropagate func(from, to int, before, after float64)

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with sane defaults:
//   - no initial values, labels or mask
//   - FIFO tie-break, no iteration bound
//   - a disabled logger and no-op hooks.
func DefaultOptions() Options {
	return Options{
		TieBreak:    bucketqueue.FIFO,
		Logger:      zerolog.Nop(),
		OnRemove:    func(int, float64) {},
		OnPropagate: func(int, int, float64, float64) {},
	}
}

// WithInitialValue seeds the value map from values (copied, never retained).
func WithInitialValue(values []float64) Option {
	return func(o *Options) {
		if values == nil {
			o.err = fmt.Errorf("%w: initial values are nil", ErrOptionViolation)
			return
		}
		o.InitialValue = values
	}
}

// WithLabels seeds the label map from labels (copied, never retained).
func WithLabels(labels []int) Option {
	return func(o *Options) {
		if labels == nil {
			o.err = fmt.Errorf("%w: labels are nil", ErrOptionViolation)
			return
		}
		o.Labels = labels
	}
}

// WithLabelMap allocates a zeroed label map for the run.
func WithLabelMap() Option {
	return func(o *Options) {
		o.LabelMap = true
	}
}

// WithSequentialLabel labels every root with the next run-scoped label.
func WithSequentialLabel() Option {
	return func(o *Options) {
		o.SequentialLabel = true
	}
}

// WithMask restricts the run to nodes whose mask entry is non-zero.
func WithMask(mask *pixel.IntMap) Option {
	return func(o *Options) {
		if mask == nil {
			o.err = fmt.Errorf("%w: mask is nil", ErrOptionViolation)
			return
		}
		o.Mask = mask
	}
}

// WithTieBreak selects the order among nodes sharing a bucket.
func WithTieBreak(tie bucketqueue.TieBreak) Option {
	return func(o *Options) {
		if tie != bucketqueue.FIFO && tie != bucketqueue.LIFO {
			o.err = fmt.Errorf("%w: unknown tie-break %d", ErrOptionViolation, tie)
			return
		}
		o.TieBreak = tie
	}
}

// WithMaxIterations bounds the number of pops.
//
//	n > 0: stop after n pops
//	n == 0: explicit no bound
//	n < 0: invalid option → ErrOptionViolation
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxIterations cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIterations = n
	}
}

// WithLogger routes run events to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithOnRemove registers a callback to run once per popped node.
func WithOnRemove(fn func(index int, value float64)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnRemove = fn
		}
	}
}

// WithOnPropagate registers a callback to run after each accepted propagation.
func WithOnPropagate(fn func(from, to int, before, after float64)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnPropagate = fn
		}
	}
}
