// Package bucketqueue provides tunable options, node states and error
// definitions for the bucket priority queue.
package bucketqueue

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for queue operations.
var (
	// ErrRange is returned when a cost is NaN, infinite, or outside the
	// configured [minCost, maxCost] interval, or when the interval itself
	// is malformed.
	ErrRange = errors.New("bucketqueue: cost out of range")

	// ErrBadBucketSize is returned when the bucket size is not a positive
	// finite number.
	ErrBadBucketSize = errors.New("bucketqueue: bucket size must be positive and finite")

	// ErrEmptyQueue is returned by Pop when no element is INSERTED.
	ErrEmptyQueue = errors.New("bucketqueue: queue is empty")

	// ErrInvalidState is returned when an element is inserted twice, updated
	// while not INSERTED, or found in a ring while not INSERTED. It always
	// signals a caller bug, never a data condition.
	ErrInvalidState = errors.New("bucketqueue: invalid element state")

	// ErrElementIndex is returned for element indices outside [0, capacity).
	ErrElementIndex = errors.New("bucketqueue: element index out of range")
)

// MaxBuckets caps the bucket array. A cost range that needs more buckets
// than this at the chosen bucket size is rejected with ErrRange.
const MaxBuckets = 1 << 26

// State is the life-cycle stage of an element.
// Transitions are monotonic: NotVisited → Inserted → Removed.
type State uint8

const (
	// NotVisited elements have never been inserted.
	NotVisited State = iota
	// Inserted elements sit in exactly one bucket ring.
	Inserted
	// Removed elements were popped and are final.
	Removed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case NotVisited:
		return "NOT_VISITED"
	case Inserted:
		return "INSERTED"
	case Removed:
		return "REMOVED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Order selects which extremum Pop returns.
type Order int

const (
	// Minimum pops from the lowest non-empty bucket.
	Minimum Order = iota
	// Maximum pops from the highest non-empty bucket.
	Maximum
)

// TieBreak selects the policy among elements of one bucket.
type TieBreak int

const (
	// FIFO pops the element that entered the bucket first.
	FIFO TieBreak = iota
	// LIFO pops the element that entered the bucket last.
	LIFO
)

// Option configures a Queue via functional arguments. Invalid values are
// recorded and surfaced by New.
type Option func(*Options)

// Options holds the queue parameters.
type Options struct {
	// BucketSize is the cost span covered by one bucket. Default 1.0.
	BucketSize float64
	// Order is Minimum (default) or Maximum.
	Order Order
	// TieBreak is FIFO (default) or LIFO.
	TieBreak TieBreak

	err error
}

// DefaultOptions returns a minimum-ordered FIFO queue with unit buckets.
func DefaultOptions() Options {
	return Options{
		BucketSize: 1.0,
		Order:      Minimum,
		TieBreak:   FIFO,
	}
}

// WithBucketSize sets the bucket span.
//
//	size > 0, finite: accepted
//	otherwise:        ErrBadBucketSize at New
func WithBucketSize(size float64) Option {
	return func(o *Options) {
		if size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
			o.err = fmt.Errorf("%w: %v", ErrBadBucketSize, size)
			return
		}
		o.BucketSize = size
	}
}

// WithOrder selects the extremum returned by Pop.
func WithOrder(order Order) Option {
	return func(o *Options) {
		o.Order = order
	}
}

// WithTieBreak selects the in-bucket policy.
func WithTieBreak(tie TieBreak) Option {
	return func(o *Options) {
		o.TieBreak = tie
	}
}
