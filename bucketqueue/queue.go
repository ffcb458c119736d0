// Package bucketqueue implements a bucket-sorted priority queue over
// integer element ids.
//
// Each element lives in the bucket floor(cost/bucketSize); a bucket is a
// circular doubly-linked ring threaded through per-element next/prev
// arrays, so Insert, Update and the unlink half of Pop are O(1). Pop
// scans for the next non-empty bucket from a cursor that only moves
// back when an insertion lands behind it, which keeps the amortized cost
// O(1) whenever costs are processed monotonically.
package bucketqueue

import (
	"fmt"
	"math"
)

const none = -1

// Queue is a bucket priority queue for elements 0..capacity-1.
// A Queue is not safe for concurrent use.
type Queue struct {
	opts    Options
	minCost float64
	maxCost float64
	base    int // floor(minCost/BucketSize)

	head   []int // first element of each bucket ring, none if empty
	next   []int
	prev   []int
	bucket []int // ring index of each element, none if not linked
	state  []State

	length int // number of INSERTED elements
	cursor int // no non-empty bucket lies before it in pop order
}

// New builds a queue for capacity elements whose costs lie in
// [minCost, maxCost]. The number of buckets is
// floor(maxCost/size) - floor(minCost/size) + 1.
//
// Returns ErrRange for a malformed interval or one needing more than
// MaxBuckets buckets, ErrBadBucketSize for an invalid bucket size, and
// ErrElementIndex for a negative capacity.
//
// Complexity: O(capacity + buckets).
func New(capacity int, minCost, maxCost float64, opts ...Option) (*Queue, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrElementIndex, capacity)
	}
	if !finite(minCost) || !finite(maxCost) || minCost > maxCost {
		return nil, fmt.Errorf("%w: interval [%v, %v]", ErrRange, minCost, maxCost)
	}
	lo := math.Floor(minCost / o.BucketSize)
	hi := math.Floor(maxCost / o.BucketSize)
	if hi-lo+1 > MaxBuckets {
		return nil, fmt.Errorf("%w: [%v, %v] needs %.0f buckets of size %v (max %d)",
			ErrRange, minCost, maxCost, hi-lo+1, o.BucketSize, MaxBuckets)
	}
	buckets := int(hi-lo) + 1

	q := &Queue{
		opts:    o,
		minCost: minCost,
		maxCost: maxCost,
		base:    int(lo),
		head:    make([]int, buckets),
		next:    make([]int, capacity),
		prev:    make([]int, capacity),
		bucket:  make([]int, capacity),
		state:   make([]State, capacity),
	}
	q.Reset()

	return q, nil
}

// Reset empties the queue and returns every element to NotVisited.
func (q *Queue) Reset() {
	for b := range q.head {
		q.head[b] = none
	}
	for e := range q.bucket {
		q.bucket[e] = none
		q.state[e] = NotVisited
	}
	q.length = 0
	q.cursor = q.restCursor()
}

// Insert places a NotVisited element in the bucket for cost and marks it
// Inserted.
// Complexity: O(1).
func (q *Queue) Insert(elem int, cost float64) error {
	if err := q.checkElem(elem); err != nil {
		return err
	}
	if q.state[elem] != NotVisited {
		return fmt.Errorf("%w: insert of element %d in state %s", ErrInvalidState, elem, q.state[elem])
	}
	b, err := q.ring(cost)
	if err != nil {
		return fmt.Errorf("insert of element %d: %w", elem, err)
	}
	q.link(elem, b)
	q.state[elem] = Inserted
	q.length++

	return nil
}

// Update moves an Inserted element to the bucket for its new cost. The
// element is re-linked at the back of the destination ring even when
// the bucket does not change, exactly as a fresh insertion would be.
// Complexity: O(1).
func (q *Queue) Update(elem int, cost float64) error {
	if err := q.checkElem(elem); err != nil {
		return err
	}
	if q.state[elem] != Inserted {
		return fmt.Errorf("%w: update of element %d in state %s", ErrInvalidState, elem, q.state[elem])
	}
	b, err := q.ring(cost)
	if err != nil {
		return fmt.Errorf("update of element %d: %w", elem, err)
	}
	q.unlink(elem)
	q.link(elem, b)

	return nil
}

// Pop removes and returns an element from the lowest (Minimum) or
// highest (Maximum) non-empty bucket, choosing within the bucket by the
// configured TieBreak. The element becomes Removed.
//
// Returns ErrEmptyQueue when nothing is Inserted, and ErrInvalidState if
// the chosen element is not Inserted (a corrupted ring).
// Complexity: O(1) amortized for monotone workloads, O(buckets) worst case.
func (q *Queue) Pop() (int, error) {
	if q.length == 0 {
		return none, ErrEmptyQueue
	}
	if q.opts.Order == Maximum {
		for q.cursor >= 0 && q.head[q.cursor] == none {
			q.cursor--
		}
	} else {
		for q.cursor < len(q.head) && q.head[q.cursor] == none {
			q.cursor++
		}
	}
	if q.cursor < 0 || q.cursor >= len(q.head) {
		return none, fmt.Errorf("%w: %d elements counted but every bucket is empty", ErrInvalidState, q.length)
	}

	elem := q.head[q.cursor]
	if q.opts.TieBreak == LIFO {
		elem = q.prev[elem]
	}
	if q.state[elem] != Inserted {
		return none, fmt.Errorf("%w: popped element %d in state %s", ErrInvalidState, elem, q.state[elem])
	}
	q.unlink(elem)
	q.state[elem] = Removed
	q.length--

	return elem, nil
}

// State returns the life-cycle stage of elem.
func (q *Queue) State(elem int) State { return q.state[elem] }

// Bucket returns floor(cost/BucketSize) of the ring holding elem, and
// false when elem is not Inserted.
func (q *Queue) Bucket(elem int) (int, bool) {
	if q.bucket[elem] == none {
		return 0, false
	}

	return q.base + q.bucket[elem], true
}

// BucketOf returns floor(cost/BucketSize), the bucket number cost maps to.
func (q *Queue) BucketOf(cost float64) int {
	return int(math.Floor(cost / q.opts.BucketSize))
}

// Len returns the number of Inserted elements.
func (q *Queue) Len() int { return q.length }

// Empty reports whether no element is Inserted.
func (q *Queue) Empty() bool { return q.length == 0 }

// Buckets returns the number of buckets.
func (q *Queue) Buckets() int { return len(q.head) }

// Capacity returns the number of addressable elements.
func (q *Queue) Capacity() int { return len(q.state) }

// BucketSize returns the configured bucket span.
func (q *Queue) BucketSize() float64 { return q.opts.BucketSize }

// Order returns the configured pop order.
func (q *Queue) Order() Order { return q.opts.Order }

// ring validates cost and returns the index of its bucket ring.
func (q *Queue) ring(cost float64) (int, error) {
	if !finite(cost) || cost < q.minCost || cost > q.maxCost {
		return none, fmt.Errorf("%w: %v not in [%v, %v]", ErrRange, cost, q.minCost, q.maxCost)
	}
	b := q.BucketOf(cost) - q.base
	// Guard against rounding at the interval edges.
	if b < 0 {
		b = 0
	} else if b >= len(q.head) {
		b = len(q.head) - 1
	}

	return b, nil
}

// link appends elem at the back of ring b and moves the cursor if b now
// precedes it in pop order.
func (q *Queue) link(elem, b int) {
	h := q.head[b]
	if h == none {
		q.head[b] = elem
		q.next[elem] = elem
		q.prev[elem] = elem
	} else {
		tail := q.prev[h]
		q.next[tail] = elem
		q.prev[elem] = tail
		q.next[elem] = h
		q.prev[h] = elem
	}
	q.bucket[elem] = b

	if q.opts.Order == Maximum {
		if b > q.cursor {
			q.cursor = b
		}
	} else if b < q.cursor {
		q.cursor = b
	}
}

// unlink detaches elem from its ring.
func (q *Queue) unlink(elem int) {
	b := q.bucket[elem]
	if q.next[elem] == elem {
		q.head[b] = none
	} else {
		q.next[q.prev[elem]] = q.next[elem]
		q.prev[q.next[elem]] = q.prev[elem]
		if q.head[b] == elem {
			q.head[b] = q.next[elem]
		}
	}
	q.bucket[elem] = none
}

func (q *Queue) restCursor() int {
	if q.opts.Order == Maximum {
		return -1
	}

	return len(q.head)
}

func (q *Queue) checkElem(elem int) error {
	if elem < 0 || elem >= len(q.state) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrElementIndex, elem, len(q.state))
	}

	return nil
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
