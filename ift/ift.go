package ift

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pathfunc"
	"github.com/katalvlaran/foresting/pixel"
)

// Transform runs the image foresting transform of pf over the pixel graph
// (shape, adj) and returns the final value, label and predecessor maps.
//
// Steps:
//  1. Validate options, pf, adj and the shape of every per-run input.
//  2. Allocate the run arena, copy initial values and labels into it and
//     call pf.Initialize.
//  3. Build a bucket queue over pf.Range(), minimum-ordered unless
//     pf.Increasing(), and insert every unmasked node with a finite value
//     in index order.
//  4. Pop nodes until the queue drains (or MaxIterations is reached).
//     Each popped node goes through pf.RemoveLabel (sequential labelling)
//     or pf.RemoveSimple; if allowed, every unmasked in-bounds neighbour
//     that is not Removed is offered to Capable then Propagate. An
//     accepted propagation records the predecessor, copies the label and
//     re-buckets the neighbour.
//
// Every validation error is returned before any caller-visible state is
// produced; nothing is written to the caller's slices.
//
// Complexity:
//
//   - Time:  O(N·K + B) for N nodes, K neighbour slots and B buckets,
//     assuming monotone pops; O(N·B) worst case.
//   - Space: O(N + B).
func Transform(pf pathfunc.PathFunction, shape pixel.Shape, adj *pixel.Adjacency, opts ...Option) (*Result, error) {
	// 1) Build and validate Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if pf == nil {
		return nil, ErrNilPathFunction
	}
	if adj == nil {
		return nil, ErrNilAdjacency
	}
	it, err := adj.Iterator(shape)
	if err != nil {
		return nil, fmt.Errorf("ift: %w", err)
	}
	n := shape.Size()
	if err = checkInputs(cfg, shape, n); err != nil {
		return nil, err
	}

	// 2) Allocate the arena and let the path function seed it.
	r := &runner{
		pf:        pf,
		options:   cfg,
		it:        it,
		finalized: make([]bool, n),
		neighbors: make([]int, 0, adj.NeighborCount()),
		runID:     uuid.New(),
	}
	r.log = cfg.Logger.With().Str("run_id", r.runID.String()).Logger()
	r.maps = r.arena(shape.Clone(), n)
	if err = pf.Initialize(r.maps, cfg.SequentialLabel); err != nil {
		return nil, fmt.Errorf("ift: initialize: %w", err)
	}

	// 3) Build the queue and insert the seeds.
	if err = r.init(n); err != nil {
		return nil, err
	}

	// 4) Run the main loop.
	start := time.Now()
	if err = r.process(); err != nil {
		r.log.Error().Err(err).Int("iterations", r.iterations).Msg("transform aborted")
		return nil, err
	}
	r.log.Debug().
		Int("iterations", r.iterations).
		Bool("truncated", r.truncated).
		Dur("elapsed", time.Since(start)).
		Msg("transform finished")

	return &Result{
		Shape:       r.maps.Shape,
		Value:       r.maps.Value,
		Label:       r.maps.Label,
		Predecessor: r.maps.Predecessor,
		Iterations:  r.iterations,
		Truncated:   r.truncated,
		RunID:       r.runID,
		finalized:   r.finalized,
	}, nil
}

// checkInputs verifies that every per-run slice matches the node count.
func checkInputs(cfg Options, shape pixel.Shape, n int) error {
	if cfg.InitialValue != nil && len(cfg.InitialValue) != n {
		return fmt.Errorf("%w: %d initial values for shape %s", ErrOptionViolation, len(cfg.InitialValue), shape)
	}
	if cfg.Labels != nil && len(cfg.Labels) != n {
		return fmt.Errorf("%w: %d labels for shape %s", ErrOptionViolation, len(cfg.Labels), shape)
	}
	if cfg.Mask != nil && !cfg.Mask.Shape().Equal(shape) {
		return fmt.Errorf("%w: mask is %s, graph is %s", ErrOptionViolation, cfg.Mask.Shape(), shape)
	}

	return nil
}

// frontier is the part of the bucket queue the main loop relies on.
type frontier interface {
	Insert(elem int, cost float64) error
	Update(elem int, cost float64) error
	Pop() (int, error)
	State(elem int) bucketqueue.State
	Empty() bool
	Len() int
}

// runner holds the mutable state of a single Transform execution.
type runner struct {
	pf         pathfunc.PathFunction // strategy; bound to maps by Initialize
	options    Options               // run configuration
	it         *pixel.Iterator       // neighbour enumeration over the shape
	maps       *pathfunc.Maps        // value/label/predecessor arena
	queue      frontier              // pending nodes keyed by value
	finalized  []bool                // nodes already popped
	neighbors  []int                 // scratch buffer for Iterator.Neighbors
	iterations int                   // pops performed
	truncated  bool                  // MaxIterations stopped the run
	runID      uuid.UUID
	log        zerolog.Logger
}

// arena allocates the run's maps from the configured inputs.
func (r *runner) arena(shape pixel.Shape, n int) *pathfunc.Maps {
	value := make([]float64, n)
	if r.options.InitialValue != nil {
		copy(value, r.options.InitialValue)
	} else {
		fill := math.Inf(1)
		if r.pf.Increasing() {
			fill = math.Inf(-1)
		}
		for i := range value {
			value[i] = fill
		}
	}

	var label []int
	switch {
	case r.options.Labels != nil:
		label = make([]int, n)
		copy(label, r.options.Labels)
	case r.options.LabelMap || r.options.SequentialLabel:
		label = make([]int, n)
	}

	return pathfunc.NewMaps(shape, value, label, make([]int, n))
}

// valid reports whether index passes the mask.
func (r *runner) valid(index int) bool {
	return r.options.Mask == nil || r.options.Mask.At(index) != 0
}

// init builds the queue over the path function's range and inserts every
// valid node with a finite seed value, in index order.
func (r *runner) init(n int) error {
	lo, hi := r.pf.Range()
	order := bucketqueue.Minimum
	if r.pf.Increasing() {
		order = bucketqueue.Maximum
	}
	q, err := bucketqueue.New(n, lo, hi,
		bucketqueue.WithBucketSize(r.pf.BucketSize()),
		bucketqueue.WithOrder(order),
		bucketqueue.WithTieBreak(r.options.TieBreak),
	)
	if err != nil {
		return fmt.Errorf("ift: queue: %w", err)
	}
	r.queue = q

	seeds := 0
	for i, v := range r.maps.Value {
		if !r.valid(i) || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		if err = q.Insert(i, v); err != nil {
			return fmt.Errorf("ift: seed %d: %w", i, err)
		}
		seeds++
	}
	r.log.Debug().
		Int("nodes", n).
		Int("seeds", seeds).
		Int("buckets", q.Buckets()).
		Bool("increasing", r.pf.Increasing()).
		Msg("transform started")

	return nil
}

// process pops nodes until the queue drains or the iteration bound hits.
func (r *runner) process() error {
	bound := r.options.MaxIterations
	label := r.options.SequentialLabel && r.maps.Label != nil
	for !r.queue.Empty() {
		if bound > 0 && r.iterations >= bound {
			r.truncated = true
			r.log.Warn().Int("pending", r.queue.Len()).Msg("iteration bound reached")
			break
		}

		u, err := r.queue.Pop()
		if err != nil {
			if errors.Is(err, bucketqueue.ErrInvalidState) {
				return fmt.Errorf("%w: %v", ErrNodeRemovedTwice, err)
			}
			return fmt.Errorf("ift: pop: %w", err)
		}
		if r.finalized[u] {
			return fmt.Errorf("%w: node %d", ErrNodeRemovedTwice, u)
		}
		r.finalized[u] = true
		r.iterations++

		// The remove hooks see the state u had in the queue.
		var propagate bool
		if label {
			propagate = r.pf.RemoveLabel(u, bucketqueue.Inserted)
		} else {
			propagate = r.pf.RemoveSimple(u, bucketqueue.Inserted)
		}
		r.options.OnRemove(u, r.maps.Value[u])
		if !propagate {
			continue
		}
		if err = r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax offers the path through u to every valid neighbour that is not final.
func (r *runner) relax(u int) error {
	m := r.maps
	r.neighbors = r.it.Neighbors(u, r.neighbors)
	for _, v := range r.neighbors {
		if !r.valid(v) {
			continue
		}
		state := r.queue.State(v)
		if state == bucketqueue.Removed {
			continue
		}
		if !r.pf.Capable(u, v, state) {
			continue
		}
		before := m.Value[v]
		if !r.pf.Propagate(u, v) {
			continue
		}

		m.Predecessor[v] = u
		if m.Label != nil {
			m.Label[v] = m.Label[u]
		}

		var err error
		if state == bucketqueue.NotVisited {
			err = r.queue.Insert(v, m.Value[v])
		} else {
			err = r.queue.Update(v, m.Value[v])
		}
		if err != nil {
			return fmt.Errorf("ift: re-bucket %d: %w", v, err)
		}
		r.options.OnPropagate(u, v, before, m.Value[v])
	}

	return nil
}
