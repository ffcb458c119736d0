// Package ift implements the image foresting transform driver: it seeds a
// bucket queue from a path function's initial values, pops the extremum
// node, lets the path function finalize it and propagates to its
// neighbours until the queue drains.
//
// The result is an optimum-path forest over the pixel graph: a value, an
// optional label and a predecessor for every node. Given a fixed
// adjacency order and FIFO tie-breaking the forest is reproducible
// bit for bit.
//
// Node life cycle:
//
//	NOT_VISITED → INSERTED → REMOVED
//
// Transitions are monotone. A node leaves the queue once, and a node
// that left it is never offered to Capable or Propagate again.
//
// Options:
//
//   - WithInitialValue, WithLabels, WithLabelMap: per-run inputs.
//   - WithSequentialLabel: each root gets the next label, starting at 1.
//   - WithMask: nodes with a zero mask entry are neither seeded nor visited.
//   - WithTieBreak: FIFO (default) or LIFO among equal buckets.
//   - WithMaxIterations: external bound; the result is flagged Truncated.
//   - WithLogger: zerolog logger; every event carries the run_id.
//   - WithOnRemove, WithOnPropagate: observation hooks.
//
// A Config decoded from TOML yields the scalar options and the adjacency.
//
// Errors (sentinel):
//
//   - ErrNilPathFunction, ErrNilAdjacency: missing collaborators.
//   - ErrOptionViolation: invalid option or option data of the wrong shape.
//   - ErrNodeRemovedTwice: queue invariant violation.
//   - wrapped pathfunc, bucketqueue and pixel sentinels otherwise.
//
// Concurrency: one Transform call owns all of its state; independent
// calls may run in parallel.
//
// Example:
//
//	adj, _ := pixel.Circular(1)
//	pf, _ := pathfunc.NewWatershed(relief)
//	res, err := ift.Transform(pf, relief.Shape(), adj, ift.WithSequentialLabel())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Label)
package ift
