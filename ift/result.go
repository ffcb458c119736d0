package ift

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/foresting/pathfunc"
	"github.com/katalvlaran/foresting/pixel"
)

// Result holds the outcome of a Transform run:
//   - Value: final path value of each node (seed sentinel if never reached).
//   - Label: final label of each node, nil when the run had no label map.
//   - Predecessor: the node each one was conquered from, or
//     pathfunc.NoPredecessor for roots and unreached nodes.
//   - Iterations: number of nodes popped.
//   - Truncated: MaxIterations stopped the run before the queue drained.
//   - RunID: identifier carried by every log event of the run.
type Result struct {
	Shape       pixel.Shape
	Value       []float64
	Label       []int
	Predecessor []int
	Iterations  int
	Truncated   bool
	RunID       uuid.UUID

	finalized []bool
}

// Reached reports whether index was popped (finalized) during the run.
func (r *Result) Reached(index int) bool {
	return index >= 0 && index < len(r.finalized) && r.finalized[index]
}

// Roots returns, in index order, the finalized nodes without predecessor.
func (r *Result) Roots() []int {
	var roots []int
	for i, p := range r.Predecessor {
		if p == pathfunc.NoPredecessor && r.finalized[i] {
			roots = append(roots, i)
		}
	}

	return roots
}

// PathTo reconstructs the path from the root of index's tree to index.
// Returns ErrIndexOutOfRange or ErrNotReached when there is no such path.
func (r *Result) PathTo(index int) ([]int, error) {
	if index < 0 || index >= len(r.Predecessor) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(r.Predecessor))
	}
	if !r.finalized[index] {
		return nil, fmt.Errorf("%w: %d", ErrNotReached, index)
	}
	// build reversed path; a forest path never repeats a node
	path := []int{}
	for cur := index; cur != pathfunc.NoPredecessor; cur = r.Predecessor[cur] {
		if len(path) == len(r.Predecessor) {
			return nil, fmt.Errorf("%w: predecessor cycle through %d", ErrBrokenForest, index)
		}
		path = append(path, cur)
	}
	// reverse to get root → index
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
