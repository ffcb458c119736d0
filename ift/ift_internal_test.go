package ift

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pathfunc"
	"github.com/katalvlaran/foresting/pixel"
)

// brokenRing fails every Pop the way a queue with a corrupted ring does.
type brokenRing struct{ *bucketqueue.Queue }

func (brokenRing) Pop() (int, error) {
	return -1, fmt.Errorf("%w: ring holds a removed element", bucketqueue.ErrInvalidState)
}

// lineRunner prepares a runner over a 3-node line seeded at every node,
// stopping just before the main loop.
func lineRunner(t *testing.T) *runner {
	t.Helper()
	pf, err := pathfunc.NewMaxCost(nil)
	require.NoError(t, err)
	adj, err := pixel.Ball(1, 1)
	require.NoError(t, err)
	it, err := adj.Iterator(pixel.Shape{3})
	require.NoError(t, err)

	r := &runner{
		pf:        pf,
		options:   DefaultOptions(),
		it:        it,
		finalized: make([]bool, 3),
		neighbors: make([]int, 0, adj.NeighborCount()),
	}
	r.log = r.options.Logger
	r.maps = r.arena(pixel.Shape{3}, 3)
	require.NoError(t, pf.Initialize(r.maps, false))
	require.NoError(t, r.init(3))
	require.Equal(t, 3, r.queue.Len())

	return r
}

func TestProcess_FinalizedNodePoppedAgain(t *testing.T) {
	r := lineRunner(t)
	// FIFO over equal seeds pops node 0 first.
	r.finalized[0] = true

	err := r.process()
	require.ErrorIs(t, err, ErrNodeRemovedTwice)
	require.Zero(t, r.iterations)
}

func TestProcess_QueueInvalidState(t *testing.T) {
	r := lineRunner(t)
	q, ok := r.queue.(*bucketqueue.Queue)
	require.True(t, ok)
	r.queue = brokenRing{q}

	err := r.process()
	require.ErrorIs(t, err, ErrNodeRemovedTwice)
	require.NotErrorIs(t, err, bucketqueue.ErrInvalidState, "the queue error is reported as text only")
	require.Contains(t, err.Error(), "ring holds a removed element")
	require.Zero(t, r.iterations)
}

func TestProcess_Drains(t *testing.T) {
	r := lineRunner(t)
	require.NoError(t, r.process())
	require.Equal(t, 3, r.iterations)
	require.Equal(t, []bool{true, true, true}, r.finalized)
	require.True(t, r.queue.Empty())
}
