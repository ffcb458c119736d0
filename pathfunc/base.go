package pathfunc

import (
	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/pixel"
)

// base carries what every variant shares: the bound run arena, the bucket
// size and the cost bounds computed at Initialize.
type base struct {
	maps       *Maps
	bucketSize float64
	lo, hi     float64
}

// bind attaches m and resets the per-run attributes. Callers validate
// before calling bind, so bind itself never fails.
func (b *base) bind(m *Maps, sequentialLabel bool) {
	b.maps = m
	for i := range m.Predecessor {
		m.Predecessor[i] = NoPredecessor
	}
	if sequentialLabel {
		for i := range m.Label {
			m.Label[i] = 0
		}
		m.nextLabel = 1
	}
}

// isRoot reports whether index was never conquered by a propagation.
func (b *base) isRoot(index int, state bucketqueue.State) bool {
	if state != bucketqueue.Inserted {
		return false
	}

	return b.maps.Predecessor == nil || b.maps.Predecessor[index] == NoPredecessor
}

// RemoveSimple lets every popped node propagate.
func (b *base) RemoveSimple(int, bucketqueue.State) bool { return true }

// RemoveLabel gives a popped root the next label of the run.
func (b *base) RemoveLabel(index int, state bucketqueue.State) bool {
	if b.maps.Label != nil && b.isRoot(index, state) {
		b.maps.Label[index] = b.maps.NextLabel()
	}

	return true
}

// BucketSize returns the configured bucket span.
func (b *base) BucketSize() float64 { return b.bucketSize }

// Range returns the bounds computed at Initialize.
func (b *base) Range() (float64, float64) { return b.lo, b.hi }

// valueBounds returns the finite min and max of the bound value map.
func (b *base) valueBounds() (float64, float64) {
	im, err := pixel.ImageFromSlice(b.maps.Value, b.maps.Shape...)
	if err != nil {
		return 0, 0
	}

	return im.Min(), im.Max()
}
