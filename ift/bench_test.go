package ift_test

import (
	"testing"

	"github.com/katalvlaran/foresting/ift"
	"github.com/katalvlaran/foresting/pathfunc"
)

// BenchmarkTransform_Watershed floods a 256×256 random relief (8-adjacency).
func BenchmarkTransform_Watershed(b *testing.B) {
	relief := randomRelief(b, 1, 256, 256)
	adj := circular(b, 1.5)
	pf, err := pathfunc.NewWatershed(relief)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(relief.Size()))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ift.Transform(pf, relief.Shape(), adj, ift.WithSequentialLabel())
	}
}

// BenchmarkTransform_MaxCost runs the maximum-cost function on the same
// relief with 4-adjacency.
func BenchmarkTransform_MaxCost(b *testing.B) {
	relief := randomRelief(b, 2, 256, 256)
	adj := circular(b, 1)
	pf, err := pathfunc.NewMaxCost(relief)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(relief.Size()))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ift.Transform(pf, relief.Shape(), adj)
	}
}
