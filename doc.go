// Package foresting is an image foresting transform toolkit: optimum-path
// forests over pixel graphs of any dimensionality, computed with a bucket
// priority queue and pluggable path-cost functions.
//
// What is in the box?
//
//	pixel/        shapes, float and integer images, ball adjacencies,
//	              neighbour iteration, image decoding and resampling
//	bucketqueue/  bucket priority queue with FIFO/LIFO rings and
//	              minimum or maximum ordering
//	pathfunc/     the path-function contract and its variants:
//	              MaxCost, OrientedIntern, Watershed
//	ift/          the Transform driver, run options, TOML configuration
//	              and result helpers (roots, paths)
//
// Quick start:
//
//	relief, _, _ := pixel.Decode(f)
//	adj, _ := pixel.Circular(1.5)
//	pf, _ := pathfunc.NewWatershed(relief)
//	res, err := ift.Transform(pf, relief.Shape(), adj, ift.WithSequentialLabel())
//
// Every run is single-threaded and owns its state; independent runs may
// proceed in parallel. Errors are sentinel values wrapped with context and
// are reported before any map is written.
//
// See examples/ for a runnable terrain walkthrough.
package foresting
