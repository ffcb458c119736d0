package ift_test

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/foresting/bucketqueue"
	"github.com/katalvlaran/foresting/ift"
	"github.com/katalvlaran/foresting/pathfunc"
	"github.com/katalvlaran/foresting/pixel"
)

var inf = math.Inf(1)

func image(t testing.TB, data []float64, dims ...int) *pixel.Image {
	t.Helper()
	im, err := pixel.ImageFromSlice(data, dims...)
	require.NoError(t, err)

	return im
}

func linear(t testing.TB) *pixel.Adjacency {
	t.Helper()
	adj, err := pixel.Ball(1, 1)
	require.NoError(t, err)

	return adj
}

func circular(t testing.TB, r float64) *pixel.Adjacency {
	t.Helper()
	adj, err := pixel.Circular(r)
	require.NoError(t, err)

	return adj
}

// ------------------------------------------------------------------------
// 1. Scenarios
// ------------------------------------------------------------------------

// TestTransform_MaxCostLine grows the strongest seed of a 5-node line.
func TestTransform_MaxCostLine(t *testing.T) {
	pf, err := pathfunc.NewMaxCost(image(t, []float64{1, 1, 10, 1, 1}, 5))
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{5}, linear(t))
	require.NoError(t, err)

	assert.Equal(t, []float64{8, 9, 10, 9, 8}, res.Value)
	assert.Equal(t, []int{1, 2, -1, 2, 3}, res.Predecessor)
	assert.Nil(t, res.Label)
	assert.Equal(t, []int{2}, res.Roots())
	assert.Equal(t, 5, res.Iterations)
	assert.False(t, res.Truncated)

	for i := 0; i < 5; i++ {
		path, err := res.PathTo(i)
		require.NoError(t, err)
		assert.Equal(t, 2, path[0], "node %d must chain back to the seed", i)
		assert.Equal(t, i, path[len(path)-1])
	}
}

// TestTransform_MaxCostCallerSeed seeds the peak through WithInitialValue;
// unseeded nodes fall back to the handicap (or 1.0 without one).
func TestTransform_MaxCostCallerSeed(t *testing.T) {
	seed := []float64{-inf, -inf, 10, -inf, -inf}
	for name, handicap := range map[string]*pixel.Image{
		"no handicap":   nil,
		"flat handicap": image(t, []float64{1, 1, 1, 1, 1}, 5),
	} {
		t.Run(name, func(t *testing.T) {
			pf, err := pathfunc.NewMaxCost(handicap)
			require.NoError(t, err)

			res, err := ift.Transform(pf, pixel.Shape{5}, linear(t), ift.WithInitialValue(seed))
			require.NoError(t, err)
			assert.Equal(t, []float64{8, 9, 10, 9, 8}, res.Value)
			assert.Equal(t, []int{1, 2, -1, 2, 3}, res.Predecessor)
			assert.Equal(t, []int{2}, res.Roots())
		})
	}
	assert.Equal(t, -inf, seed[0], "caller slice untouched")
}

// TestTransform_MaxCostSparseHandicap leaves every node but the peak
// unseeded; the queue range must still reach the attenuated values.
func TestTransform_MaxCostSparseHandicap(t *testing.T) {
	pf, err := pathfunc.NewMaxCost(image(t, []float64{-inf, -inf, 10, -inf, -inf}, 5))
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{5}, linear(t))
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 9, 10, 9, 8}, res.Value)
	assert.Equal(t, []int{1, 2, -1, 2, 3}, res.Predecessor)
	assert.Equal(t, []int{2}, res.Roots())
	assert.Equal(t, 5, res.Iterations)
}

// orientedGrid runs the oriented path function on a 3×3 grid whose centre
// is darker than its ring, seeded at the top (1) and bottom (7) middles.
func orientedGrid(t *testing.T, topLabel, bottomLabel int) *ift.Result {
	t.Helper()
	handicap := image(t, []float64{2, 2, 2, 2, 2, 2, 2, 2, 2}, 3, 3)
	intensity := image(t, []float64{2, 2, 2, 2, 1, 2, 2, 2, 2}, 3, 3)
	pf, err := pathfunc.NewOrientedIntern(handicap, intensity, nil, 0.5)
	require.NoError(t, err)

	seeds := []float64{inf, 0, inf, inf, inf, inf, inf, 0, inf}
	labels := []int{0, topLabel, 0, 0, 0, 0, 0, bottomLabel, 0}
	res, err := ift.Transform(pf, pixel.Shape{3, 3}, circular(t, 1),
		ift.WithInitialValue(seeds),
		ift.WithLabels(labels),
	)
	require.NoError(t, err)

	return res
}

// TestTransform_OrientedInternBias checks the orientation sign flip: a
// labelled source pays less than a background source to descend into the
// darker centre, so the labelled seed takes it from either side.
func TestTransform_OrientedInternBias(t *testing.T) {
	t.Run("labelled top", func(t *testing.T) {
		res := orientedGrid(t, 1, 0)
		assert.Equal(t, []int{
			1, 1, 1,
			1, 1, 1,
			0, 0, 0,
		}, res.Label)
		assert.Equal(t, []float64{6, 0, 6, 6, 4, 6, 6, 0, 6}, res.Value)
		assert.Equal(t, []int{1, -1, 1, 0, 1, 2, 7, -1, 7}, res.Predecessor)
	})
	t.Run("labelled bottom", func(t *testing.T) {
		res := orientedGrid(t, 0, 1)
		assert.Equal(t, []int{
			0, 0, 0,
			0, 1, 0,
			1, 1, 1,
		}, res.Label)
		assert.Equal(t, []float64{6, 0, 6, 6, 4, 6, 6, 0, 6}, res.Value)
		assert.Equal(t, []int{1, -1, 1, 0, 7, 2, 7, -1, 7}, res.Predecessor)
	})
}

func TestTransform_WatershedSequential(t *testing.T) {
	pf, err := pathfunc.NewWatershed(image(t, []float64{3, 1, 4, 1, 5}, 5))
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{5}, linear(t), ift.WithSequentialLabel())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 2, 2}, res.Label)
	assert.Equal(t, []float64{3, 1, 4, 1, 5}, res.Value)
	assert.Equal(t, []int{1, -1, 1, -1, 3}, res.Predecessor)
	assert.Equal(t, []int{1, 3}, res.Roots())
}

func TestTransform_WatershedMarkers(t *testing.T) {
	pf, err := pathfunc.NewWatershed(image(t, []float64{3, 1, 4, 1, 5}, 5))
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{5}, linear(t), ift.WithLabels([]int{1, 0, 0, 0, 2}))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 1, 2}, res.Label)
	assert.Equal(t, []float64{3, 3, 4, 4, 5}, res.Value)
	assert.Equal(t, []int{0, 4}, res.Roots())
}

// ------------------------------------------------------------------------
// 2. Properties
// ------------------------------------------------------------------------

func randomRelief(t testing.TB, seed int64, w, h int) *pixel.Image {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, w*h)
	for i := range data {
		data[i] = float64(rng.Intn(32))
	}

	return image(t, data, w, h)
}

func TestTransform_MonotoneAndSingleFinalization(t *testing.T) {
	relief := randomRelief(t, 7, 12, 9)
	adj := circular(t, 1.5)

	cases := []struct {
		name    string
		pf      func() pathfunc.PathFunction
		opts    []ift.Option
		improve func(before, after float64) bool
	}{
		{
			name: "watershed",
			pf: func() pathfunc.PathFunction {
				f, err := pathfunc.NewWatershed(relief)
				require.NoError(t, err)
				return f
			},
			opts:    []ift.Option{ift.WithSequentialLabel()},
			improve: func(b, a float64) bool { return a < b },
		},
		{
			name: "max cost",
			pf: func() pathfunc.PathFunction {
				f, err := pathfunc.NewMaxCost(relief)
				require.NoError(t, err)
				return f
			},
			improve: func(b, a float64) bool { return a > b },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			removed := make(map[int]int)
			accepted := 0
			opts := append([]ift.Option{
				ift.WithOnRemove(func(i int, _ float64) { removed[i]++ }),
				ift.WithOnPropagate(func(from, to int, before, after float64) {
					accepted++
					assert.True(t, tc.improve(before, after), "%d→%d: %v then %v", from, to, before, after)
				}),
			}, tc.opts...)

			res, err := ift.Transform(tc.pf(), relief.Shape(), adj, opts...)
			require.NoError(t, err)
			require.Positive(t, accepted)

			assert.Len(t, removed, relief.Size())
			for i, n := range removed {
				assert.Equal(t, 1, n, "node %d removed %d times", i, n)
			}
			assert.Equal(t, relief.Size(), res.Iterations)

			// Forest validity: every path ends at a root.
			for i := range res.Predecessor {
				path, err := res.PathTo(i)
				require.NoError(t, err)
				assert.Equal(t, pathfunc.NoPredecessor, res.Predecessor[path[0]])
			}
		})
	}
}

func TestTransform_Deterministic(t *testing.T) {
	relief := randomRelief(t, 42, 16, 16)
	adj := circular(t, 1.5)
	run := func() *ift.Result {
		pf, err := pathfunc.NewWatershed(relief)
		require.NoError(t, err)
		res, err := ift.Transform(pf, relief.Shape(), adj, ift.WithSequentialLabel())
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a.Value, b.Value)
	assert.Equal(t, a.Label, b.Label)
	assert.Equal(t, a.Predecessor, b.Predecessor)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestTransform_TieBreak(t *testing.T) {
	relief := image(t, []float64{0, 0, 0}, 3)
	roots := func(tie bucketqueue.TieBreak) []int {
		pf, err := pathfunc.NewWatershed(relief)
		require.NoError(t, err)
		res, err := ift.Transform(pf, pixel.Shape{3}, linear(t), ift.WithSequentialLabel(), ift.WithTieBreak(tie))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 1, 1}, res.Label)
		return res.Roots()
	}

	assert.Equal(t, []int{0}, roots(bucketqueue.FIFO))
	assert.Equal(t, []int{2}, roots(bucketqueue.LIFO))
}

func TestTransform_Mask(t *testing.T) {
	pf, err := pathfunc.NewMaxCost(image(t, []float64{1, 1, 10, 1, 1}, 5))
	require.NoError(t, err)
	mask, err := pixel.IntMapFromSlice([]int{1, 1, 1, 0, 1}, 5)
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{5}, linear(t), ift.WithMask(mask))
	require.NoError(t, err)

	assert.Equal(t, []float64{8, 9, 10, 1, 1}, res.Value)
	assert.Equal(t, []int{1, 2, -1, -1, -1}, res.Predecessor)
	assert.False(t, res.Reached(3))
	assert.Equal(t, []int{2, 4}, res.Roots())
	_, err = res.PathTo(3)
	require.ErrorIs(t, err, ift.ErrNotReached)
	_, err = res.PathTo(9)
	require.ErrorIs(t, err, ift.ErrIndexOutOfRange)
}

func TestTransform_MaxIterations(t *testing.T) {
	pf, err := pathfunc.NewMaxCost(image(t, []float64{1, 1, 10, 1, 1}, 5))
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{5}, linear(t), ift.WithMaxIterations(2))
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, []float64{8, 9, 10, 9, 1}, res.Value)
	assert.True(t, res.Reached(1))
	assert.False(t, res.Reached(3))
}

func TestTransform_LogsRunID(t *testing.T) {
	var buf bytes.Buffer
	pf, err := pathfunc.NewMaxCost(nil)
	require.NoError(t, err)

	res, err := ift.Transform(pf, pixel.Shape{4}, linear(t), ift.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"run_id":"`+res.RunID.String()+`"`)
	assert.Contains(t, out, "transform started")
	assert.Contains(t, out, "transform finished")
}

// ------------------------------------------------------------------------
// 3. Errors
// ------------------------------------------------------------------------

func TestTransform_Errors(t *testing.T) {
	maxCost, err := pathfunc.NewMaxCost(nil)
	require.NoError(t, err)
	oriented, err := pathfunc.NewOrientedIntern(
		image(t, []float64{1, 1, 1}, 3), image(t, []float64{0, 0, 0}, 3), nil, 0.5)
	require.NoError(t, err)
	wrongMask, err := pixel.IntMapFromSlice([]int{1, 1}, 2)
	require.NoError(t, err)
	shape := pixel.Shape{3}

	cases := []struct {
		name string
		pf   pathfunc.PathFunction
		adj  *pixel.Adjacency
		opts []ift.Option
		want error
	}{
		{"nil path function", nil, linear(t), nil, ift.ErrNilPathFunction},
		{"nil adjacency", maxCost, nil, nil, ift.ErrNilAdjacency},
		{"negative bound", maxCost, linear(t), []ift.Option{ift.WithMaxIterations(-1)}, ift.ErrOptionViolation},
		{"nil mask", maxCost, linear(t), []ift.Option{ift.WithMask(nil)}, ift.ErrOptionViolation},
		{"bad tie-break", maxCost, linear(t), []ift.Option{ift.WithTieBreak(9)}, ift.ErrOptionViolation},
		{"short initial values", maxCost, linear(t), []ift.Option{ift.WithInitialValue([]float64{1})}, ift.ErrOptionViolation},
		{"short labels", maxCost, linear(t), []ift.Option{ift.WithLabels([]int{1})}, ift.ErrOptionViolation},
		{"mask shape", maxCost, linear(t), []ift.Option{ift.WithMask(wrongMask)}, ift.ErrOptionViolation},
		{"adjacency dims", maxCost, circular(t, 1), nil, pixel.ErrDimensionMismatch},
		{"label map required", oriented, linear(t), []ift.Option{ift.WithInitialValue([]float64{0, inf, inf})}, pathfunc.ErrLabelMapRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ift.Transform(tc.pf, shape, tc.adj, tc.opts...)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, res)
		})
	}
}

func TestTransform_CallerSlicesUntouched(t *testing.T) {
	pf, err := pathfunc.NewWatershed(image(t, []float64{3, 1, 4}, 3))
	require.NoError(t, err)
	seeds := []float64{0, inf, inf}
	labels := []int{4, 0, 0}

	_, err = ift.Transform(pf, pixel.Shape{3}, linear(t),
		ift.WithInitialValue(seeds), ift.WithLabels(labels), ift.WithSequentialLabel())
	require.NoError(t, err)

	assert.Equal(t, []float64{0, inf, inf}, seeds)
	assert.Equal(t, []int{4, 0, 0}, labels)
}
