package segment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisySeries produces plateaus with occasional spikes, like a depth sensor
// that loses its target for a sample or two.
func noisySeries(r *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	level := 120.0
	for i := range out {
		switch {
		case r.Float64() < 0.05:
			level += r.Float64()*40 - 20
			out[i] = level
		case r.Float64() < 0.1:
			out[i] = r.Float64() * 400
		default:
			out[i] = level + r.Float64()*4 - 2
		}
	}
	return out
}

func TestFilterProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		values := noisySeries(r, 1+r.Intn(300))
		p := Params{Threshold: float64(r.Intn(6)), MinLength: 1 + r.Intn(6)}

		out := Filter(values, p)

		// order preserved, subsequence of input, contiguous renumbering
		prev := -1
		for i, rd := range out {
			require.Equal(t, i, rd.Index)
			require.Greater(t, rd.Source, prev)
			require.Equal(t, values[rd.Source], rd.Value)
			prev = rd.Source
		}

		// exactly the kept candidate segments, no merging across dropped gaps
		var want []int
		for _, s := range Keep(Split(values, p.Threshold), p.MinLength) {
			require.GreaterOrEqual(t, s.Len(), p.MinLength)
			for pos := s.Start; pos <= s.End; pos++ {
				want = append(want, pos)
			}
		}
		if want == nil {
			want = []int{}
		}
		assert.Equal(t, want, Sources(out))

		// re-filtering is stable
		again := Filter(Values(out), p)
		assert.Equal(t, Values(out), Values(again), "trial %d not idempotent", trial)
	}
}

func TestSplitCoversEveryPositionOnce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	values := noisySeries(r, 500)
	segs := Split(values, 3)
	next := 0
	for _, s := range segs {
		require.Equal(t, next, s.Start)
		require.GreaterOrEqual(t, s.End, s.Start)
		next = s.End + 1
	}
	require.Equal(t, len(values), next)
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]float64{10, 11, 12, 50, 51, 52, 53}, Params{Threshold: 3, MinLength: 4})
	require.Len(t, sum.Segments, 2)
	assert.Equal(t, 7, sum.Total)
	assert.Equal(t, 4, sum.KeptCount)
	assert.Equal(t, 3, sum.Dropped())
	assert.Equal(t, 1, sum.KeptSegments())

	first, second := sum.Segments[0], sum.Segments[1]
	assert.False(t, first.Kept)
	assert.InDelta(t, 11.0, first.Mean, 1e-9)
	assert.InDelta(t, 1.0, first.StdDev, 1e-9)
	assert.True(t, second.Kept)
	assert.Equal(t, Segment{Start: 3, End: 6}, second.Segment)
	assert.Equal(t, 50.0, second.Min)
	assert.Equal(t, 53.0, second.Max)
}

func TestSummarizeSingleReading(t *testing.T) {
	sum := Summarize([]float64{4}, Params{Threshold: 1, MinLength: 1})
	require.Len(t, sum.Segments, 1)
	assert.Zero(t, sum.Segments[0].StdDev)
	assert.True(t, sum.Segments[0].Kept)
}
