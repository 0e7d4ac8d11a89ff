package segment

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SegmentStats describes one candidate segment.
type SegmentStats struct {
	Segment
	Kept   bool
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary describes a whole segmentation run.
type Summary struct {
	Params    Params
	Total     int
	KeptCount int // readings retained
	Segments  []SegmentStats
}

// KeptSegments counts segments meeting the length rule.
func (s Summary) KeptSegments() int {
	n := 0
	for _, seg := range s.Segments {
		if seg.Kept {
			n++
		}
	}
	return n
}

// Dropped counts readings removed by the filter.
func (s Summary) Dropped() int { return s.Total - s.KeptCount }

// Summarize segments values and reports per-segment statistics alongside the
// kept/dropped decision Filter would make.
func Summarize(values []float64, p Params) Summary {
	sum := Summary{Params: p, Total: len(values)}
	for _, seg := range Split(values, p.Threshold) {
		run := values[seg.Start : seg.End+1]
		st := SegmentStats{
			Segment: seg,
			Kept:    seg.Len() >= p.MinLength,
			Mean:    stat.Mean(run, nil),
			Min:     floats.Min(run),
			Max:     floats.Max(run),
		}
		if len(run) > 1 {
			st.StdDev = stat.StdDev(run, nil)
		}
		if st.Kept {
			sum.KeptCount += seg.Len()
		}
		sum.Segments = append(sum.Segments, st)
	}
	return sum
}
