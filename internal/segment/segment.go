// Package segment removes noisy sensor readings by keeping only contiguous
// runs of samples whose consecutive differences stay within a threshold.
package segment

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks parameters or values outside the filter's contract.
var ErrInvalidInput = errors.New("invalid input")

// Params controls segmentation.
type Params struct {
	// Threshold is the largest allowed absolute difference between
	// consecutive readings that still keeps them in one segment.
	Threshold float64
	// MinLength is the smallest segment retained in the output.
	MinLength int
}

// DefaultParams matches the thresholds used for the barn depth sensors.
func DefaultParams() Params {
	return Params{Threshold: 3, MinLength: 4}
}

// Validate reports whether p is usable. Filter itself never fails; callers
// check parameters once at the boundary.
func (p Params) Validate() error {
	if math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) || p.Threshold < 0 {
		return fmt.Errorf("%w: threshold must be a finite number >= 0, got %v", ErrInvalidInput, p.Threshold)
	}
	if p.MinLength < 1 {
		return fmt.Errorf("%w: min segment length must be >= 1, got %d", ErrInvalidInput, p.MinLength)
	}
	return nil
}

// Reading is one retained sample.
type Reading struct {
	Index  int // position in the filtered output
	Source int // position in the input sequence
	Value  float64
}

// Segment is an inclusive range of input positions.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of positions in s.
func (s Segment) Len() int { return s.End - s.Start + 1 }

// Split partitions values into maximal runs where every adjacent pair differs
// by at most threshold. A NaN never satisfies the comparison and so always
// sits in a run of its own.
func Split(values []float64, threshold float64) []Segment {
	if len(values) == 0 {
		return nil
	}
	var segs []Segment
	cur := Segment{Start: 0, End: 0}
	for i := 0; i < len(values)-1; i++ {
		if math.Abs(values[i+1]-values[i]) <= threshold {
			cur.End = i + 1
			continue
		}
		segs = append(segs, cur)
		cur = Segment{Start: i + 1, End: i + 1}
	}
	return append(segs, cur)
}

// Keep returns the segments with at least minLength positions, in order.
func Keep(segs []Segment, minLength int) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.Len() >= minLength {
			out = append(out, s)
		}
	}
	return out
}

// Filter returns the readings belonging to segments of at least p.MinLength
// samples, in input order and renumbered from zero. values is not modified.
func Filter(values []float64, p Params) []Reading {
	kept := Keep(Split(values, p.Threshold), p.MinLength)
	if len(kept) == 0 {
		return []Reading{}
	}
	n := 0
	for _, s := range kept {
		n += s.Len()
	}
	out := make([]Reading, 0, n)
	// segments come out of Split ascending and disjoint
	for _, s := range kept {
		for pos := s.Start; pos <= s.End; pos++ {
			out = append(out, Reading{Index: len(out), Source: pos, Value: values[pos]})
		}
	}
	return out
}

// Values extracts the values of rs.
func Values(rs []Reading) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Value
	}
	return out
}

// Sources extracts the input positions of rs.
func Sources(rs []Reading) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Source
	}
	return out
}
