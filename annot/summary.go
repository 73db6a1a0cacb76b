// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package annot

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A Summary is a summary of the values
// of a set of results.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Summarize returns the summary of a set of results.
func Summarize(res Results) Summary {
	if len(res) == 0 {
		return Summary{}
	}

	vals := make([]float64, 0, len(res))
	for _, v := range res {
		vals = append(vals, v)
	}
	slices.Sort(vals)

	return Summary{
		N:      len(vals),
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Mean:   stat.Mean(vals, nil),
		Median: stat.Quantile(0.5, stat.Empirical, vals, nil),
	}
}
