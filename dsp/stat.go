/*
NAME
  stat.go

DESCRIPTION
  stat.go provides Mean and Median reducers over []float64, grounded on
  cmd/rv/probe.go's use of gonum.org/v1/gonum/stat for streaming statistics.
  No package in the repository calls them; the stacker's combination modes
  use their own uint16 median/mean in stacker/combine.go.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package dsp

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Median returns the median of xs, computed on a sorted scratch copy; the
// caller's slice is left untouched.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cpy := append([]float64(nil), xs...)
	sort.Float64s(cpy)
	return stat.Quantile(0.5, stat.Empirical, cpy, nil)
}
