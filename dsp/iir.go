/*
NAME
  iir.go

DESCRIPTION
  iir.go implements a general biquad-chain IIR filter: normalized b[]/a[]
  coefficients, direct-form-I feed(x) -> y with per-filter history
  initialised to zero.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package dsp

// IIR is a direct-form-I biquad-chain filter with normalized coefficients.
type IIR struct {
	B, A []float64 // A[0] is assumed to be 1 (normalized).

	x, y []float64 // Input/output history, most recent last.
}

// NewIIR returns an IIR filter for the given normalized b/a coefficients.
// Initial history is zero.
func NewIIR(b, a []float64) *IIR {
	return &IIR{
		B: b, A: a,
		x: make([]float64, len(b)),
		y: make([]float64, len(a)),
	}
}

// Reset zeros the filter history.
func (f *IIR) Reset() {
	for i := range f.x {
		f.x[i] = 0
	}
	for i := range f.y {
		f.y[i] = 0
	}
}

// Feed pushes one input sample through the filter and returns the output.
func (f *IIR) Feed(x float64) float64 {
	copy(f.x, f.x[1:])
	f.x[len(f.x)-1] = x

	var out float64
	for j, b := range f.B {
		idx := len(f.x) - 1 - j
		if idx < 0 {
			continue
		}
		out += b * f.x[idx]
	}
	for j := 1; j < len(f.A); j++ {
		idx := len(f.y) - 1 - (j - 1)
		if idx < 0 {
			continue
		}
		out -= f.A[j] * f.y[idx]
	}

	copy(f.y, f.y[1:])
	if len(f.y) > 0 {
		f.y[len(f.y)-1] = out
	}
	return out
}

// FeedAll runs a whole buffer through the filter in order, without
// resetting history first.
func (f *IIR) FeedAll(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = f.Feed(x)
	}
	return out
}
