/*
NAME
  fir.go

DESCRIPTION
  fir.go implements the symmetric odd-tap FIR kernel used by the chroma
  decoder and composite encoder: a block Apply over a whole line, which is
  the path every caller in the repository uses (the NR coring paths offset
  its output read by N/2 themselves). It also provides a streaming Feed
  variant that keeps a tapped-delay history of length N, and FastConvolve,
  an FFT-based linear convolution (github.com/mjibson/go-dsp/fft); neither
  of these has a caller in the repository.

  Grounded on codec/pcm/filters.go's SelectiveFrequencyFilter, generalised
  from "filter a PCM buffer" to "filter one video line, or one streaming
  sample at a time".

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package dsp provides the generic FIR/IIR filter kernels shared by the
// chroma decoder and composite encoder.
package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FIR is a symmetric odd-tap real-coefficient filter with a fixed
// coefficient vector of length N (N odd).
type FIR struct {
	Coeffs []float64

	// history is the streaming tapped-delay line used by Feed; it always
	// holds len(Coeffs) most-recent input samples, most recent last.
	history []float64
}

// NewFIR returns a FIR with the given (odd-length) coefficient vector.
func NewFIR(coeffs []float64) *FIR {
	return &FIR{Coeffs: coeffs, history: make([]float64, len(coeffs))}
}

// Delay returns N/2, the number of samples the streaming Feed path lags the
// centre of the window by.
func (f *FIR) Delay() int { return len(f.Coeffs) / 2 }

// Apply filters input (a line of n samples) into output, treating samples
// outside [0,n) as zero. output may alias input's backing array only if the
// caller has copied input to a scratch buffer first — Apply does not do
// this copy itself, matching spec's "must support in-place when the
// implementation copies to a scratch buffer" (the copy is the caller's
// responsibility).
func (f *FIR) Apply(input []float64, output []float64, n int) {
	half := len(f.Coeffs) / 2
	for i := 0; i < n; i++ {
		var sum float64
		for j, c := range f.Coeffs {
			idx := i - half + j
			if idx < 0 || idx >= n {
				continue
			}
			sum += c * input[idx]
		}
		output[i] = sum
	}
}

// Reset clears the streaming history.
func (f *FIR) Reset() {
	for i := range f.history {
		f.history[i] = 0
	}
}

// Feed pushes one sample through the streaming tapped-delay line and
// returns the symmetric-centered output. The caller is responsible for
// accounting for the Delay() samples of latency this introduces.
func (f *FIR) Feed(x float64) float64 {
	copy(f.history, f.history[1:])
	f.history[len(f.history)-1] = x

	var sum float64
	for j, c := range f.Coeffs {
		sum += c * f.history[j]
	}
	return sum
}

// FastConvolve computes the linear convolution of x and h via FFT, in
// O(n log n) time. Grounded on codec/pcm/filters.go's fastConvolve.
func FastConvolve(x, h []float64) []float64 {
	convLen := len(x) + len(h) - 1
	padLen := 1
	for padLen < convLen {
		padLen *= 2
	}

	xPad := make([]float64, padLen)
	copy(xPad, x)
	hPad := make([]float64, padLen)
	copy(hPad, h)

	xFFT := fft.FFTReal(xPad)
	hFFT := fft.FFTReal(hPad)

	yFFT := make([]complex128, padLen)
	for i := range xFFT {
		yFFT[i] = xFFT[i] * hFFT[i]
	}

	iy := fft.IFFT(yFFT)
	y := make([]float64, convLen)
	for i := range y {
		y[i] = real(iy[i])
	}
	return y
}

// LowPassCoeffs returns a sinc lowpass FIR of taps+1 coefficients (an even
// taps gives an odd-length, symmetric filter) for cutoff fc Hz at
// sampleRate Hz; no window is applied. Grounded on codec/pcm/filters.go's
// newLoHiFilter lowpass branch.
func LowPassCoeffs(fc, sampleRate float64, taps int) []float64 {
	size := taps + 1
	coeffs := make([]float64, size)
	fd := fc / sampleRate
	b := 2 * math.Pi * fd
	for n := 0; n < taps/2; n++ {
		c := float64(n) - float64(taps)/2
		y := math.Sin(c*b) / (math.Pi * c)
		coeffs[n] = y
		coeffs[size-1-n] = coeffs[n]
	}
	coeffs[taps/2] = 2 * fd
	return coeffs
}
