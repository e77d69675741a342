/*
NAME
  nr_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import (
	"math"
	"testing"
)

func sumCoeffs(c []float64) float64 {
	var s float64
	for _, v := range c {
		s += v
	}
	return s
}

// TestFilterIQLowPassScalesConstantSignalByDCGain exercises the true
// invariant of a block FIR convolution over a fully-interior window: with
// every tap inside [0,n), the output is exactly the input times the sum of
// the filter's coefficients (its DC gain), not an assumed unity gain.
func TestFilterIQLowPassScalesConstantSignalByDCGain(t *testing.T) {
	const sampleRate = 14318180.0
	iq := NewIQFrame(32, 1)
	for x := 0; x < 32; x++ {
		iq.I.Set(x, 0, 7)
		iq.Q.Set(x, 0, -3)
	}

	gain := sumCoeffs(iqLowPassCoeffs(sampleRate))
	FilterIQ(iq, sampleRate, 4, 28)

	// Apply's window for sample x spans [x-half,x+half] against an n=28
	// zero-padded boundary (half=6 for 13 taps), so only x in [6,21] sees a
	// fully interior (unpadded) window and the exact DC-gain identity.
	for x := 8; x < 22; x++ {
		if v, want := iq.I.At(x, 0), 7*gain; math.Abs(v-want) > 1e-9 {
			t.Errorf("I[%d] = %v, want %v (7 * DC gain)", x, v, want)
		}
		if v, want := iq.Q.At(x, 0), -3*gain; math.Abs(v-want) > 1e-9 {
			t.Errorf("Q[%d] = %v, want %v (-3 * DC gain)", x, v, want)
		}
	}
}

// TestDoCNRCoresConstantHighPassResponse exercises DoCNR's wiring end to
// end: the high-pass of a constant line (itself exactly the input times the
// high-pass filter's DC gain, by the same full-window convolution identity)
// is cored at cNRLevel*ireScale and subtracted from the original.
func TestDoCNRCoresConstantHighPassResponse(t *testing.T) {
	const sampleRate = 14318180.0
	const cNRLevel, ireScale = 10.0, 327.67
	iq := NewIQFrame(32, 1)
	for x := 0; x < 32; x++ {
		iq.I.Set(x, 0, 20)
		iq.Q.Set(x, 0, 20)
	}

	hp := highPassCoeffs(sampleRate, 1_000_000, 8)
	gain := sumCoeffs(hp)
	wantCored := core(20*gain, cNRLevel*ireScale)
	want := 20 - wantCored

	DoCNR(iq, sampleRate, cNRLevel, ireScale, 8, 24)

	for x := 8; x < 24; x++ {
		if v := iq.I.At(x, 0); math.Abs(v-want) > 1e-9 {
			t.Errorf("I[%d] = %v, want %v", x, v, want)
		}
	}
}

// TestDoYNRCoresConstantHighPassResponse is DoYNR's analogue of
// TestDoCNRCoresConstantHighPassResponse, over the Y plane.
func TestDoYNRCoresConstantHighPassResponse(t *testing.T) {
	const sampleRate = 14318180.0
	const yNRLevel, ireScale = 10.0, 327.67
	iq := NewIQFrame(32, 1)
	for x := 0; x < 32; x++ {
		iq.Y.Set(x, 0, 50)
	}

	hp := highPassCoeffs(sampleRate, 2_000_000, 8)
	gain := sumCoeffs(hp)
	wantCored := core(50*gain, yNRLevel*ireScale)
	want := 50 - wantCored

	DoYNR(iq, sampleRate, yNRLevel, ireScale, 8, 24)

	for x := 8; x < 24; x++ {
		if v := iq.Y.At(x, 0); math.Abs(v-want) > 1e-9 {
			t.Errorf("Y[%d] = %v, want %v", x, v, want)
		}
	}
}

func TestCoreZeroesWithinLevel(t *testing.T) {
	if v := core(0.5, 1.0); v != 0 {
		t.Errorf("core(0.5, level=1.0) = %v, want 0", v)
	}
	if v := core(5, 1.0); v != 5 {
		t.Errorf("core(5, level=1.0) = %v, want 5 (unchanged, outside the coring band)", v)
	}
	if v := core(-5, 1.0); v != -5 {
		t.Errorf("core(-5, level=1.0) = %v, want -5", v)
	}
}
