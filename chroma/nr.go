/*
NAME
  nr.go

DESCRIPTION
  nr.go implements filterIQ (fixed ~600kHz low-pass on I/Q) and the
  doCNR/doYNR coring noise-reduction stages: a symmetric FIR high-pass
  followed by coring at cNRLevel*ireScale (resp. yNRLevel*ireScale), with
  the cored high-pass signal subtracted from the original. Filter tap
  history is zero-padded outside the active region and the output read is
  offset by the filter delay (taps/2).

  Grounded on original_source/tools/ld-chroma-decoder's NR passes and
  tools/library/filter/firfilter.h's symmetric-FIR convention.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import (
	"math"

	"github.com/ldtbc/tbc/dsp"
	"github.com/ldtbc/tbc/metadata"
)

// iqLowPassCoeffs returns a 600kHz-class lowpass, matching spec §4.E stage 5.
func iqLowPassCoeffs(sampleRate float64) []float64 {
	return dsp.LowPassCoeffs(600_000, sampleRate, 12)
}

// FilterIQ applies a fixed lowpass FIR (~600kHz) to I and Q along each
// active line.
func FilterIQ(iq *IQFrame, sampleRate float64, activeStart, activeEnd int) {
	coeffs := iqLowPassCoeffs(sampleRate)
	fir := dsp.NewFIR(coeffs)
	applyLine := func(buf *Buffer) {
		for y := 0; y < buf.Height; y++ {
			row := buf.Row(y)
			if row == nil {
				continue
			}
			in := make([]float64, len(row))
			copy(in, row)
			out := make([]float64, len(row))
			fir.Apply(in, out, activeEnd)
			copy(row[activeStart:activeEnd], out[activeStart:activeEnd])
		}
	}
	applyLine(iq.I)
	applyLine(iq.Q)
}

// coreHighPass runs a symmetric FIR high-pass over one line (zero-padded
// outside the active region), cores the result at +-level, and subtracts
// the cored signal from the original, writing the result into out. The
// output read is offset by the filter delay (taps/2).
func coreHighPass(line []float64, activeStart, activeEnd int, hpCoeffs []float64, level float64, out []float64) {
	delay := len(hpCoeffs) / 2
	padded := make([]float64, len(line)+2*delay)
	copy(padded[delay:], line)

	fir := dsp.NewFIR(hpCoeffs)
	filtered := make([]float64, len(padded))
	fir.Apply(padded, filtered, len(padded))

	for x := activeStart; x < activeEnd; x++ {
		hp := filtered[x+delay]
		cored := core(hp, level)
		out[x] = line[x] - cored
	}
}

// core applies the coring function: values within +-level of zero are
// zeroed (treated as noise); values outside are passed through unchanged.
func core(v, level float64) float64 {
	if v > -level && v < level {
		return 0
	}
	return v
}

// highPassCoeffs builds a fixed symmetric high-pass FIR (complement of a
// lowpass with the given cutoff in Hz at sampleRate Hz).
func highPassCoeffs(sampleRate, cutoff float64, taps int) []float64 {
	lp := dsp.LowPassCoeffs(cutoff, sampleRate, taps)
	hp := make([]float64, len(lp))
	center := len(lp) / 2
	for i, c := range lp {
		if i == center {
			hp[i] = 1 - c
		} else {
			hp[i] = -c
		}
	}
	return hp
}

// DoCNR implements the chroma coring noise-reduction stage on I and Q.
func DoCNR(iq *IQFrame, sampleRate, cNRLevel, ireScale float64, activeStart, activeEnd int) {
	hp := highPassCoeffs(sampleRate, 1_000_000, 8)
	level := cNRLevel * ireScale
	for y := 0; y < iq.I.Height; y++ {
		rowI := iq.I.Row(y)
		rowQ := iq.Q.Row(y)
		if rowI == nil {
			continue
		}
		outI := make([]float64, len(rowI))
		copy(outI, rowI)
		coreHighPass(rowI, activeStart, activeEnd, hp, level, outI)
		copy(rowI, outI)

		outQ := make([]float64, len(rowQ))
		copy(outQ, rowQ)
		coreHighPass(rowQ, activeStart, activeEnd, hp, level, outQ)
		copy(rowQ, outQ)
	}
}

// DoYNR implements the luma coring noise-reduction stage on Y.
func DoYNR(iq *IQFrame, sampleRate, yNRLevel, ireScale float64, activeStart, activeEnd int) {
	hp := highPassCoeffs(sampleRate, 2_000_000, 8)
	level := yNRLevel * ireScale
	for y := 0; y < iq.Y.Height; y++ {
		row := iq.Y.Row(y)
		if row == nil {
			continue
		}
		out := make([]float64, len(row))
		copy(out, row)
		coreHighPass(row, activeStart, activeEnd, hp, level, out)
		copy(row, out)
	}
}

// TransformIQ implements spec §4.E stage 7: rotate (I,Q) by
// (33deg+chromaPhase) and scale by chromaGain: U = -sin(theta)*I+cos(theta)*Q;
// V = cos(theta)*I+sin(theta)*Q. Writes Y/U/V into cf.
func TransformIQ(cf *metadata.ComponentFrame, iq *IQFrame, chromaPhaseDeg, chromaGain float64, activeStart, activeEnd int) {
	theta := (33 + chromaPhaseDeg) * math.Pi / 180
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	for y := 0; y < iq.Y.Height && y < cf.Height; y++ {
		for x := activeStart; x < activeEnd && x < cf.Width; x++ {
			i := iq.I.At(x, y)
			q := iq.Q.At(x, y)
			cf.Y[y][x] = iq.Y.At(x, y)
			cf.U[y][x] = (-sinT*i + cosT*q) * chromaGain
			cf.V[y][x] = (cosT*i + sinT*q) * chromaGain
		}
	}
}
