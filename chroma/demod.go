/*
NAME
  demod.go

DESCRIPTION
  demod.go implements splitIQ (phase-alternating rotation keyed by line
  parity), splitIQlocked (burst-phase-compensating variant using product
  detection against the raw colourburst window) and adjustY (subtracting
  the chroma contribution from Y using the same phase pattern).

  Grounded on original_source/tools/ld-chroma-decoder's IQ demodulation path
  and tools/ld-comb-ntsc/comb.cpp's quadrature split.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import "math"

// IQFrame holds the demodulated Y/I/Q planes for one frame.
type IQFrame struct {
	Y, I, Q *Buffer
}

// NewIQFrame allocates a zeroed IQFrame.
func NewIQFrame(width, height int) *IQFrame {
	return &IQFrame{Y: NewBuffer(width, height), I: NewBuffer(width, height), Q: NewBuffer(width, height)}
}

// SplitIQ implements spec §4.E stage 4 (non-locked variant): rotates chroma
// by line-phase parity. At each 4fSC sample, I and Q alternate along
// (0,1,2,3) -> (sq,-si,-sq,si) using cavg = clp[dim-1][y][x], negated when
// linePhase(y) is true.
func SplitIQ(raw, clp *Buffer, fieldPhaseIDs []int, activeStart, activeEnd int) *IQFrame {
	out := NewIQFrame(raw.Width, raw.Height)
	for y := 0; y < raw.Height; y++ {
		neg := LinePhase(y, fieldPhaseIDs[y])
		for x := activeStart; x < activeEnd; x++ {
			out.Y.Set(x, y, raw.At(x, y))

			cavg := clp.At(x, y)
			if neg {
				cavg = -cavg
			}

			var i, q float64
			switch x % 4 {
			case 0:
				i, q = 0, cavg
			case 1:
				i, q = -cavg, 0
			case 2:
				i, q = 0, -cavg
			case 3:
				i, q = cavg, 0
			}
			out.I.Set(x, y, i)
			out.Q.Set(x, y, q)
		}
	}
	return out
}

// AdjustY subtracts the chroma contribution from Y using the same phase
// pattern as SplitIQ; must follow SplitIQ per spec §4.E stage 4.
func AdjustY(iq *IQFrame, clp *Buffer, fieldPhaseIDs []int, activeStart, activeEnd int) {
	for y := 0; y < iq.Y.Height; y++ {
		neg := LinePhase(y, fieldPhaseIDs[y])
		for x := activeStart; x < activeEnd; x++ {
			cavg := clp.At(x, y)
			if neg {
				cavg = -cavg
			}
			iq.Y.Set(x, y, iq.Y.At(x, y)-cavg)
		}
	}
}

// fixed33DegRotation is the fixed rotation applied after burst-phase
// normalisation in splitIQlocked, to align the demodulated vector to the
// I/Q axes.
const fixed33DegRotation = 33 * math.Pi / 180

// SplitIQLocked implements spec §4.E stage 4 (locked variant): measures
// burst phase by correlating the raw colourburst window against
// sin4fsc/cos4fsc (product detection), normalises, rotates the demodulated
// vector by the measured burst, then applies the fixed 33-degree rotation.
//
// cavg is read from clp at the same sample x as the output; no one-sample
// chroma shift is applied.
func SplitIQLocked(raw, clp *Buffer, burstStart, burstEnd int, activeStart, activeEnd int) *IQFrame {
	out := NewIQFrame(raw.Width, raw.Height)

	for y := 0; y < raw.Height; y++ {
		// Measure burst phase via product detection against sin4fsc/cos4fsc
		// over the colourburst window.
		var sumI, sumQ float64
		n := 0
		for x := burstStart; x < burstEnd; x++ {
			s := raw.At(x, y)
			sumI += s * Cos4fsc(x)
			sumQ += s * Sin4fsc(x)
			n++
		}
		var burstI, burstQ float64
		if n > 0 {
			burstI = sumI / float64(n)
			burstQ = sumQ / float64(n)
		}
		mag := math.Hypot(burstI, burstQ)
		if mag < 1e-9 {
			mag = 1
		}
		burstPhase := math.Atan2(burstQ, burstI)

		theta := burstPhase + fixed33DegRotation

		for x := activeStart; x < activeEnd; x++ {
			out.Y.Set(x, y, raw.At(x, y))

			// Same sample position as the output; no shift.
			cavg := clp.At(x, y)

			var si, sq float64
			switch x % 4 {
			case 0:
				si, sq = 0, 1
			case 1:
				si, sq = -1, 0
			case 2:
				si, sq = 0, -1
			case 3:
				si, sq = 1, 0
			}
			rawI := cavg * si
			rawQ := cavg * sq

			// Rotate the demodulated vector by theta.
			i := rawI*math.Cos(theta) - rawQ*math.Sin(theta)
			q := rawI*math.Sin(theta) + rawQ*math.Cos(theta)
			out.I.Set(x, y, i)
			out.Q.Set(x, y, q)
		}
	}
	return out
}
