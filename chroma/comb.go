/*
NAME
  comb.go

DESCRIPTION
  comb.go implements the adaptive comb filter family: split1D (bandpass
  pre-filter centred at fSC), split2D (adaptive 3-line blend against
  previous/next lines) and split3D (8-candidate spatio-temporal blend using
  look-behind/look-ahead frames).

  Grounded on original_source/tools/ld-comb-ntsc/comb.cpp (1D/2D) and
  tools/ld-chroma-decoder/comb.cpp (2D/3D generalisation).

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import "math"

// Split1D implements spec §4.E stage 1: for every active line, per active
// sample x, clp1[y][x] = (s[y][x] - (s[y][x-2]+s[y][x+2])/2) / 2.
func Split1D(raw *Buffer, activeStart, activeEnd int) *Buffer {
	out := NewBuffer(raw.Width, raw.Height)
	for y := 0; y < raw.Height; y++ {
		for x := activeStart; x < activeEnd; x++ {
			s := raw.At(x, y)
			neigh := (raw.At(x-2, y) + raw.At(x+2, y)) / 2
			out.Set(x, y, (s-neigh)/2)
		}
	}
	return out
}

// qBound clamps v to [lo,hi].
func qBound(lo, v, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Split2D implements spec §4.E stage 2: an adaptive 3-line blend of clp1
// against its previous-line and next-line pairs.
func Split2D(clp1 *Buffer, activeStart, activeEnd int, ireScale float64) *Buffer {
	out := NewBuffer(clp1.Width, clp1.Height)
	kRange := 45 * ireScale

	for y := 0; y < clp1.Height; y++ {
		for x := activeStart; x < activeEnd; x++ {
			cur := clp1.At(x, y)
			prev := clp1.At(x, y-2)
			next := clp1.At(x, y+2)

			// Kin-scores: summing the differences of the *absolute* values
			// of the 1D chroma samples at h and h-1 gives a low value when
			// the two lines are nearly in phase (strong Y) or nearly 180
			// degrees out of phase (strong C) -- the two cases where the
			// 2D filter is usable. A small bonus is given for a large
			// signal.
			kp := math.Abs(math.Abs(cur)-math.Abs(prev)) +
				math.Abs(math.Abs(clp1.At(x-1, y))-math.Abs(clp1.At(x-1, y-2))) -
				(math.Abs(cur)+math.Abs(clp1.At(x-1, y-2)))*0.10
			kn := math.Abs(math.Abs(cur)-math.Abs(next)) +
				math.Abs(math.Abs(clp1.At(x-1, y))-math.Abs(clp1.At(x-1, y+2))) -
				(math.Abs(cur)+math.Abs(clp1.At(x-1, y+2)))*0.10

			kp = qBound(0, 1-kp/kRange, 1)
			kn = qBound(0, 1-kn/kRange, 1)

			sc := 1.0
			if kn > 0 || kp > 0 {
				if kn > 3*kp {
					kp = 0
				} else if kp > 3*kn {
					kn = 0
				}
				sc = 2.0 / (kn + kp)
				if sc < 1.0 {
					sc = 1.0
				}
			} else {
				// Neither line has a good phase relationship: if the
				// opposite lines resemble each other, use both anyway.
				if math.Abs(math.Abs(prev)-math.Abs(next))-math.Abs((next+prev)*0.2) <= 0 {
					kp, kn = 1, 1
				}
			}

			v := ((cur-prev)*kp*sc + (cur-next)*kn*sc) / 4
			out.Set(x, y, v)
		}
	}
	return out
}

// Candidate3D identifies one of the 8 split3D candidate directions.
type Candidate3D int

const (
	Cand3DNone Candidate3D = iota
	Cand3DLeft
	Cand3DRight
	Cand3DUp
	Cand3DDown
	Cand3DPrevField
	Cand3DNextField
	Cand3DPrevFrame
	Cand3DNextFrame
)

// cand3DPrevFieldSlot is the index into the candidate slice (below) of the
// first temporal (field/frame) candidate; spatial candidates (left/right/
// up/down) occupy slots [0,cand3DPrevFieldSlot).
const cand3DPrevFieldSlot = 4

// Split3DInputs bundles the three rotating frames' raw and chroma-plane
// buffers, plus phase metadata, needed by Split3D.
type Split3DInputs struct {
	Raw, Clp1, Clp2 *Buffer // Current frame's raw/clp1/clp2.

	PrevFrameRaw, PrevFrameClp1, PrevFrameClp2 *Buffer
	NextFrameRaw, NextFrameClp1, NextFrameClp2 *Buffer

	FieldPhaseIDs []int // Current frame's per-line phase IDs.
	Adaptive      bool
	ShowMap       bool
}

// expectedPhase derives the expected chroma phase for a pixel from
// fieldPhaseID, line number and sample index mod 4, per spec §4.E stage 3
// viability check.
func expectedPhase(fieldPhaseID, y, x int) bool {
	return LinePhase(y, fieldPhaseID) != (x%4 >= 2)
}

// iqPenaltyWeights weights the I/Q alternation across the 3-sample window
// a candidate is scored over: the centre sample counts twice as much as
// either neighbour.
var iqPenaltyWeights = [3]float64{0.5, 1.0, 0.5}

// split3DCand is one of the 8 candidate source positions considered for a
// given reference pixel: a 1D chroma estimate (sample, used for the final
// blend), and the raw/2D-chroma buffers and position used to score it
// against the reference.
type split3DCand struct {
	id            Candidate3D
	sample        float64
	rawBuf, clp2Buf *Buffer
	cx, cy        int
	bonus         float64
}

// candidatePenalty scores a candidate against the reference pixel: a
// luma-difference penalty (raw minus the 2D chroma estimate, i.e. an
// estimate of Y, compared over a 3-sample horizontal window) plus an
// IQ-difference penalty (the 2D chroma estimate itself, negated for the
// candidate since it's 180 degrees out of phase, weighted {0.5,1,0.5}
// across the window).
func candidatePenalty(refRaw, refClp2 *Buffer, refX, refY int, c split3DCand, ireScale float64) (yPenalty, iqPenalty float64) {
	for offset := -1; offset <= 1; offset++ {
		refC := refClp2.At(refX+offset, refY)
		refY2 := refRaw.At(refX+offset, refY) - refC
		candC := c.clp2Buf.At(c.cx+offset, c.cy)
		candY := c.rawBuf.At(c.cx+offset, c.cy) - candC
		yPenalty += math.Abs(refY2 - candY)

		candC2 := -c.clp2Buf.At(c.cx+offset, c.cy)
		iqPenalty += math.Abs(refC-candC2) * iqPenaltyWeights[offset+1]
	}
	yPenalty = yPenalty / 3 / ireScale
	iqPenalty = (iqPenalty / 2 / ireScale) * 0.28
	return yPenalty, iqPenalty
}

// Split3D implements spec §4.E stage 3: up to 8 spatio-temporal candidates
// scored by a luma-difference + IQ-difference penalty over a 3-sample
// horizontal window, plus a fixed bonus per candidate: 0 for left/right,
// -2 for up/down, -4 for previous/next field and -6 for previous/next
// frame. A viability penalty of 1000 is added to every candidate alike
// when the reference sample's expected phase is true; the candidates' own
// phases are not examined, so this penalty does not change which
// candidate wins.
func Split3D(in Split3DInputs, activeStart, activeEnd int, ireScale float64) (out *Buffer, winner [][]Candidate3D) {
	out = NewBuffer(in.Clp1.Width, in.Clp1.Height)
	winner = make([][]Candidate3D, in.Clp1.Height)
	for y := range winner {
		winner[y] = make([]Candidate3D, in.Clp1.Width)
	}

	for y := 0; y < in.Clp1.Height; y++ {
		for x := activeStart; x < activeEnd; x++ {
			ref := in.Clp1.At(x, y)
			refPhaseOK := expectedPhase(in.FieldPhaseIDs[y], y, x)

			if !in.Adaptive {
				v := in.PrevFrameClp1.At(x, y)
				winner[y][x] = Cand3DPrevFrame
				out.Set(x, y, (ref-v)/2)
				continue
			}

			// PrevField/NextField read an adjacent line (y-1/y+1) from
			// whichever frame shares the reference's chroma phase at that
			// line: the previous/next frame when y-1/y+1's phase matches
			// y's, the current frame otherwise.
			phaseMatch := y-1 >= 0 && LinePhase(y, in.FieldPhaseIDs[y]) == LinePhase(y-1, in.FieldPhaseIDs[y-1])

			var prevField, nextField split3DCand
			if phaseMatch {
				prevField = split3DCand{Cand3DPrevField, in.PrevFrameClp1.At(x, y-1), in.PrevFrameRaw, in.PrevFrameClp2, x, y - 1, -4}
				nextField = split3DCand{Cand3DNextField, in.Clp1.At(x, y+1), in.Raw, in.Clp2, x, y + 1, -4}
			} else {
				prevField = split3DCand{Cand3DPrevField, in.Clp1.At(x, y-1), in.Raw, in.Clp2, x, y - 1, -4}
				nextField = split3DCand{Cand3DNextField, in.NextFrameClp1.At(x, y+1), in.NextFrameRaw, in.NextFrameClp2, x, y + 1, -4}
			}

			cands := []split3DCand{
				{Cand3DLeft, in.Clp1.At(x-2, y), in.Raw, in.Clp2, x - 2, y, 0},
				{Cand3DRight, in.Clp1.At(x+2, y), in.Raw, in.Clp2, x + 2, y, 0},
				{Cand3DUp, in.Clp1.At(x, y-2), in.Raw, in.Clp2, x, y - 2, -2},
				{Cand3DDown, in.Clp1.At(x, y+2), in.Raw, in.Clp2, x, y + 2, -2},
				prevField,
				nextField,
				{Cand3DPrevFrame, in.PrevFrameClp1.At(x, y), in.PrevFrameRaw, in.PrevFrameClp2, x, y, -6},
				{Cand3DNextFrame, in.NextFrameClp1.At(x, y), in.NextFrameRaw, in.NextFrameClp2, x, y, -6},
			}

			bestScore := math.Inf(1)
			bestIdx := -1
			var bestSample float64
			for ci, c := range cands {
				// The same penalty applies to every candidate; it depends
				// only on the reference's expected phase.
				penalty := 0.0
				if refPhaseOK {
					penalty = 1000
				}

				yPenalty, iqPenalty := candidatePenalty(in.Raw, in.Clp2, x, y, c, ireScale)
				score := yPenalty + iqPenalty + c.bonus + penalty
				if score < bestScore {
					bestScore = score
					bestIdx = ci
					bestSample = c.sample
				}
			}

			if bestIdx < cand3DPrevFieldSlot {
				// Best candidate is spatial (left/right/up/down): fall
				// back to clp2's value, per spec "if the best index is <
				// PREV_FIELD".
				winner[y][x] = Cand3DNone
				out.Set(x, y, in.Clp2.At(x, y))
				continue
			}

			winner[y][x] = cands[bestIdx].id
			out.Set(x, y, (ref-bestSample)/2)
		}
	}
	return out, winner
}
