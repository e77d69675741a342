/*
NAME
  comb_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import (
	"math"
	"testing"
)

func TestSplit1DAveragesNeighbours(t *testing.T) {
	raw := NewBuffer(5, 1)
	// s=10, neighbours at x-2/x+2 average to (4+8)/2=6, so (10-6)/2=2.
	raw.Set(0, 0, 4)
	raw.Set(2, 0, 10)
	raw.Set(4, 0, 8)

	out := Split1D(raw, 0, 5)
	if v := out.At(2, 0); v != 2 {
		t.Errorf("Split1D at x=2 = %v, want 2", v)
	}
}

func TestSplit2DIdenticalLinesProduceNoChroma(t *testing.T) {
	clp1 := NewBuffer(3, 9)
	for y := 0; y < 9; y++ {
		clp1.Set(0, y, 5)
		clp1.Set(1, y, 5)
		clp1.Set(2, y, 5)
	}

	out := Split2D(clp1, 0, 3, 1)
	if v := out.At(1, 4); v != 0 {
		t.Errorf("Split2D on a uniform line = %v, want 0", v)
	}
}

func TestSplit2DStrongAlternationRecoversChroma(t *testing.T) {
	clp1 := NewBuffer(3, 9)
	clp1.Set(1, 4, 10)
	clp1.Set(0, 4, 10)
	clp1.Set(1, 2, -10) // y-2
	clp1.Set(0, 2, -10)
	clp1.Set(1, 6, -10) // y+2
	clp1.Set(0, 6, -10)

	out := Split2D(clp1, 0, 3, 1)
	if v := out.At(1, 4); math.Abs(v-10) > 1e-9 {
		t.Errorf("Split2D on strong alternation = %v, want 10", v)
	}
}

func TestSplit3DNonAdaptivePicksPrevFrame(t *testing.T) {
	in := Split3DInputs{
		Raw: NewBuffer(4, 4), Clp1: NewBuffer(4, 4), Clp2: NewBuffer(4, 4),
		PrevFrameRaw: NewBuffer(4, 4), PrevFrameClp1: NewBuffer(4, 4), PrevFrameClp2: NewBuffer(4, 4),
		NextFrameRaw: NewBuffer(4, 4), NextFrameClp1: NewBuffer(4, 4), NextFrameClp2: NewBuffer(4, 4),
		FieldPhaseIDs: []int{1, 1, 1, 1},
		Adaptive:      false,
	}
	in.PrevFrameClp1.Set(2, 2, 6)
	in.Clp1.Set(2, 2, 10)

	out, winner := Split3D(in, 0, 4, 1)
	if winner[2][2] != Cand3DPrevFrame {
		t.Fatalf("winner = %v, want Cand3DPrevFrame", winner[2][2])
	}
	if v := out.At(2, 2); v != 2 {
		t.Errorf("out = %v, want (10-6)/2=2", v)
	}
}

func TestSplit3DAdaptiveAllZeroPicksPrevFrameByBonus(t *testing.T) {
	in := Split3DInputs{
		Raw: NewBuffer(4, 4), Clp1: NewBuffer(4, 4), Clp2: NewBuffer(4, 4),
		PrevFrameRaw: NewBuffer(4, 4), PrevFrameClp1: NewBuffer(4, 4), PrevFrameClp2: NewBuffer(4, 4),
		NextFrameRaw: NewBuffer(4, 4), NextFrameClp1: NewBuffer(4, 4), NextFrameClp2: NewBuffer(4, 4),
		FieldPhaseIDs: []int{1, 1, 1, 1},
		Adaptive:      true,
	}

	// Every buffer is all-zero, so every candidate's luma/IQ penalty is 0
	// and the phase-viability penalty (0 or 1000) is identical across all
	// eight candidates. The tiebreak is then purely the fixed bonus table:
	// Cand3DPrevFrame/NextFrame get -6, the strongest bias, and
	// Cand3DPrevFrame comes first in evaluation order.
	out, winner := Split3D(in, 0, 4, 1)
	if winner[2][2] != Cand3DPrevFrame {
		t.Fatalf("winner = %v, want Cand3DPrevFrame (strongest all-zero tiebreak)", winner[2][2])
	}
	if v := out.At(2, 2); v != 0 {
		t.Errorf("out = %v, want 0", v)
	}
}
