/*
NAME
  encoder_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package encoder

import (
	"testing"

	"github.com/ldtbc/tbc/metadata"
)

func TestRec601NeutralGrayHasZeroChroma(t *testing.T) {
	y, c1, c2 := rec601(32768, 32768, 32768)
	if y < 32767.9 || y > 32768.1 {
		t.Errorf("y = %v, want ~32768", y)
	}
	if c1 != 0 || c2 != 0 {
		t.Errorf("c1=%v c2=%v, want both 0 for a neutral gray input", c1, c2)
	}
}

func TestClampSampleBounds(t *testing.T) {
	if v := clampSample(-100); v != 0x0100 {
		t.Errorf("clampSample(-100) = %v, want %v", v, float64(0x0100))
	}
	if v := clampSample(1e9); v != 0xFEFF {
		t.Errorf("clampSample(1e9) = %v, want %v", v, float64(0xFEFF))
	}
	if v := clampSample(30000); v != 30000 {
		t.Errorf("clampSample(30000) = %v, want 30000 (within range)", v)
	}
}

func testParams() metadata.VideoParameters {
	return metadata.VideoParameters{
		System: metadata.SystemNTSC, FSC: 315000000.0 / 88.0, SampleRate: 4 * 315000000.0 / 88.0,
		FieldWidth: 910, FieldHeight: 263,
		ActiveVideoStart: 120, ActiveVideoEnd: 840,
		ColourBurstStart: 96, ColourBurstEnd: 118,
		Black16bIre: 16384, White16bIre: 57344, IsSubcarrierLocked: true,
	}
}

func TestEncodeFrameProducesCorrectlySizedFields(t *testing.T) {
	p := testParams()
	enc := NewEncoder(p)

	rgb := &RGBFrame{Width: 4, Height: 4, R: make([]uint16, 16), G: make([]uint16, 16), B: make([]uint16, 16)}
	first, second, firstMeta, secondMeta := enc.EncodeFrame(rgb)

	wantLen := p.FieldWidth * p.FieldHeight
	if len(first) != wantLen || len(second) != wantLen {
		t.Fatalf("len(first)=%d len(second)=%d, want %d each", len(first), len(second), wantLen)
	}
	if !firstMeta.IsFirstField || secondMeta.IsFirstField {
		t.Errorf("IsFirstField = %v/%v, want true/false", firstMeta.IsFirstField, secondMeta.IsFirstField)
	}
	if firstMeta.SeqNo != 1 || secondMeta.SeqNo != 2 {
		t.Errorf("SeqNo = %d/%d, want 1/2", firstMeta.SeqNo, secondMeta.SeqNo)
	}
}

func TestEncodeFramePhaseIDAdvancesAcrossFrames(t *testing.T) {
	p := testParams()
	enc := NewEncoder(p)
	rgb := &RGBFrame{Width: 2, Height: 2, R: make([]uint16, 4), G: make([]uint16, 4), B: make([]uint16, 4)}

	var phases []int
	for i := 0; i < 5; i++ {
		_, _, firstMeta, _ := enc.EncodeFrame(rgb)
		phases = append(phases, firstMeta.FieldPhaseID)
	}
	want := []int{1, 2, 3, 4, 1}
	for i, p := range phases {
		if p != want[i] {
			t.Errorf("phase[%d] = %d, want %d", i, p, want[i])
		}
	}
}
