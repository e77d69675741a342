/*
NAME
  buffer_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import "testing"

func TestBufferSetAtOutOfRangeIsNoop(t *testing.T) {
	b := NewBuffer(4, 4)
	b.Set(-1, 0, 99)
	b.Set(0, -1, 99)
	b.Set(4, 0, 99)
	if v := b.At(-1, 0); v != 0 {
		t.Errorf("At(-1,0) = %v, want 0", v)
	}
	if v := b.At(0, 0); v != 0 {
		t.Errorf("At(0,0) = %v, want 0 (out-of-range writes should be discarded)", v)
	}
}

func TestBufferSetAtRoundTrip(t *testing.T) {
	b := NewBuffer(4, 4)
	b.Set(2, 1, 42)
	if v := b.At(2, 1); v != 42 {
		t.Errorf("At(2,1) = %v, want 42", v)
	}
}

func TestAssembleFrameInterleavesFieldsAndPhaseIDs(t *testing.T) {
	width, fieldHeight := 2, 3
	first := []uint16{1, 1, 2, 2, 3, 3}
	second := []uint16{10, 10, 20, 20, 30, 30}

	f := AssembleFrame(width, fieldHeight, first, second, 1, 3)

	wantHeight := 2*fieldHeight - 1
	if f.Height != wantHeight {
		t.Fatalf("Height = %d, want %d", f.Height, wantHeight)
	}

	// Even lines come from the first field.
	if v := f.Raw.At(0, 0); v != 1 {
		t.Errorf("Raw.At(0,0) = %v, want 1", v)
	}
	if v := f.Raw.At(0, 2); v != 2 {
		t.Errorf("Raw.At(0,2) = %v, want 2", v)
	}
	if f.FieldPhaseIDs[0] != 1 || f.FieldPhaseIDs[2] != 1 {
		t.Errorf("even-line phase IDs = %d/%d, want 1/1", f.FieldPhaseIDs[0], f.FieldPhaseIDs[2])
	}

	// Odd lines come from the second field.
	if v := f.Raw.At(0, 1); v != 10 {
		t.Errorf("Raw.At(0,1) = %v, want 10", v)
	}
	if f.FieldPhaseIDs[1] != 3 {
		t.Errorf("odd-line phase ID = %d, want 3", f.FieldPhaseIDs[1])
	}

	// The last line of the second field (fy=2 -> y=5) falls outside a
	// (2*3-1)=5-row frame (valid y in [0,4]) and is dropped.
	if f.Height != 5 {
		t.Fatalf("Height = %d, want 5", f.Height)
	}
}
