/*
NAME
  padding_test.go

DESCRIPTION
  padding_test.go checks FixupPadding's phase-ID extrapolation and
  metadata-copy behaviour for padded placeholder fields.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ldtbc/tbc/metadata"
)

func TestFixupPaddingExtrapolatesPhaseAndCopiesMetadata(t *testing.T) {
	ref := metadata.FieldMetadata{SeqNo: 5, FieldPhaseID: 3, MedianBurstIRE: 42, SyncConf: 90}
	fields := []metadata.FieldMetadata{
		{SeqNo: 100, Pad: true},
		ref,
		{SeqNo: 101, Pad: true},
		{SeqNo: 102, Pad: true},
	}

	FixupPadding(fields)

	if fields[1] != ref {
		t.Fatalf("non-padded reference field mutated: got %+v, want %+v", fields[1], ref)
	}

	wantPhase := map[int]int{0: 2, 2: 4, 3: 1}
	for i, want := range wantPhase {
		if fields[i].FieldPhaseID != want {
			t.Errorf("fields[%d].FieldPhaseID = %d, want %d", i, fields[i].FieldPhaseID, want)
		}
		gotCopy := fields[i]
		gotCopy.SeqNo = ref.SeqNo
		gotCopy.Pad = ref.Pad
		gotCopy.FieldPhaseID = ref.FieldPhaseID
		if !cmp.Equal(gotCopy, ref) {
			t.Errorf("fields[%d] metadata not copied from reference: diff %s", i, cmp.Diff(gotCopy, ref))
		}
		if fields[i].SeqNo != 100+seqOffset(i) {
			t.Errorf("fields[%d].SeqNo = %d, want original seq preserved", i, fields[i].SeqNo)
		}
		if !fields[i].Pad {
			t.Errorf("fields[%d].Pad = false, want true preserved", i)
		}
	}
}

func seqOffset(i int) int {
	switch i {
	case 0:
		return 0
	case 2:
		return 1
	case 3:
		return 2
	}
	return 0
}

func TestFixupPaddingNoopWithoutNonPaddedField(t *testing.T) {
	fields := []metadata.FieldMetadata{
		{SeqNo: 1, Pad: true, FieldPhaseID: 0},
		{SeqNo: 2, Pad: true, FieldPhaseID: 0},
	}
	want := append([]metadata.FieldMetadata(nil), fields...)
	FixupPadding(fields)
	if !cmp.Equal(fields, want) {
		t.Fatalf("FixupPadding mutated an all-padded list: diff %s", cmp.Diff(fields, want))
	}
}
