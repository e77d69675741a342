/*
NAME
  biphase_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

import (
	"testing"

	"github.com/ldtbc/tbc/metadata"
)

func TestDecodeBiphaseFlatLineFails(t *testing.T) {
	line := make([]uint16, 200)
	_, ok := DecodeBiphase(line, 0, 4000000, 10)
	if ok {
		t.Fatalf("DecodeBiphase on a flat line succeeded, want failure (no transitions)")
	}
}

func TestInterpretTriWordLeadIn(t *testing.T) {
	got := InterpretTriWord(patternLeadIn, 0, 0, true, false, false)
	if !got.LeadIn {
		t.Errorf("LeadIn = false, want true")
	}
}

func TestInterpretTriWordLeadOut(t *testing.T) {
	got := InterpretTriWord(0, patternLeadOut, 0, false, true, false)
	if !got.LeadOut {
		t.Errorf("LeadOut = false, want true")
	}
}

func TestInterpretTriWordCAVPictureNumber(t *testing.T) {
	// F1xxxxx pattern, BCD picture number 12345.
	word := uint32(0xF00000) | 0x12345
	got := InterpretTriWord(word, 0, 0, true, false, false)
	if got.DiscType != metadata.DiscCAV {
		t.Errorf("DiscType = %v, want DiscCAV", got.DiscType)
	}
	if got.PictureNumber != 12345 {
		t.Errorf("PictureNumber = %d, want 12345", got.PictureNumber)
	}
}

func TestInterpretTriWordIgnoresLineNotPresent(t *testing.T) {
	// Even a recognizable pattern is ignored when its source line wasn't
	// decoded (onLine=false).
	got := InterpretTriWord(patternLeadIn, 0, 0, false, false, false)
	if got.LeadIn {
		t.Errorf("LeadIn = true, want false (line16 not present)")
	}
}

func TestInterpretTriWordChapterNumber(t *testing.T) {
	// 800DDD pattern with chapter BCD 42 at bits 19-12.
	word := uint32(0x800000) | (uint32(0x42) << 12) | 0xDDD
	got := InterpretTriWord(0, 0, word, false, false, true)
	if got.ChapterNumber != 42 {
		t.Errorf("ChapterNumber = %d, want 42", got.ChapterNumber)
	}
}

func TestDecodeAndInterpretFieldFailsWithNoLines(t *testing.T) {
	meta := &metadata.FieldMetadata{}
	err := DecodeAndInterpretField(map[int][]uint16{}, 0, 4000000, 10, meta)
	if err == nil {
		t.Fatalf("DecodeAndInterpretField with no VBI lines succeeded, want error")
	}
	if meta.VbiInUse {
		t.Errorf("VbiInUse = true, want false after failed decode")
	}
}
