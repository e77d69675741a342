/*
NAME
  biphase.go

DESCRIPTION
  biphase.go implements the Manchester (biphase) VBI decoder for lines
  16-18 (PAL) / equivalent NTSC lines, and the composite 24-bit interpreter
  that turns the resulting vbi16/17/18 tri-word into picture numbers,
  chapter numbers, lead-in/lead-out markers, CLV timecodes and status
  codes.

  Grounded on original_source/tools/ld-process-vbi/biphasecode.cpp (bit
  extraction) and vbidecoder.cpp (24-bit pattern interpretation).

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

import (
	"fmt"

	"github.com/ldtbc/tbc/metadata"
)

// Biphase bit-clock constants. Cell width is 2us; emit happens at the first
// transition, sample 1.5us (three quarters of a cell) later.
const (
	biphaseBitClockHz = 500_000
	biphaseCellUs     = 1.0 / biphaseBitClockHz * 1e6 // 2us
)

// DecodeBiphase decodes one VBI line into a 24-bit word. It expects exactly
// 24 bits; any other count is a decode failure (spec §8: "if not,
// vbiData[i] = 0").
func DecodeBiphase(line []uint16, zcPoint float64, sampleRate float64, activeVideoStart int) (uint32, bool) {
	m := TransitionMap(line, zcPoint)

	samplesPerCell := sampleRate * biphaseCellUs / 1e6
	samplesPerHalfCell := samplesPerCell * 0.75 // 1.5us: three quarters of a cell.

	pos := FirstTransitionAfter(m, activeVideoStart)
	if pos < 0 {
		return 0, false
	}

	var bits uint32
	nbits := 0
	// First transition always emits bit 1 (rising edge of the first cell).
	bits = (bits << 1) | 1
	nbits++

	cursor := float64(pos)
	for nbits < 24 {
		cursor += samplesPerHalfCell
		idx := int(cursor)
		if idx < 0 || idx >= len(m) {
			break
		}
		sampleState := m[idx]

		next := NextTransition(m, idx)
		if next < 0 {
			break
		}

		var bit uint32
		if sampleState {
			bit = 1
		} else {
			bit = 0
		}
		bits = (bits << 1) | bit
		nbits++
		cursor = float64(next)
	}

	if nbits != 24 {
		return 0, false
	}
	return bits, true
}

// Known 24-bit biphase patterns (spec §4.D).
const (
	patternLeadIn        uint32 = 0x88FFFF
	patternLeadOut       uint32 = 0x80EEEE
	patternPictureStop   uint32 = 0x82CFFF
	patternCLVIndicator  uint32 = 0x87FFFF
	patternChapterPrefix uint32 = 0x800000 // high nibble 8; chapter BCD in bits 19-12, 0xDDD in the low 12 bits.
)

// bcdToInt decodes a run of BCD nibbles (most significant nibble first) into
// an integer, or -1 if any nibble is not a valid decimal digit.
func bcdToInt(v uint32, nibbles int) int {
	n := 0
	for i := nibbles - 1; i >= 0; i-- {
		d := (v >> uint(i*4)) & 0xF
		if d > 9 {
			return -1
		}
		n = n*10 + int(d)
	}
	return n
}

// InterpretTriWord interprets the decoded vbi16/17/18 tri-word (as produced
// by DecodeBiphase on the three VBI lines) into a VbiDecode struct, per
// spec §4.D's composite 24-bit decoder rules.
func InterpretTriWord(vbi16, vbi17, vbi18 uint32, line16, line17, line18 bool) metadata.VbiDecode {
	var out metadata.VbiDecode

	check := func(word uint32, onLine bool) {
		if !onLine {
			return
		}
		switch {
		case word == patternLeadIn:
			out.LeadIn = true
		case word == patternLeadOut:
			out.LeadOut = true
		case word == patternPictureStop:
			out.PictureStop = true
		case word == patternCLVIndicator:
			out.DiscType = metadata.DiscCLV
		case word&0xF00000 == 0xF00000:
			// F¹xxxxx: CAV picture number, BCD, range 1..79999.
			if n := bcdToInt(word&0x0FFFFF, 5); n >= 1 && n <= 79999 {
				out.PictureNumber = n
				out.DiscType = metadata.DiscCAV
			}
		case word&0xF00FFF == 0x800DDD:
			// 800DDD: chapter number pattern; chapter BCD occupies bits 19-12.
			if n := bcdToInt((word>>12)&0xFF, 2); n >= 0 {
				out.ChapterNumber = n
			}
		case word&0xFF00FF == 0xF00000:
			// F0DD00: CLV programme time code (minutes:seconds BCD).
			min := bcdToInt((word>>16)&0xF, 1)
			sec := bcdToInt((word>>8)&0xFF, 2)
			if min >= 0 && sec >= 0 {
				out.Timecode = metadata.Timecode{Minutes: min, Seconds: sec}
				out.DiscType = metadata.DiscCLV
			}
		}
	}

	check(vbi16, line16)
	check(vbi17, line17)
	check(vbi18, line18)

	return out
}

// DecodeAndInterpretField runs DecodeBiphase over the three VBI lines of a
// field and interprets the resulting tri-word, writing into meta.
func DecodeAndInterpretField(lines map[int][]uint16, zcPoint, sampleRate float64, activeVideoStart int, meta *metadata.FieldMetadata) error {
	decode := func(lineNo int) (uint32, bool) {
		l, ok := lines[lineNo]
		if !ok {
			return 0, false
		}
		return DecodeBiphase(l, zcPoint, sampleRate, activeVideoStart)
	}

	w16, ok16 := decode(16)
	w17, ok17 := decode(17)
	w18, ok18 := decode(18)

	if !ok16 && !ok17 && !ok18 {
		meta.VbiInUse = false
		return fmt.Errorf("biphase decode failed on all VBI lines")
	}

	meta.Vbi16, meta.Vbi17, meta.Vbi18 = w16, w17, w18
	meta.VbiInUse = true
	meta.Vbi = InterpretTriWord(w16, w17, w18, ok16, ok17, ok18)
	return nil
}
