/*
NAME
  vitc.go

DESCRIPTION
  vitc.go implements the VITC (vertical interval timecode) decoder: a 90-bit
  signal of a 2-bit sync ("10"), 8 data bytes, and an 8-bit CRC, bit width
  fieldWidth/115. The CRC generator is x^8+1 (equivalent to an XOR-fold of
  all 12 raw 10-bit groups, which must equal zero). PAL tries lines 19/21;
  NTSC tries 12/14/16/18; the first passing CRC wins.

  Grounded on original_source/tools/ld-process-vbi/vitccode.cpp.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

import "github.com/ldtbc/tbc/metadata"

// CandidateLines returns the VITC candidate line numbers to try, in
// preference order, for the given system.
func CandidateLines(sys metadata.System) []int {
	if sys == metadata.SystemNTSC {
		return []int{12, 14, 16, 18}
	}
	return []int{19, 21}
}

// DecodeVITC attempts to decode a 90-bit VITC signal from one line. It
// returns the 8 data bytes and whether the XOR-fold CRC check passed.
func DecodeVITC(line []uint16, zcPoint float64, fieldWidth int) ([8]byte, bool) {
	bitWidth := float64(fieldWidth) / 115.0
	m := TransitionMap(line, zcPoint)

	start := FirstTransitionAfter(m, 0)
	if start < 0 {
		return [8]byte{}, false
	}

	cursor := float64(start) + bitWidth/2
	readBit := func() bool {
		idx := int(cursor)
		cursor += bitWidth
		if idx < 0 || idx >= len(m) {
			return false
		}
		return m[idx]
	}

	// 2-bit sync "10".
	s0, s1 := readBit(), readBit()
	if s0 != true || s1 != false {
		return [8]byte{}, false
	}

	// 12 raw 10-bit groups total (including sync+CRC groups per the
	// original's XOR-fold definition): we've consumed the first 2 bits of
	// group 0; read the remaining 8 bits of this and the following 11
	// groups to reconstruct all twelve raw 10-bit words for the fold.
	var groups [12]uint16
	groups[0] = 0b10 << 8 // Sync bits already consumed, shifted into position.
	for g := 0; g < 12; g++ {
		startBit := 0
		if g == 0 {
			startBit = 2
		}
		for b := startBit; b < 10; b++ {
			var bit uint16
			if readBit() {
				bit = 1
			}
			groups[g] |= bit << uint(9-b)
		}
	}

	var fold uint16
	for _, g := range groups {
		fold ^= g
	}
	if fold != 0 {
		return [8]byte{}, false
	}

	var data [8]byte
	for i := 0; i < 8; i++ {
		data[i] = byte(groups[i+1] >> 2)
	}
	return data, true
}

// DecodeVITCFromCandidates tries each candidate line in order and returns
// the first one that passes CRC.
func DecodeVITCFromCandidates(lines map[int][]uint16, sys metadata.System, zcPoint float64, fieldWidth int) ([8]byte, bool) {
	for _, ln := range CandidateLines(sys) {
		line, ok := lines[ln]
		if !ok {
			continue
		}
		if data, ok := DecodeVITC(line, zcPoint, fieldWidth); ok {
			return data, true
		}
	}
	return [8]byte{}, false
}
