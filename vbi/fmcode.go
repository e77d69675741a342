/*
NAME
  fmcode.go

DESCRIPTION
  fmcode.go implements the 40-bit FM-code decoder for NTSC line 10: 4-bit
  receiver-clock-sync, 1-bit field indicator, 7-bit leading-recognition
  (114), 20-bit payload, 1-bit (odd) parity, 7-bit trailing-recognition
  (13).

  Grounded on original_source/tools/ld-process-vbi/fmcode.cpp.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

const (
	fmClockSyncExpected     = 0b0011
	fmLeadingExpected       = 114 // 0b1110010
	fmTrailingExpected      = 13  // 0b0001101
	fmCellUs                = 1.5
	fmTotalBits             = 40
)

// DecodeFMCode decodes the 40-bit FM-code line. Returns (payload, fieldIndicator, ok).
func DecodeFMCode(line []uint16, zcPoint, sampleRate float64, activeVideoStart int) (payload uint32, fieldIndicator bool, ok bool) {
	m := TransitionMap(line, zcPoint)
	samplesPerCell := sampleRate * fmCellUs / 1e6

	pos := FirstTransitionAfter(m, activeVideoStart)
	if pos < 0 {
		return 0, false, false
	}

	var bits uint64
	nbits := 0
	bits = (bits << 1) | 1
	nbits++

	cursor := float64(pos)
	for nbits < fmTotalBits {
		cursor += samplesPerCell * 0.75
		idx := int(cursor)
		if idx < 0 || idx >= len(m) {
			break
		}
		next := NextTransition(m, idx)
		if next < 0 {
			break
		}
		var bit uint64
		if m[idx] {
			bit = 1
		}
		bits = (bits << 1) | bit
		nbits++
		cursor = float64(next)
	}

	if nbits != fmTotalBits {
		return 0, false, false
	}

	clockSync := uint32((bits >> 36) & 0xF)
	field := (bits >> 35) & 0x1
	leading := uint32((bits >> 28) & 0x7F)
	data := uint32((bits >> 8) & 0xFFFFF)
	parity := (bits >> 7) & 0x1
	trailing := uint32(bits & 0x7F)

	if clockSync != fmClockSyncExpected {
		return 0, false, false
	}
	if leading != fmLeadingExpected {
		return 0, false, false
	}
	if trailing != fmTrailingExpected {
		return 0, false, false
	}

	// Parity bit is odd iff the payload has even parity (standard inversion).
	evenParity := popcount20(data)%2 == 0
	wantParity := uint64(0)
	if evenParity {
		wantParity = 1
	}
	if parity != wantParity {
		return 0, false, false
	}

	return data, field == 1, true
}

func popcount20(v uint32) int {
	n := 0
	for i := 0; i < 20; i++ {
		if v&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}
