/*
NAME
  cea608.go

DESCRIPTION
  cea608.go implements the CEA-608 (line 21) closed-caption decoder: bit
  clock 32*fH, a run-in of sine cycles after colourburst, a 3-bit start
  code, then two 7-bit characters each followed by an odd-parity bit. Each
  byte is reported independently — a parity-failed byte is discarded
  without invalidating the other, per spec §4.D.

  Grounded on original_source/tools/ld-process-vbi/closedcaption.cpp.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

// DecodeCEA608 decodes one line-21 signal into up to two 7-bit characters.
// ok0/ok1 is false if that byte's parity failed (and its value is then
// meaningless).
func DecodeCEA608(line []uint16, zcPoint float64, fieldWidth int) (b0, b1 byte, ok0, ok1 bool) {
	bitWidth := float64(fieldWidth) / 32.0
	m := TransitionMap(line, zcPoint)

	// Locate start bits: first zero-run of at least 1.5 bit-widths, then
	// resync on the rising edge of the first 1.
	minZeroRun := int(1.5 * bitWidth)
	zeroRun := 0
	startIdx := -1
	for i := 1; i < len(m); i++ {
		if !m[i] {
			zeroRun++
		} else {
			if zeroRun >= minZeroRun {
				startIdx = i
				break
			}
			zeroRun = 0
		}
	}
	if startIdx < 0 {
		return 0, 0, false, false
	}

	// startIdx is the rising edge of the "1" that ends the "001" start
	// code; the first data bit cell begins one bit-width later.
	cursor := float64(startIdx) + bitWidth + bitWidth/2

	readByte := func() (byte, bool) {
		var bits [7]bool
		for i := 0; i < 7; i++ {
			idx := int(cursor)
			if idx < 0 || idx >= len(m) {
				return 0, false
			}
			bits[i] = m[idx]
			cursor += bitWidth
		}
		idx := int(cursor)
		var parityBit bool
		if idx >= 0 && idx < len(m) {
			parityBit = m[idx]
		}
		cursor += bitWidth

		var v byte
		ones := 0
		for i, bit := range bits {
			if bit {
				v |= 1 << uint(i)
				ones++
			}
		}
		// Odd parity: character has even bit-count iff parity bit = 1.
		wantParity := ones%2 == 0
		return v, wantParity == parityBit
	}

	b0, ok0 = readByte()
	b1, ok1 = readByte()
	return b0, b1, ok0, ok1
}
