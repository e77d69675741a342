/*
NAME
  whiteflag.go

DESCRIPTION
  whiteflag.go implements white-flag detection: a line is marked as a white
  flag when >= 50% of active samples exceed the Y midpoint between black and
  white IRE anchors.

  Grounded on original_source/tools/ld-process-ntsc/whiteflag.cpp and
  tools/ld-process-vbi/whiteflag.cpp (the two near-duplicate original
  implementations collapse to the one rule below).

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

// IsWhiteFlag reports whether the given active-video samples (already
// restricted to [activeVideoStart,activeVideoEnd)) should be marked a white
// flag line.
func IsWhiteFlag(active []uint16, blackIre, whiteIre float64) bool {
	if len(active) == 0 {
		return false
	}
	mid := (blackIre + whiteIre) / 2
	above := 0
	for _, s := range active {
		if float64(s) > mid {
			above++
		}
	}
	return float64(above)/float64(len(active)) >= 0.5
}
