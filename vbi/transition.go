/*
NAME
  transition.go

DESCRIPTION
  transition.go implements the shared preprocessing step used by every VBI
  clock-recovery decoder: a boolean transition map over one line of 16-bit
  samples, map[x] = true iff sample[x] > zcPoint, with a three-sample
  debouncer that only flips the output state after three consecutive
  opposite readings (rejecting single-sample noise spikes).

  Grounded on original_source/tools/ld-process-vbi/vbiutilities.h's single
  shared transition-map utility — every decoder (biphase, FM-code, CEA-608,
  VITC, Video-ID) calls this one helper rather than reimplementing
  thresholding and debouncing per decoder.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package vbi implements the vertical-blanking-interval line decoders:
// biphase, FM-code, CEA-608, VITC, Video-ID and white-flag detection.
package vbi

// TransitionMap computes the debounced boolean transition vector for one
// line of samples against zcPoint.
func TransitionMap(line []uint16, zcPoint float64) []bool {
	out := make([]bool, len(line))
	if len(line) == 0 {
		return out
	}

	state := float64(line[0]) > zcPoint
	out[0] = state
	run := 0
	for x := 1; x < len(line); x++ {
		raw := float64(line[x]) > zcPoint
		if raw == state {
			run = 0
			out[x] = state
			continue
		}
		run++
		if run > 3 {
			state = raw
			run = 0
		}
		out[x] = state
	}
	return out
}

// FirstTransitionAfter returns the first index >= start where map[i] !=
// map[i-1], or -1 if none found.
func FirstTransitionAfter(m []bool, start int) int {
	if start < 1 {
		start = 1
	}
	for i := start; i < len(m); i++ {
		if m[i] != m[i-1] {
			return i
		}
	}
	return -1
}

// NextTransition returns the first index > after where map[i] != map[i-1].
func NextTransition(m []bool, after int) int {
	return FirstTransitionAfter(m, after+1)
}
