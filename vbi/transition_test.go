/*
NAME
  transition_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

import "testing"

func TestTransitionMapDebouncesSingleSampleSpikes(t *testing.T) {
	// A lone sample above zcPoint surrounded by low samples should not flip
	// the map state: the debouncer requires three consecutive opposite
	// readings before committing to a new state.
	line := []uint16{0, 0, 0, 100, 0, 0, 0}
	m := TransitionMap(line, 50)
	for i, v := range m {
		if v {
			t.Errorf("m[%d] = true, want false (single-sample spike should be rejected)", i)
		}
	}
}

func TestTransitionMapCommitsAfterThreeSamples(t *testing.T) {
	line := []uint16{0, 0, 0, 100, 100, 100, 100}
	m := TransitionMap(line, 50)
	want := []bool{false, false, false, false, false, false, true}
	for i := range want {
		if m[i] != want[i] {
			t.Errorf("m[%d] = %v, want %v", i, m[i], want[i])
		}
	}
}

func TestFirstTransitionAfterAndNextTransition(t *testing.T) {
	m := []bool{false, false, true, true, false, false, true}
	if pos := FirstTransitionAfter(m, 0); pos != 2 {
		t.Errorf("FirstTransitionAfter(0) = %d, want 2", pos)
	}
	if pos := NextTransition(m, 2); pos != 4 {
		t.Errorf("NextTransition(2) = %d, want 4", pos)
	}
	if pos := NextTransition(m, 4); pos != 6 {
		t.Errorf("NextTransition(4) = %d, want 6", pos)
	}
	if pos := NextTransition(m, 6); pos != -1 {
		t.Errorf("NextTransition(6) = %d, want -1", pos)
	}
}

func TestFirstTransitionAfterNoneFound(t *testing.T) {
	m := []bool{true, true, true, true}
	if pos := FirstTransitionAfter(m, 0); pos != -1 {
		t.Errorf("FirstTransitionAfter = %d, want -1", pos)
	}
}
