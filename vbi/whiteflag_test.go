/*
NAME
  whiteflag_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package vbi

import "testing"

func TestIsWhiteFlagMajorityAboveMidpoint(t *testing.T) {
	active := []uint16{60000, 60000, 60000, 0}
	if !IsWhiteFlag(active, 16384, 57344) {
		t.Errorf("IsWhiteFlag = false, want true (3/4 samples above midpoint)")
	}
}

func TestIsWhiteFlagMajorityBelowMidpoint(t *testing.T) {
	active := []uint16{0, 0, 0, 60000}
	if IsWhiteFlag(active, 16384, 57344) {
		t.Errorf("IsWhiteFlag = true, want false (1/4 samples above midpoint)")
	}
}

func TestIsWhiteFlagEmptyLine(t *testing.T) {
	if IsWhiteFlag(nil, 16384, 57344) {
		t.Errorf("IsWhiteFlag(nil) = true, want false")
	}
}

func TestIsWhiteFlagExactlyHalf(t *testing.T) {
	mid := (16384.0 + 57344.0) / 2
	active := []uint16{uint16(mid + 1), uint16(mid - 1)}
	if !IsWhiteFlag(active, 16384, 57344) {
		t.Errorf("IsWhiteFlag = false, want true (exactly half above midpoint)")
	}
}
