/*
NAME
  combine_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package stacker

import (
	"reflect"
	"testing"
)

func TestDiffDodRecoversFalsePositives(t *testing.T) {
	got := diffDod([]uint16{100, 102, 5000})
	want := []uint16{100, 102}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("diffDod = %v, want %v", got, want)
	}
}

func TestDiffDodPassesThroughFewerThanThree(t *testing.T) {
	values := []uint16{100, 5000}
	got := diffDod(values)
	if !reflect.DeepEqual(got, values) {
		t.Errorf("diffDod = %v, want unchanged %v", got, values)
	}
}

func TestMedianOddAndEven(t *testing.T) {
	if m := median([]uint16{3, 1, 2}); m != 2 {
		t.Errorf("median(odd) = %d, want 2", m)
	}
	if m := median([]uint16{1, 2, 3, 4}); m != 2 {
		t.Errorf("median(even) = %d, want 2", m)
	}
}

func TestMeanRoundsDown(t *testing.T) {
	if m := mean([]uint16{1, 2, 4}); m != 2 {
		t.Errorf("mean = %d, want 2", m)
	}
}

func TestClosestPicksNearest(t *testing.T) {
	if c := closest([]uint16{10, 50, 100}, 40); c != 50 {
		t.Errorf("closest = %d, want 50", c)
	}
}

func TestStackModeMean(t *testing.T) {
	elements := []uint16{10, 20, 30}
	got := stackMode(elements, neighborSet{}, ModeMean, 5)
	if got != 20 {
		t.Errorf("stackMode(ModeMean) = %d, want 20", got)
	}
}

func TestStackModeMedian(t *testing.T) {
	elements := []uint16{10, 20, 30}
	got := stackMode(elements, neighborSet{}, ModeMedian, 5)
	if got != 20 {
		t.Errorf("stackMode(ModeMedian) = %d, want 20", got)
	}
}
