/*
NAME
  converter_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package f3f2

import "testing"

func qSectionFrames(t *testing.T, discTime DiscTime) []F3Frame {
	t.Helper()
	var q [12]byte
	q[0] = 0x01 // Mode 1, control 0.
	q[1] = 0x01 // Track 1 (BCD).
	q[7] = bcdByte(discTime.Minutes)
	q[8] = bcdByte(discTime.Seconds)
	q[9] = bcdByte(discTime.Frames)

	crc := crc16XModem(q[:10])
	onDisc := ^crc
	q[10] = byte(onDisc >> 8)
	q[11] = byte(onDisc)

	arr := buildQSection(q)
	return arr[:]
}

func bcdByte(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}

func TestConverterFirstSectionSetsInitialDiscTimeWithNoGap(t *testing.T) {
	c := NewConverter(false)
	c.Process(qSectionFrames(t, DiscTime{}))

	stats := c.Stats()
	if stats.SequenceInterruptions != 0 {
		t.Errorf("SequenceInterruptions = %d, want 0", stats.SequenceInterruptions)
	}
	if stats.TotalF3Frames != framesPerSection {
		t.Errorf("TotalF3Frames = %d, want %d", stats.TotalF3Frames, framesPerSection)
	}
}

// TestConverterDetectsSyncLossOnDiscTimeGap mirrors spec's named "F3-to-F2
// sync loss" scenario: a 5-frame gap between consecutive sections'
// disc-time stamps should register one sequence interruption and flag the
// 4 intervening sections' worth of frames as missing.
func TestConverterDetectsSyncLossOnDiscTimeGap(t *testing.T) {
	c := NewConverter(false)
	c.Process(qSectionFrames(t, DiscTime{}))
	c.Process(qSectionFrames(t, DiscTime{Frames: 5}))

	stats := c.Stats()
	if stats.SequenceInterruptions != 1 {
		t.Errorf("SequenceInterruptions = %d, want 1", stats.SequenceInterruptions)
	}
	wantMissing := 4 * framesPerSection
	if stats.MissingF3Frames != wantMissing {
		t.Errorf("MissingF3Frames = %d, want %d", stats.MissingF3Frames, wantMissing)
	}
	if stats.TotalF3Frames != 2*framesPerSection {
		t.Errorf("TotalF3Frames = %d, want %d", stats.TotalF3Frames, 2*framesPerSection)
	}
}

func TestConverterNoTimeStampModeSynthesizesContiguousTime(t *testing.T) {
	c := NewConverter(true)
	// Q channel content is irrelevant in noTimeStamp mode; an all-zero
	// section (QMode 0) exercises the non-positional branch.
	var zero [framesPerSection]F3Frame
	out := c.Process(zero[:])

	stats := c.Stats()
	if stats.SequenceInterruptions != 0 {
		t.Errorf("SequenceInterruptions = %d, want 0", stats.SequenceInterruptions)
	}
	// Each section's own 98-frame inner loop fills the pending-frame queue
	// to its 98-frame flush threshold by the time that section finishes
	// processing, so one section's worth of input already yields one
	// section's worth of F2 output.
	if len(out) != framesPerSection {
		t.Errorf("len(out) = %d, want %d after one section", len(out), framesPerSection)
	}
}

func TestConverterProcessPanicsOnPartialSection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Process did not panic on a non-multiple-of-98 input")
		}
	}()
	c := NewConverter(true)
	c.Process(make([]F3Frame, framesPerSection-1))
}
