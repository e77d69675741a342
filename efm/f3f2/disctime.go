/*
NAME
  disctime.go

DESCRIPTION
  disctime.go implements the CD/LaserDisc subcode time representation
  (minutes:seconds:frames at 75 frames/second) used by Q-channel metadata
  and F2 frame stamping.

  Grounded on original_source/tools/ld-process-efm/tracktime.{h,cpp}.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package f3f2 converts CIRC-corrected F3 frames into F2 frames, tracking
// subcode Q-channel disc time and section-boundary sync loss.
package f3f2

import "fmt"

const framesPerSecond = 75

// DiscTime is a minutes:seconds:frames timestamp.
type DiscTime struct {
	Minutes, Seconds, Frames int
}

// totalFrames returns the timestamp expressed as an absolute frame count.
func (t DiscTime) totalFrames() int {
	return (t.Minutes*60+t.Seconds)*framesPerSecond + t.Frames
}

// DiscTimeFromFrames builds a DiscTime from an absolute frame count.
func DiscTimeFromFrames(n int) DiscTime {
	if n < 0 {
		n = 0
	}
	frames := n % framesPerSecond
	totalSeconds := n / framesPerSecond
	seconds := totalSeconds % 60
	minutes := totalSeconds / 60
	return DiscTime{Minutes: minutes, Seconds: seconds, Frames: frames}
}

// Add returns t advanced by n frames.
func (t DiscTime) Add(n int) DiscTime { return DiscTimeFromFrames(t.totalFrames() + n) }

// Sub returns t stepped back by n frames (clamped at zero).
func (t DiscTime) Sub(n int) DiscTime { return DiscTimeFromFrames(t.totalFrames() - n) }

// Diff returns t - other, in frames.
func (t DiscTime) Diff(other DiscTime) int { return t.totalFrames() - other.totalFrames() }

// String renders the timestamp as mm:ss:ff.
func (t DiscTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Minutes, t.Seconds, t.Frames)
}

func bcdToInt(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}
