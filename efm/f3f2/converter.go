/*
NAME
  converter.go

DESCRIPTION
  converter.go implements the F3->F2 converter: sections of 98 F3 frames
  are subcode-decoded, disc time is tracked with sync-loss detection and
  the implausible-jump guard, and each F3 frame is pushed through
  C1 -> C2 -> C2-deinterleave to assemble F2 frames stamped with their
  section's disc time.

  Grounded on
  original_source/tools/ld-process-efm/Decoders/f3tof2frames.cpp.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package f3f2

import (
	"fmt"

	"github.com/ldtbc/tbc/efm/circ"
)

const maxPlausibleMinutes = 100

// F2Frame is one assembled 24-symbol payload frame, stamped with the disc
// time of the section it belongs to.
type F2Frame struct {
	Data             [24]byte
	Erasure          bool
	DiscTime         DiscTime
	TrackNumber      int
	TrackTime        DiscTime
	IsEncoderRunning bool
}

// Stats accumulates the converter's running counters, mirroring the
// original's getStatistics() accessor.
type Stats struct {
	TotalF3Frames         int
	TotalF2Frames         int
	PreempFrames          int
	SequenceInterruptions int
	MissingF3Frames       int
	InitialDiscTime       DiscTime
	CurrentDiscTime       DiscTime

	C1             circ.Stats
	C2             circ.Stats
	C2Deinterleave circ.Stats
}

func (s *Stats) accumulate(c1, c2, c2d circ.Stats) {
	s.C1.Pass += c1.Pass
	s.C1.Corrected += c1.Corrected
	s.C1.Failed += c1.Failed
	s.C1.Flushed += c1.Flushed
	s.C2.Pass += c2.Pass
	s.C2.Corrected += c2.Corrected
	s.C2.Failed += c2.Failed
	s.C2.Flushed += c2.Flushed
	s.C2Deinterleave.Pass += c2d.Pass
	s.C2Deinterleave.Corrected += c2d.Corrected
	s.C2Deinterleave.Failed += c2d.Failed
	s.C2Deinterleave.Flushed += c2d.Flushed
}

// Converter converts a stream of F3 sections into F2 frames.
type Converter struct {
	noTimeStamp bool

	c1         *circ.C1Codec
	c2Inter    *circ.C2Interleaver
	c2Codec    *circ.C2Codec
	c2Deinter  *circ.C2Deinterleaver

	initialDiscTimeSet bool
	lastDiscTime       DiscTime
	lostSections       bool

	sectionQueue     []QMetadata
	sectionTimeQueue []DiscTime
	f2Pending        []F2Frame

	stats Stats
}

// NewConverter returns a Converter. When noTimeStamp is true, disc times
// are synthesised as strictly contiguous starting from zero instead of
// being read from the Q channel.
func NewConverter(noTimeStamp bool) *Converter {
	return &Converter{
		noTimeStamp: noTimeStamp,
		c1:          circ.NewC1Codec(),
		c2Inter:     circ.NewC2Interleaver(),
		c2Codec:     circ.NewC2Codec(),
		c2Deinter:   circ.NewC2Deinterleaver(),
	}
}

// Stats returns a snapshot of the converter's running counters, including
// counts accumulated by codec stages flushed on prior sync losses.
func (c *Converter) Stats() Stats {
	s := c.stats
	s.accumulate(c.c1.Stats, c.c2Codec.Stats, c.c2Deinter.Stats)
	return s
}

// Process converts one or more complete 98-frame sections of F3 frames
// into F2 frames. Supplying a slice whose length is not a multiple of 98
// is a programming bug upstream and panics, per spec §4.H's invariant.
func (c *Converter) Process(frames []F3Frame) []F2Frame {
	if len(frames)%framesPerSection != 0 {
		panic(fmt.Sprintf("f3f2: Process() received %d F3 frames, not a multiple of %d", len(frames), framesPerSection))
	}

	var out []F2Frame
	for base := 0; base < len(frames); base += framesPerSection {
		out = append(out, c.processSection(frames[base:base+framesPerSection])...)
	}
	return out
}

func (c *Converter) processSection(frames []F3Frame) []F2Frame {
	c.stats.TotalF3Frames += framesPerSection

	var arr [framesPerSection]F3Frame
	copy(arr[:], frames)
	section := NewSection(arr)

	if section.Q.QMode == 1 || section.Q.QMode == 4 {
		framesSinceInitial := section.Q.DiscTime.Diff(c.stats.InitialDiscTime)
		if framesSinceInitial > maxPlausibleMinutes*60*framesPerSecond {
			section.Q = QMetadata{}
		}
	}
	if section.Q.QMode == 1 || section.Q.QMode == 4 {
		if !section.Q.Preemphasis {
			c.stats.PreempFrames++
		}
	}

	if !c.initialDiscTimeSet {
		if c.noTimeStamp {
			c.stats.InitialDiscTime = DiscTime{}
			c.lastDiscTime = DiscTime{}.Sub(1)
			c.initialDiscTimeSet = true
		} else if (section.Q.QMode == 1 || section.Q.QMode == 4) && !section.Q.IsLeadIn && !section.Q.IsLeadOut {
			c.stats.InitialDiscTime = section.Q.DiscTime
			c.lastDiscTime = section.Q.DiscTime.Sub(1)
			c.initialDiscTimeSet = true
		}
	}

	if !c.initialDiscTimeSet {
		return nil
	}

	var currentDiscTime DiscTime
	if section.Q.QMode == 1 || section.Q.QMode == 4 {
		if !c.noTimeStamp {
			currentDiscTime = section.Q.DiscTime
		} else {
			currentDiscTime = c.lastDiscTime.Add(1)
		}
		c.lostSections = false
	} else {
		currentDiscTime = c.lastDiscTime.Add(1)
		c.lostSections = false
	}

	gap := currentDiscTime.Diff(c.lastDiscTime)
	if gap > 1 {
		c.stats.SequenceInterruptions++
		c.stats.MissingF3Frames += (gap - 1) * framesPerSection
		c.flushBuffers()
		c.lostSections = true
	}

	c.lastDiscTime = currentDiscTime
	c.stats.CurrentDiscTime = currentDiscTime

	c.sectionQueue = append(c.sectionQueue, section.Q)
	c.sectionTimeQueue = append(c.sectionTimeQueue, currentDiscTime)

	var out []F2Frame
	for i := range frames {
		f3 := frames[i]
		c1 := c.c1.Decode(f3.Symbols, f3.Erasures)

		c2in, c2erasures := c.c2Inter.Push(&c1)
		c2 := c.c2Codec.Decode(c2in, c2erasures)

		deinterleaved, erasure := c.c2Deinter.Push(&c2)

		meta := c.sectionQueue[0]
		discTime := c.sectionTimeQueue[0]
		f2 := F2Frame{Data: deinterleaved, Erasure: erasure, DiscTime: discTime}
		if meta.QMode == 1 || meta.QMode == 4 {
			f2.TrackTime = meta.TrackTime
			f2.TrackNumber = meta.TrackNumber
			f2.IsEncoderRunning = meta.IsEncoderRunning
		} else {
			f2.TrackNumber = 1
			f2.IsEncoderRunning = true
		}

		c.f2Pending = append(c.f2Pending, f2)
		if len(c.f2Pending) == framesPerSection {
			out = append(out, c.f2Pending...)
			c.stats.TotalF2Frames += framesPerSection
			c.f2Pending = nil
			c.sectionQueue = c.sectionQueue[1:]
			c.sectionTimeQueue = c.sectionTimeQueue[1:]
		}
	}
	return out
}

// flushBuffers discards the C1, C2 and C2-deinterleave delay-buffer state
// after a section gap, folding their counters into the converter's
// running totals first so a flush doesn't lose history.
func (c *Converter) flushBuffers() {
	c.stats.accumulate(c.c1.Stats, c.c2Codec.Stats, c.c2Deinter.Stats)
	c.stats.C1.Flushed++
	c.stats.C2.Flushed++
	c.stats.C2Deinterleave.Flushed++

	c.c1 = circ.NewC1Codec()
	c.c2Inter = circ.NewC2Interleaver()
	c.c2Codec = circ.NewC2Codec()
	c.c2Deinter = circ.NewC2Deinterleaver()
	c.sectionQueue = nil
	c.sectionTimeQueue = nil
	c.f2Pending = nil
}
