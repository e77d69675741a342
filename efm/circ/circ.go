/*
NAME
  circ.go

DESCRIPTION
  circ.go implements the CIRC C1/C2 codecs and their interleave/deinterleave
  delay buffers: C1 (RS(32,28), corrects up to 2 symbols) interleaves the
  current F3 frame with the previous one at even/odd positions and inverts
  the Qm/Pm parity symbols; C2 (RS(28,24), up to 4 erasures) reads C1 output
  through a 109-frame staggered delay buffer; the final C2 deinterleave
  stage reassembles the 24-symbol F2 payload through a 3-frame delay
  buffer.

  Grounded on original_source/tools/ld-process-efm/Decoders/{c1circ,c2circ,
  c2deinterleave}.cpp.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package circ

import "sort"

// Stats accumulates pass/corrected/failed/flushed counts for a codec stage.
type Stats struct {
	Pass      int
	Corrected int
	Failed    int
	Flushed   int
}

func (s *Stats) recordOK(corrected int) {
	if corrected > 0 {
		s.Corrected++
	} else {
		s.Pass++
	}
}

func (s *Stats) recordFailed() { s.Failed++ }

// RecordFlushed marks one frame as emitted during stream-end flush.
func (s *Stats) RecordFlushed() { s.Flushed++ }

func erasureKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// --- C1 ---------------------------------------------------------------

const (
	c1FrameLen     = 32
	c1OutLen       = 28
	c1MaxCorrected = 2
)

// c1ParityPositions are the Qm (12-15) and Pm (28-31) parity symbol
// positions that the encoder inverts before writing to disc.
var c1ParityPositions = []int{12, 13, 14, 15, 28, 29, 30, 31}

// C1Frame is the 28-symbol output of the C1 decoder (24 data + 4 Qm
// parity), with an erasure flag set when the correction is untrustworthy.
type C1Frame struct {
	Symbols [c1OutLen]byte
	Erasure bool
}

// C1Codec decodes successive 32-symbol F3 frames, interleaving each with
// the previous frame it saw.
type C1Codec struct {
	rs            *Codec
	prevFrame     [c1FrameLen]byte
	prevErasures  map[int]bool
	havePrev      bool
	Stats         Stats
}

// NewC1Codec returns a C1 decoder over RS(32,28).
func NewC1Codec() *C1Codec {
	return &C1Codec{rs: NewCodec(c1FrameLen, c1OutLen), prevErasures: map[int]bool{}}
}

// Decode interleaves curFrame (32 symbols) with the previously seen frame,
// attempts RS correction, and returns the 28-symbol C1 output.
//
// curErasures lists 0-based positions within curFrame already known to be
// erasures (e.g. flagged upstream by EFM sync-loss detection).
func (c *C1Codec) Decode(curFrame [c1FrameLen]byte, curErasures []int) C1Frame {
	curErasureSet := make(map[int]bool, len(curErasures))
	for _, p := range curErasures {
		curErasureSet[p] = true
	}

	var interleaved [c1FrameLen]byte
	erasureSet := map[int]bool{}
	for i := 0; i < c1FrameLen; i++ {
		if i%2 == 0 {
			interleaved[i] = curFrame[i]
			if curErasureSet[i] {
				erasureSet[i] = true
			}
		} else {
			if c.havePrev {
				interleaved[i] = c.prevFrame[i]
				if c.prevErasures[i] {
					erasureSet[i] = true
				}
			} else {
				erasureSet[i] = true // No previous frame yet: treat as erasure.
			}
		}
	}

	for _, pos := range c1ParityPositions {
		interleaved[pos] ^= 0xFF
	}

	var out C1Frame
	if len(erasureSet) > 2 {
		copy(out.Symbols[:], interleaved[:c1OutLen])
		out.Erasure = true
		c.Stats.recordFailed()
	} else {
		buf := append([]byte(nil), interleaved[:]...)
		corrected, err := c.rs.Decode(buf, erasureKeys(erasureSet))
		if err != nil {
			copy(out.Symbols[:], interleaved[:c1OutLen])
			out.Erasure = true
			c.Stats.recordFailed()
		} else {
			copy(out.Symbols[:], buf[:c1OutLen])
			if corrected > c1MaxCorrected {
				out.Erasure = true
			}
			c.Stats.recordOK(corrected)
		}
	}

	c.prevFrame = curFrame
	c.prevErasures = curErasureSet
	c.havePrev = true
	return out
}

// --- C2 interleave + codec ---------------------------------------------

const (
	c2DelayLen     = 109
	c2FrameLen     = 28
	c2OutLen       = 24
	c2MaxCorrected = 3
	c2MaxErasures  = 4
)

// c1Ring is a 109-slot ring buffer of C1Frame pointers, indexed by age (0 =
// most recently pushed).
type c1Ring struct {
	buf [c2DelayLen]*C1Frame
	pos int
}

func (r *c1Ring) push(f *C1Frame) {
	r.pos = (r.pos + 1) % c2DelayLen
	r.buf[r.pos] = f
}

func (r *c1Ring) at(age int) *C1Frame {
	idx := ((r.pos-age)%c2DelayLen + c2DelayLen) % c2DelayLen
	return r.buf[idx]
}

// C2Frame is the 28-symbol (pre-deinterleave) output of the C2 RS decode.
type C2Frame struct {
	Symbols [c2FrameLen]byte
	Erasure bool
}

// C2Interleaver applies the staggered per-symbol delay rule
// c2[k] = c1DelayBuf[108-((27-k)*4)][k] to a stream of incoming C1Frames.
type C2Interleaver struct {
	ring c1Ring
}

// NewC2Interleaver returns an empty staggered-delay interleaver.
func NewC2Interleaver() *C2Interleaver { return &C2Interleaver{} }

// Push feeds one incoming C1Frame and returns the interleaved C2 input
// frame plus the positions that are erasures (either because the
// contributing C1 frame was flagged, or because history hasn't filled
// yet).
func (ci *C2Interleaver) Push(f *C1Frame) ([c2FrameLen]byte, []int) {
	ci.ring.push(f)

	var out [c2FrameLen]byte
	var erasures []int
	for k := 0; k < c2FrameLen; k++ {
		age := (27 - k) * 4
		src := ci.ring.at(age)
		if src == nil {
			erasures = append(erasures, k)
			continue
		}
		out[k] = src.Symbols[k]
		if src.Erasure {
			erasures = append(erasures, k)
		}
	}
	return out, erasures
}

// C2Codec decodes staggered-interleaved 28-symbol frames over RS(28,24),
// correcting up to 4 erasures.
type C2Codec struct {
	rs    *Codec
	Stats Stats
}

// NewC2Codec returns a C2 decoder over RS(28,24).
func NewC2Codec() *C2Codec {
	return &C2Codec{rs: NewCodec(c2FrameLen, c2OutLen)}
}

// Decode attempts RS correction of in (28 symbols) given known erasure
// positions, per spec §4.G's bypass/erasure-flag rules.
func (c *C2Codec) Decode(in [c2FrameLen]byte, erasures []int) C2Frame {
	var out C2Frame
	if len(erasures) > c2MaxErasures {
		out.Symbols = in
		out.Erasure = true
		c.Stats.recordFailed()
		return out
	}

	buf := append([]byte(nil), in[:]...)
	corrected, err := c.rs.Decode(buf, erasures)
	if err != nil {
		out.Symbols = in
		out.Erasure = true
		c.Stats.recordFailed()
		return out
	}
	copy(out.Symbols[:], buf)
	if corrected > c2MaxCorrected {
		out.Erasure = true
	}
	c.Stats.recordOK(corrected)
	return out
}

// --- C2 deinterleave ----------------------------------------------------

// c2DeinterleaveMap is the literal (outputIndex, sourceIndex, delay) scatter
// from IEC 60908 Figure 13, transcribed from c2deinterleave.cpp's
// deinterleave(): output positions drawing from the current C2 frame (delay
// 0) and those drawing from the frame two pushes earlier (delay 2) each
// pull from a distinct, non-contiguous set of source indices.
var c2DeinterleaveMap = [c2OutLen]struct {
	src   int
	delay int
}{
	0:  {0, 0},
	1:  {1, 0},
	2:  {6, 0},
	3:  {7, 0},
	4:  {16, 2},
	5:  {17, 2},
	6:  {22, 2},
	7:  {23, 2},
	8:  {2, 0},
	9:  {3, 0},
	10: {8, 0},
	11: {9, 0},
	12: {18, 2},
	13: {19, 2},
	14: {24, 2},
	15: {25, 2},
	16: {4, 0},
	17: {5, 0},
	18: {10, 0},
	19: {11, 0},
	20: {20, 2},
	21: {21, 2},
	22: {26, 2},
	23: {27, 2},
}

// C2Deinterleaver reassembles the final 24-symbol F2 payload from a
// 3-frame history of C2Frames, each output position reading either the
// current frame (delay 0) or the frame 2 pushes earlier (delay 2).
type C2Deinterleaver struct {
	history [3]*C2Frame
	pos     int
	filled  int
	Stats   Stats
}

// NewC2Deinterleaver returns an empty deinterleaver.
func NewC2Deinterleaver() *C2Deinterleaver { return &C2Deinterleaver{} }

// Push feeds one C2Frame and returns the deinterleaved 24-symbol F2
// payload plus a whole-frame erasure flag (set if any contributing
// symbol's source frame was erasure-flagged, or history hasn't filled).
func (d *C2Deinterleaver) Push(f *C2Frame) ([c2OutLen]byte, bool) {
	d.history[d.pos%3] = f
	d.pos++
	if d.filled < 3 {
		d.filled++
	}

	var out [c2OutLen]byte
	erasure := d.filled < 3
	for i, m := range c2DeinterleaveMap {
		idx := ((d.pos-1-m.delay)%3 + 3) % 3
		src := d.history[idx]
		if src == nil {
			erasure = true
			continue
		}
		out[i] = src.Symbols[m.src]
		if src.Erasure {
			erasure = true
		}
	}
	if erasure {
		d.Stats.recordFailed()
	} else {
		d.Stats.recordOK(0)
	}
	return out, erasure
}
