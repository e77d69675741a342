/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements the top-level chroma decoder: the rolling
  three-frame cyclic buffer (look-behind=look-ahead=1 for 3D mode), the
  per-frame stage pipeline in order (split1D -> split2D -> [split3D] ->
  splitIQ[locked] -> adjustY -> filterIQ -> doCNR/doYNR -> transformIQ), and
  the showMap debug palette override.

  Grounded on original_source/tools/ld-chroma-decoder/comb.cpp's frame loop,
  generalised per spec §9 from the original's owning-smart-pointer rotation
  to a fixed 3-element array indexed modulo 3 (no moves needed; the decoder
  exclusively owns all three buffers).

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import (
	"fmt"

	"github.com/ldtbc/tbc/metadata"
)

// Mode selects the comb-filter dimensionality.
type Mode int

const (
	Mode1D Mode = iota
	Mode2D
	Mode3D
)

// Config configures a Decoder.
type Config struct {
	Params         *metadata.VideoParameters
	Mode           Mode
	UseLockedIQ    bool // Use splitIQlocked instead of splitIQ.
	Adaptive       bool // 3D mode: false always picks PREV_FRAME.
	ShowMap        bool // 3D mode: overwrite UV with a debug palette.
	CNRLevel       float64
	YNRLevel       float64
	ChromaPhaseDeg float64
	ChromaGain     float64
}

// Validate checks configure-time invariants (fatal at configure time, per
// spec §4.E).
func (c *Config) Validate() error {
	if c.Params == nil {
		return fmt.Errorf("chroma: nil VideoParameters")
	}
	return c.Params.Validate()
}

// Decoder holds the rolling three-frame buffer and per-decoder config.
type Decoder struct {
	cfg Config

	// frames is the cyclic 3-element buffer; idx wraps modulo 3.
	frames [3]*Frame
	idx    int
	filled int // Number of frames pushed so far (saturates at 3).
}

// NewDecoder returns a configured Decoder.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{cfg: cfg}, nil
}

// showMapPalette is the fixed debug-palette keyed to the winning 3D
// candidate index.
var showMapPalette = map[Candidate3D][2]float64{
	Cand3DNone:      {0, 0},
	Cand3DLeft:      {50, 50},
	Cand3DRight:     {-50, 50},
	Cand3DUp:        {50, -50},
	Cand3DDown:      {-50, -50},
	Cand3DPrevField: {100, 0},
	Cand3DNextField: {-100, 0},
	Cand3DPrevFrame: {0, 100},
	Cand3DNextFrame: {0, -100},
}

// Push feeds the next input frame (field-interleaved) into the rolling
// buffer. Returns the emitted ComponentFrame for the centre of the
// three-frame window, or nil during 3D look-ahead warm-up (the first and
// last outputs are suppressed).
func (d *Decoder) Push(f *Frame) (*metadata.ComponentFrame, error) {
	d.frames[d.idx%3] = f
	d.idx++
	d.filled++

	if d.cfg.Mode == Mode3D && d.filled < 3 {
		// Warm-up: need look-behind and look-ahead before emitting.
		return nil, nil
	}

	var cur, prev, next *Frame
	if d.cfg.Mode == Mode3D {
		cur = d.frames[(d.idx-2)%3]
		prev = d.frames[(d.idx-3)%3]
		next = d.frames[(d.idx-1)%3]
	} else {
		cur = f
	}

	return d.decodeFrame(cur, prev, next)
}

// Flush always returns nil. In 3D mode the last pushed frame has no next
// frame and is never decoded, just as the first frame has no previous one;
// no trailing frame is emitted after the input stream ends.
func (d *Decoder) Flush() *metadata.ComponentFrame { return nil }

func (d *Decoder) decodeFrame(cur, prev, next *Frame) (*metadata.ComponentFrame, error) {
	p := d.cfg.Params
	activeStart, activeEnd := p.ActiveVideoStart, p.ActiveVideoEnd
	ireScale := p.IreScale()

	clp1 := Split1D(cur.Raw, activeStart, activeEnd)
	clp2 := Split2D(clp1, activeStart, activeEnd, ireScale)

	var chosenClp *Buffer = clp2
	var winners [][]Candidate3D

	if d.cfg.Mode == Mode3D {
		prevRaw, nextRaw := NewBuffer(cur.Width, cur.Height), NewBuffer(cur.Width, cur.Height)
		prevClp1, nextClp1 := NewBuffer(cur.Width, cur.Height), NewBuffer(cur.Width, cur.Height)
		if prev != nil {
			prevRaw = prev.Raw
			prevClp1 = Split1D(prevRaw, activeStart, activeEnd)
		}
		if next != nil {
			nextRaw = next.Raw
			nextClp1 = Split1D(nextRaw, activeStart, activeEnd)
		}
		prevClp2 := Split2D(prevClp1, activeStart, activeEnd, ireScale)
		nextClp2 := Split2D(nextClp1, activeStart, activeEnd, ireScale)

		clp3, w := Split3D(Split3DInputs{
			Raw: cur.Raw, Clp1: clp1, Clp2: clp2,
			PrevFrameRaw: prevRaw, PrevFrameClp1: prevClp1, PrevFrameClp2: prevClp2,
			NextFrameRaw: nextRaw, NextFrameClp1: nextClp1, NextFrameClp2: nextClp2,
			FieldPhaseIDs: cur.FieldPhaseIDs,
			Adaptive:      d.cfg.Adaptive,
			ShowMap:       d.cfg.ShowMap,
		}, activeStart, activeEnd, ireScale)
		chosenClp = clp3
		winners = w
	} else if d.cfg.Mode == Mode1D {
		chosenClp = clp1
	}

	var iq *IQFrame
	if d.cfg.UseLockedIQ {
		iq = SplitIQLocked(cur.Raw, chosenClp, p.ColourBurstStart, p.ColourBurstEnd, activeStart, activeEnd)
	} else {
		iq = SplitIQ(cur.Raw, chosenClp, cur.FieldPhaseIDs, activeStart, activeEnd)
		AdjustY(iq, chosenClp, cur.FieldPhaseIDs, activeStart, activeEnd)
	}

	FilterIQ(iq, p.SampleRate, activeStart, activeEnd)
	DoCNR(iq, p.SampleRate, d.cfg.CNRLevel, ireScale, activeStart, activeEnd)
	DoYNR(iq, p.SampleRate, d.cfg.YNRLevel, ireScale, activeStart, activeEnd)

	out := metadata.NewComponentFrame(cur.Width, cur.Height)
	TransformIQ(out, iq, d.cfg.ChromaPhaseDeg, d.cfg.ChromaGain, activeStart, activeEnd)

	if d.cfg.Mode == Mode3D && d.cfg.ShowMap && winners != nil {
		for y := range winners {
			for x, w := range winners[y] {
				if w == Cand3DNone && winners[y][x] == 0 && x < activeStart {
					continue
				}
				pal, ok := showMapPalette[w]
				if !ok {
					continue
				}
				out.U[y][x] = pal[0]
				out.V[y][x] = pal[1]
			}
		}
	}

	return out, nil
}
