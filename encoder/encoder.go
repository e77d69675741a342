/*
NAME
  encoder.go

DESCRIPTION
  encoder.go implements the synthetic composite encoder used as the
  decoder's test oracle: RGB->YIQ/YUV matrix conversion, a 13-tap symmetric
  FIR low-pass on the chroma difference channels, quadrature chroma
  generation, burst generation, raised-cosine active-video gating, sync
  pulse generation and 16-bit output clamping.

  Grounded on original_source/tools/ld-chroma-decoder/encoder/
  {ntscencoder,palencoder}.cpp.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package encoder implements the PAL/NTSC composite-video synthetic
// encoder used as the chroma decoder's test oracle.
package encoder

import (
	"math"

	"github.com/ldtbc/tbc/dsp"
	"github.com/ldtbc/tbc/metadata"
)

// RGBFrame is one input frame: 16-bit linear RGB per channel, Width*Height
// pixels, row-major.
type RGBFrame struct {
	Width, Height int
	R, G, B       []uint16
}

// Encoder synthesises TBC fields from RGB frames.
type Encoder struct {
	Params  metadata.VideoParameters
	lowpass []float64 // 13-tap symmetric FIR for chroma channels.
	seqNo   int
}

// NewEncoder returns an Encoder configured for Params.
func NewEncoder(p metadata.VideoParameters) *Encoder {
	return &Encoder{
		Params:  p,
		lowpass: dsp.LowPassCoeffs(1_300_000, p.SampleRate, 12),
	}
}

// rec601 converts linear RGB (0..65535) to Y/I/Q (NTSC) or Y/U/V (PAL)
// using the standard Rec.601 matrix weights.
func rec601(r, g, b float64) (y, c1, c2 float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	// I/U and Q/V share the same underlying colour-difference weights; the
	// caller picks NTSC (I/Q) vs PAL (U/V) framing.
	u := 0.492 * (b - y)
	v := 0.877 * (r - y)
	return y, u, v
}

// EncodeFrame synthesises the two fields (first, second) for one RGB frame
// and returns them as raw 16-bit TBC fields, plus the FieldMetadata phase
// progression for each, per spec §4.F.
func (e *Encoder) EncodeFrame(rgb *RGBFrame) (first, second []uint16, firstMeta, secondMeta metadata.FieldMetadata) {
	p := e.Params
	fieldHeight := p.FieldHeight

	// NTSC: fieldPhaseID progresses seqNo%4 (0-based cycled into 1..4).
	// PAL: 8-field sequence (here folded mod 4 for the 1..4 ID space).
	firstPhase := (e.seqNo % 4) + 1
	secondPhase := ((e.seqNo + 1) % 4) + 1

	first = e.encodeField(rgb, 0, fieldHeight, true)
	second = e.encodeField(rgb, 1, fieldHeight, false)

	firstMeta = metadata.FieldMetadata{SeqNo: e.seqNo*2 + 1, IsFirstField: true, FieldPhaseID: firstPhase}
	secondMeta = metadata.FieldMetadata{SeqNo: e.seqNo*2 + 2, IsFirstField: false, FieldPhaseID: secondPhase}

	e.seqNo++
	return first, second, firstMeta, secondMeta
}

// encodeField synthesises one field (even or odd lines of the source
// frame, picked by fieldParity) into a raw composite field.
func (e *Encoder) encodeField(rgb *RGBFrame, fieldParity, fieldHeight int, isFirst bool) []uint16 {
	p := e.Params
	out := make([]uint16, p.FieldWidth*fieldHeight)

	for fy := 0; fy < fieldHeight; fy++ {
		srcY := fy*2 + fieldParity
		lineNo := fy // Frame-relative line within this field.
		e.encodeLine(rgb, srcY, lineNo, out[fy*p.FieldWidth:(fy+1)*p.FieldWidth])
	}
	return out
}

func (e *Encoder) encodeLine(rgb *RGBFrame, srcY, lineNo int, out []uint16) {
	p := e.Params

	ys := make([]float64, p.FieldWidth)
	c1s := make([]float64, p.FieldWidth) // I (NTSC) or U (PAL).
	c2s := make([]float64, p.FieldWidth) // Q (NTSC) or V (PAL).

	vSwitch := 1.0
	if p.System == metadata.SystemPAL && lineNo%2 == 1 {
		vSwitch = -1 // PAL Vsw flips sign each line.
	}

	for x := p.ActiveVideoStart; x < p.ActiveVideoEnd; x++ {
		srcX := (x - p.ActiveVideoStart) * rgb.Width / (p.ActiveVideoEnd - p.ActiveVideoStart)
		if srcY < 0 || srcY >= rgb.Height || srcX < 0 || srcX >= rgb.Width {
			continue
		}
		idx := srcY*rgb.Width + srcX
		r, g, b := float64(rgb.R[idx]), float64(rgb.G[idx]), float64(rgb.B[idx])
		y, c1, c2 := rec601(r, g, b)
		ys[x] = y
		c1s[x] = c1
		c2s[x] = c2 * vSwitch
	}

	fir := dsp.NewFIR(e.lowpass)
	c1f := make([]float64, p.FieldWidth)
	c2f := make([]float64, p.FieldWidth)
	fir.Apply(c1s, c1f, p.FieldWidth)
	fir2 := dsp.NewFIR(e.lowpass)
	fir2.Apply(c2s, c2f, p.FieldWidth)

	for x := 0; x < p.FieldWidth; x++ {
		var chroma float64
		if x >= p.ActiveVideoStart && x < p.ActiveVideoEnd {
			omega := 2 * math.Pi * float64(x) / 4 // 4fSC sampling.
			chroma = c2f[x]*math.Sin(omega) + c1f[x]*math.Cos(omega)
		}

		composite := ys[x] + chroma
		composite = raisedCosineGate(composite, x, p.ActiveVideoStart, p.ActiveVideoEnd)

		level := p.Black16bIre + (composite/65535.0)*(p.White16bIre-p.Black16bIre)
		level = clampSample(level)
		out[x] = uint16(level)
	}

	addSyncAndBurst(out, p, lineNo)
}

// raisedCosineGate applies raised-cosine gates at the active-video
// boundaries (2 samples for luma envelope).
func raisedCosineGate(v float64, x, start, end int) float64 {
	const half = 2
	if x < start-half || x >= end+half {
		return 0
	}
	if x < start+half {
		frac := float64(x-(start-half)) / (2 * half)
		return v * (0.5 - 0.5*math.Cos(math.Pi*frac))
	}
	if x >= end-half {
		frac := float64((end+half)-x) / (2 * half)
		return v * (0.5 - 0.5*math.Cos(math.Pi*frac))
	}
	return v
}

func clampSample(v float64) float64 {
	const lo, hi = 0x0100, 0xFEFF
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// addSyncAndBurst writes a normal 4.7us sync pulse at the start of every
// line, then the colourburst. Equalization and broad pulses are not
// generated: every line, whatever its number, gets the same normal pulse.
func addSyncAndBurst(line []uint16, p metadata.VideoParameters, lineNo int) {
	syncLevel := p.Black16bIre - 0.4*(p.White16bIre-p.Black16bIre)
	syncSamples := int(4.7e-6 * p.SampleRate)
	for x := 0; x < syncSamples && x < len(line); x++ {
		line[x] = uint16(clampSample(syncLevel))
	}

	burstAmplitude := 0.4 * (p.White16bIre - p.Black16bIre)
	burstPhase := math.Pi // NTSC: 180deg from subcarrier.
	if p.System == metadata.SystemPAL {
		if lineNo%2 == 0 {
			burstPhase = 135 * math.Pi / 180
		} else {
			burstPhase = -135 * math.Pi / 180
		}
	}
	for x := p.ColourBurstStart; x < p.ColourBurstEnd && x < len(line); x++ {
		omega := 2*math.Pi*float64(x)/4 + burstPhase
		v := p.Black16bIre + burstAmplitude*math.Sin(omega)
		line[x] = uint16(clampSample(v))
	}
}
