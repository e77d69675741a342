/*
NAME
  decoder_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

import (
	"math"
	"testing"

	"github.com/ldtbc/tbc/encoder"
	"github.com/ldtbc/tbc/metadata"
)

func decoderTestParams() metadata.VideoParameters {
	return metadata.VideoParameters{
		System: metadata.SystemNTSC, FSC: 315000000.0 / 88.0, SampleRate: 4 * 315000000.0 / 88.0,
		FieldWidth: 910, FieldHeight: 263,
		ActiveVideoStart: 120, ActiveVideoEnd: 840,
		ColourBurstStart: 96, ColourBurstEnd: 118,
		Black16bIre: 16384, White16bIre: 57344, IsSubcarrierLocked: true,
	}
}

// encodeGreyFrame runs an all-grey RGB frame through encoder.NewEncoder and
// assembles the resulting two fields into a chroma.Frame, returning it
// alongside the 16-bit level the encoder should have written for every
// interior active sample (a neutral grey carries zero chroma, so rec601's Y
// equals the RGB input verbatim).
func encodeGreyFrame(t *testing.T, p metadata.VideoParameters, grey float64) (*Frame, float64) {
	t.Helper()
	enc := encoder.NewEncoder(p)

	const w, h = 4, 4
	rgb := &encoder.RGBFrame{Width: w, Height: h, R: make([]uint16, w*h), G: make([]uint16, w*h), B: make([]uint16, w*h)}
	for i := range rgb.R {
		rgb.R[i], rgb.G[i], rgb.B[i] = uint16(grey), uint16(grey), uint16(grey)
	}

	first, second, firstMeta, secondMeta := enc.EncodeFrame(rgb)
	frame := AssembleFrame(p.FieldWidth, p.FieldHeight, first, second, firstMeta.FieldPhaseID, secondMeta.FieldPhaseID)

	wantLevel := p.Black16bIre + (grey/65535.0)*(p.White16bIre-p.Black16bIre)
	return frame, wantLevel
}

// TestDecoder2DRoundTripRecoversGreyLuma encodes an all-grey frame (zero
// chroma, per rec601) and decodes it in 2D mode: a uniform grey field has no
// high-frequency content anywhere in its active video region, so split1D/
// split2D should estimate zero chroma throughout and the recovered Y, read
// well away from the sync/burst/raised-cosine edges, should fall within 1%
// of the level the encoder wrote.
func TestDecoder2DRoundTripRecoversGreyLuma(t *testing.T) {
	p := decoderTestParams()
	frame, wantLevel := encodeGreyFrame(t, p, 32768)

	dec, err := NewDecoder(Config{
		Params:     &p,
		Mode:       Mode2D,
		CNRLevel:   1e9, // Effectively disables coring: see core()'s sign convention.
		YNRLevel:   1e9,
		ChromaGain: 1,
	})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	out, err := dec.Push(frame)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if out == nil {
		t.Fatalf("Push returned nil output in 2D mode")
	}

	// A point well inside the active video region and far from the frame's
	// top/bottom edges, clear of every stage's neighbour window.
	x, y := (p.ActiveVideoStart+p.ActiveVideoEnd)/2, p.FrameHeight()/2

	got := out.Y[y][x]
	if tol := 0.01 * wantLevel; math.Abs(got-wantLevel) > tol {
		t.Errorf("Y[%d][%d] = %v, want %v +-1%% (%v)", y, x, got, wantLevel, tol)
	}
}

// TestDecoder1DRoundTripRecoversGreyLuma is the 1D-mode analogue: split1D
// alone should already show zero chroma for a uniform grey field, so the
// round trip holds under the simplest comb-filter mode too.
func TestDecoder1DRoundTripRecoversGreyLuma(t *testing.T) {
	p := decoderTestParams()
	frame, wantLevel := encodeGreyFrame(t, p, 32768)

	dec, err := NewDecoder(Config{
		Params:     &p,
		Mode:       Mode1D,
		CNRLevel:   1e9,
		YNRLevel:   1e9,
		ChromaGain: 1,
	})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	out, err := dec.Push(frame)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}

	x, y := (p.ActiveVideoStart+p.ActiveVideoEnd)/2, p.FrameHeight()/2
	got := out.Y[y][x]
	if tol := 0.01 * wantLevel; math.Abs(got-wantLevel) > tol {
		t.Errorf("Y[%d][%d] = %v, want %v +-1%% (%v)", y, x, got, wantLevel, tol)
	}
}

// TestDecoderPush3DWarmUpSuppressesFirstTwoFrames checks the documented 3D
// look-ahead warm-up: with fewer than 3 frames pushed, Push must return a
// nil ComponentFrame rather than decoding against missing neighbours.
func TestDecoderPush3DWarmUpSuppressesFirstTwoFrames(t *testing.T) {
	p := decoderTestParams()
	dec, err := NewDecoder(Config{Params: &p, Mode: Mode3D, Adaptive: true, ChromaGain: 1})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	frame, _ := encodeGreyFrame(t, p, 50)

	if out, err := dec.Push(frame); err != nil || out != nil {
		t.Errorf("1st push: out=%v err=%v, want nil,nil (warm-up)", out, err)
	}
	if out, err := dec.Push(frame); err != nil || out != nil {
		t.Errorf("2nd push: out=%v err=%v, want nil,nil (warm-up)", out, err)
	}
	out, err := dec.Push(frame)
	if err != nil {
		t.Fatalf("3rd push: %v", err)
	}
	if out == nil {
		t.Fatalf("3rd push: out = nil, want a decoded frame once the window is full")
	}
}
