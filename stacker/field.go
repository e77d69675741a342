/*
NAME
  field.go

DESCRIPTION
  field.go implements StackField: the per-pixel combination loop over one
  field's worth of aligned source samples, including differential DOD
  recovery, the five stacking modes, previous-good-value fallback and
  dropout-run coalescing, per spec §4.I.

  Grounded on
  original_source/tools/ld-disc-stacker/stacker.cpp's Stacker::stackField.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package stacker

import "github.com/ldtbc/tbc/metadata"

// Config configures one StackField invocation.
type Config struct {
	Mode           Mode
	SmartThreshold int
	NoDiffDod      bool
	PassThrough    bool
}

// CombinedFrame is one output frame: two stacked fields and their
// respective recovered dropout lists.
type CombinedFrame struct {
	FirstField, SecondField   []uint16
	FirstDropOuts, SecondDropOuts metadata.DropOuts
}

// gatherCenter collects the values at (x,y) from the available sources'
// fields that aren't individually flagged dropout, plus (when noDiffDod
// is false) the raw values of sources that are flagged, so a later
// diffDOD pass can attempt recovery. allDropout reports whether every
// available source flagged (x,y) as dropout.
func gatherCenter(fields []FieldData, available []int, width, x, y int, noDiffDod bool) ([]uint16, bool) {
	allDropout := true
	var values []uint16
	for _, idx := range available {
		fd := &fields[idx]
		pixel := fd.Samples[width*y+x]
		if !isDropout(fd.DropOuts, x, y) {
			values = append(values, pixel)
			allDropout = false
			continue
		}
		if pixel > 0 && !noDiffDod {
			values = append(values, pixel)
		}
	}
	return values, allDropout
}

// gatherDirection collects one neighbor direction's candidate values,
// applying diffDOD if every available source flagged that neighbor pixel
// as dropout.
func gatherDirection(fields []FieldData, available []int, width, x, y int, noDiffDod bool) ([]uint16, bool) {
	values, allDropout := gatherCenter(fields, available, width, x, y, noDiffDod)
	if allDropout && len(available) >= 3 && !noDiffDod {
		values = diffDod(values)
	}
	return values, allDropout
}

func gatherNeighbors(fields []FieldData, available []int, width, height, x, y int, noDiffDod bool) neighborSet {
	var n neighborSet
	if y > 0 {
		n.North, n.NAllDO = gatherDirection(fields, available, width, x, y-1, noDiffDod)
	} else {
		n.NAllDO = true
	}
	if y < height-1 {
		n.South, n.SAllDO = gatherDirection(fields, available, width, x, y+1, noDiffDod)
	} else {
		n.SAllDO = true
	}
	if x > 0 {
		n.West, n.WAllDO = gatherDirection(fields, available, width, x-1, y, noDiffDod)
	} else {
		n.WAllDO = true
	}
	if x < width-1 {
		n.East, n.EAllDO = gatherDirection(fields, available, width, x+1, y, noDiffDod)
	} else {
		n.EAllDO = true
	}
	return n
}

// StackField combines one field's worth of samples across the sources
// indexed by available, returning the combined field and its recovered
// dropout list.
func StackField(fields []FieldData, available []int, p *metadata.VideoParameters, cfg Config) ([]uint16, metadata.DropOuts) {
	width, height := p.FieldWidth, p.FieldHeight
	out := make([]uint16, width*height)
	var dropouts metadata.DropOuts

	if len(available) == 0 {
		black := uint16(p.Black16bIre)
		for y := 0; y < height; y++ {
			for x := p.ColourBurstStart; x < width; x++ {
				out[width*y+x] = black
			}
		}
		return out, dropouts
	}

	prevGood := uint16(p.Black16bIre)
	for y := 0; y < height; y++ {
		runStart := -1
		for x := 0; x < width; x++ {
			values, allDropout := gatherCenter(fields, available, width, x, y, cfg.NoDiffDod)

			var neighbors neighborSet
			if cfg.Mode == ModeSmartNeighbor || cfg.Mode == ModeNeighbor {
				neighbors = gatherNeighbors(fields, available, width, height, x, y, cfg.NoDiffDod)
			}

			if allDropout && len(available) >= 3 && !cfg.NoDiffDod && x > p.ColourBurstStart {
				values = diffDod(values)
			}

			forceDropout := cfg.PassThrough && x > p.ColourBurstStart && len(values) == 0

			var result uint16
			switch len(values) {
			case 0:
				result = prevGood
			case 1:
				result = values[0]
				prevGood = result
			default:
				result = stackMode(values, neighbors, cfg.Mode, cfg.SmartThreshold)
				prevGood = result
			}
			out[width*y+x] = result

			flag := (len(values) == 0 && x > p.ColourBurstStart) || forceDropout
			if flag {
				if runStart == -1 {
					runStart = x
				}
			} else if runStart != -1 {
				dropouts.Add(runStart, x-1, y+1)
				runStart = -1
			}
		}
		if runStart != -1 {
			dropouts.Add(runStart, width, y+1)
		}
	}
	return out, dropouts
}

// StackFrame combines both fields of one VBI frame. firstFields and
// secondFields are parallel to the source list, already resolved by the
// caller (e.g. via Source.FieldAt); entries with Pad set are excluded.
func StackFrame(firstFields, secondFields []FieldData, p *metadata.VideoParameters, cfg Config) CombinedFrame {
	available := make([]int, 0, len(firstFields))
	for i := range firstFields {
		if !firstFields[i].Pad {
			available = append(available, i)
		}
	}
	first, firstDO := StackField(firstFields, available, p, cfg)
	second, secondDO := StackField(secondFields, available, p, cfg)
	return CombinedFrame{
		FirstField: first, SecondField: second,
		FirstDropOuts: firstDO, SecondDropOuts: secondDO,
	}
}
