/*
NAME
  source.go

DESCRIPTION
  source.go implements per-source alignment: mapping a common VBI frame
  number to each source's own sequential frame index, per spec §4.I's
  "source alignment" rule.

  Grounded on original_source/tools/ld-combine/tbcsources.{h,cpp}'s
  per-source min/max VBI-frame bookkeeping.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package stacker

import "github.com/ldtbc/tbc/metadata"

// FieldData is one field's raw samples and dropout metadata, as read from
// a source TBC.
type FieldData struct {
	Samples  []uint16
	DropOuts metadata.DropOuts
	Pad      bool
}

// Source is one input TBC aligned by VBI frame number: source s maps VBI
// frame v to its own sequential frame number via v-Min+1.
type Source struct {
	Min, Max int // Inclusive VBI frame-number bounds this source covers.
	Fields   []FieldData
}

// Available reports whether source Field data exists for VBI frame v and
// is not a padded placeholder.
func (s *Source) Available(v int) bool {
	fd := s.fieldAt(v)
	return fd != nil && !fd.Pad
}

func (s *Source) fieldAt(v int) *FieldData {
	if v < s.Min || v > s.Max {
		return nil
	}
	idx := v - s.Min
	if idx < 0 || idx >= len(s.Fields) {
		return nil
	}
	return &s.Fields[idx]
}

// FieldAt returns the FieldData for VBI frame v, or ok=false if
// unavailable.
func (s *Source) FieldAt(v int) (FieldData, bool) {
	fd := s.fieldAt(v)
	if fd == nil {
		return FieldData{}, false
	}
	return *fd, true
}

// AvailableSources returns the indices of sources that have real
// (non-pad) data for VBI frame v.
func AvailableSources(sources []*Source, v int) []int {
	var avail []int
	for i, s := range sources {
		if s.Available(v) {
			avail = append(avail, i)
		}
	}
	return avail
}

// isDropout reports whether (x,y) falls within one of do's recorded
// dropout runs.
func isDropout(do metadata.DropOuts, x, y int) bool {
	for i := 0; i < do.Len(); i++ {
		if do.FieldLine[i]-1 != y {
			continue
		}
		if x >= do.StartX[i] && x <= do.EndX[i] {
			return true
		}
	}
	return false
}
