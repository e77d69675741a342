/*
NAME
  padding.go

DESCRIPTION
  padding.go implements the padded-field metadata fix-up applied when the
  emitter writes combined metadata JSON: a VBI frame number some sources
  lack data for still needs one metadata record per source, so the padded
  stand-ins borrow their phase ID (extrapolated) and the rest of their
  fields (copied) from the frame's first non-padded source, per spec §4.J.

  Grounded on original_source/tools/ld-disc-stacker/main.cpp's handling of
  missing source fields when writing the combined .tbc.json.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package pipeline

import "github.com/ldtbc/tbc/metadata"

// fieldPhaseCycle is the burst-phase identifier's period; see glossary.
const fieldPhaseCycle = 4

// FixupPadding rewrites the padded entries of one frame's per-source field
// metadata list in place: FieldPhaseID is extrapolated from the first
// non-padded field modulo fieldPhaseCycle, and every other field (VBI,
// dropouts, NTSC extras, closed captions, VITC) is copied verbatim from
// that same first non-padded field. A list with no non-padded field is
// left untouched — there is nothing to extrapolate from.
func FixupPadding(fields []metadata.FieldMetadata) {
	first := -1
	for i := range fields {
		if !fields[i].Pad {
			first = i
			break
		}
	}
	if first == -1 {
		return
	}

	ref := fields[first]
	for i := range fields {
		if !fields[i].Pad || i == first {
			continue
		}
		offset := i - first
		phase := ((ref.FieldPhaseID - 1 + offset) % fieldPhaseCycle) + fieldPhaseCycle
		phase = phase%fieldPhaseCycle + 1

		seqNo := fields[i].SeqNo
		pad := fields[i].Pad
		fields[i] = ref
		fields[i].SeqNo = seqNo
		fields[i].Pad = pad
		fields[i].FieldPhaseID = phase
	}
}
