/*
NAME
  emitter.go

DESCRIPTION
  emitter.go implements Emitter: an ordered sink that writes each Result's
  raw frame samples to an output stream and collects its field metadata,
  writing the combined metadata JSON document once the stream is fully
  drained, per spec §4.J.

  Grounded on metadata/store.go's Store/Marshal,
  original_source/tools/ld-disc-stacker/main.cpp's write-metadata-on-
  completion behaviour, and tbc/writer.go's sequential field writer, reused
  here rather than re-implemented.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package pipeline

import (
	"fmt"
	"io"

	"github.com/ldtbc/tbc/errs"
	"github.com/ldtbc/tbc/metadata"
	"github.com/ldtbc/tbc/tbc"
)

// FrameOutput is the payload a Process function produces for one frame: two
// fields' worth of samples plus their metadata, in display order.
type FrameOutput struct {
	FirstField, SecondField []uint16
	FirstMeta, SecondMeta   metadata.FieldMetadata
}

// Emitter writes FrameOutput results to w in order and accumulates their
// metadata, writing it to metaPath once Close is called.
type Emitter struct {
	w         *tbc.Writer
	closer    io.Writer
	metaPath  string
	params    metadata.VideoParameters
	isFFFirst bool

	firstFields  []metadata.FieldMetadata
	secondFields []metadata.FieldMetadata
}

// NewEmitter returns an Emitter writing samples to w and, on Close, the
// collected metadata to metaPath.
func NewEmitter(w io.Writer, metaPath string, params metadata.VideoParameters, isFirstFieldFirst bool) *Emitter {
	return &Emitter{
		w:         tbc.NewWriter(w, params.FieldWidth, params.FieldHeight),
		closer:    w,
		metaPath:  metaPath,
		params:    params,
		isFFFirst: isFirstFieldFirst,
	}
}

// Emit implements the Scheduler's Emit callback: writes one frame's two
// fields of little-endian u16 samples and records their metadata.
func (e *Emitter) Emit(res Result) error {
	out, ok := res.Output.(FrameOutput)
	if !ok {
		return errs.Format("Emitter.Emit", fmt.Errorf("result frame %d carries no FrameOutput", res.FrameNo))
	}

	if err := e.w.WriteField(out.FirstField); err != nil {
		return err
	}
	if err := e.w.WriteField(out.SecondField); err != nil {
		return err
	}

	e.firstFields = append(e.firstFields, out.FirstMeta)
	e.secondFields = append(e.secondFields, out.SecondMeta)
	return nil
}

// Close interleaves the accumulated first/second field metadata back into
// frame order and writes the combined metadata document to metaPath.
func (e *Emitter) Close() error {
	store := &metadata.Store{
		Params:            e.params,
		SchemaVersion:     metadata.CurrentSchemaVersion,
		IsFirstFieldFirst: e.isFFFirst,
	}
	store.Fields = make([]metadata.FieldMetadata, 0, 2*len(e.firstFields))
	for i := range e.firstFields {
		if e.isFFFirst {
			store.Fields = append(store.Fields, e.firstFields[i], e.secondFields[i])
		} else {
			store.Fields = append(store.Fields, e.secondFields[i], e.firstFields[i])
		}
	}
	if err := store.Write(e.metaPath); err != nil {
		return err
	}
	if c, ok := e.closer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return errs.IO("Emitter.Close", err)
		}
	}
	return nil
}
