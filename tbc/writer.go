/*
NAME
  writer.go

DESCRIPTION
  writer.go implements sequential field writing: each field is written as
  fieldWidth*fieldHeight little-endian u16 samples with no framing. Used by
  both the stacker and the composite encoder.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package tbc

import (
	"encoding/binary"
	"io"

	"github.com/ldtbc/tbc/errs"
)

// Writer writes fields sequentially to an io.Writer.
type Writer struct {
	w      io.Writer
	width  int
	height int
}

// NewWriter returns a Writer for fields of the given geometry.
func NewWriter(w io.Writer, width, height int) *Writer {
	return &Writer{w: w, width: width, height: height}
}

// WriteField writes one field of width*height u16 samples.
func (w *Writer) WriteField(samples []uint16) error {
	if len(samples) != w.width*w.height {
		return errs.IO("WriteField", io.ErrShortWrite)
	}
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], s)
	}
	n, err := w.w.Write(buf)
	if err != nil {
		return errs.IO("WriteField", err)
	}
	if n != len(buf) {
		return errs.IO("WriteField", io.ErrShortWrite)
	}
	return nil
}
