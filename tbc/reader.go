/*
NAME
  reader.go

DESCRIPTION
  reader.go implements the raw field/frame I/O layer: a TBC file is a bare
  concatenation of fieldWidth x fieldHeight little-endian u16 samples per
  field, with no headers or framing. getVideoField(i) (here, Reader.Field)
  returns one field by 1-based index; random access is supported over a
  seekable source. The layer performs no interpretation of samples.

  Grounded on device/file/file.go's AVFile (open/seek/read-with-mutex shape)
  adapted from a byte-stream device abstraction to a fixed-stride random-
  access field store.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package tbc implements the raw TBC field/frame I/O layer.
package tbc

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/ldtbc/tbc/errs"
)

// Reader provides random access to fields stored in a TBC file.
type Reader struct {
	mu     sync.Mutex
	r      io.ReaderAt
	stride int64 // bytes per field = fieldWidth*fieldHeight*2.
	width  int
	height int
}

// NewReader returns a Reader over src for fields of the given geometry.
func NewReader(src io.ReaderAt, width, height int) *Reader {
	return &Reader{r: src, stride: int64(width) * int64(height) * 2, width: width, height: height}
}

// ErrShortRead is returned by Field when the source reaches EOF before a
// whole field of stride/2 samples could be read, including an index past
// the end of the file.
var ErrShortRead = fmt.Errorf("tbc: short field read")

// Field returns the 1-based i'th field as a slice of width*height u16
// samples. A read that reaches EOF before a whole field fails with
// ErrShortRead; any other read error is returned as it is.
func (r *Reader) Field(i int) ([]uint16, error) {
	if i < 1 {
		return nil, errs.IO("Field", fmt.Errorf("field index %d must be >= 1", i))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	off := int64(i-1) * r.stride
	buf := make([]byte, r.stride)
	n, err := readFullAt(r.r, buf, off)
	if err != nil && err != io.EOF {
		return nil, errs.IO("Field", err)
	}
	if int64(n) != r.stride {
		return nil, errs.IO("Field", ErrShortRead)
	}

	out := make([]uint16, r.width*r.height)
	for j := range out {
		out[j] = binary.LittleEndian.Uint16(buf[j*2:])
	}
	return out, nil
}

func readFullAt(r io.ReaderAt, buf []byte, off int64) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.ReadAt(buf[total:], off+int64(total))
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

// SequentialReader wraps an io.Reader (e.g. a pipe or stdin) that must be
// consumed strictly in field order; it has no random-access Field method,
// only Next, which returns the fields in sequence.
type SequentialReader struct {
	mu      sync.Mutex
	r       io.Reader
	width   int
	height  int
	stride  int
	nextIdx int // Next 1-based field index expected.
}

// NewSequentialReader returns a strictly-ordered reader over a piped source.
func NewSequentialReader(src io.Reader, width, height int) *SequentialReader {
	return &SequentialReader{r: src, width: width, height: height, stride: width * height * 2, nextIdx: 1}
}

// Next reads the next field in sequence. Callers must sequence worker tasks
// in field order when consuming a piped source, per spec §4.B.
func (r *SequentialReader) Next() ([]uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, r.stride)
	n, err := io.ReadFull(r.r, buf)
	if err == io.EOF && n == 0 {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errs.IO("Next", fmt.Errorf("field %d: %w", r.nextIdx, err))
	}
	out := make([]uint16, r.width*r.height)
	for j := range out {
		out[j] = binary.LittleEndian.Uint16(buf[j*2:])
	}
	r.nextIdx++
	return out, nil
}
