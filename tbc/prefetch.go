/*
NAME
  prefetch.go

DESCRIPTION
  prefetch.go implements PrefetchReader, a background-goroutine prefetcher
  for piped/stdin TBC sources: a reader goroutine fills a pool.Buffer ring
  one field-sized chunk at a time, decoupling the blocking read syscall
  from worker consumption of PrefetchReader.Next.

  Grounded on device/alsa/alsa.go's ring-buffered streaming pattern
  (pool.NewBuffer/buf.Write/buf.Next/chunk.Bytes/chunk.Close).

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package tbc

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/ausocean/utils/pool"

	"github.com/ldtbc/tbc/errs"
)

const (
	prefetchRingLen = 50
	prefetchTimeout = 2 * time.Second
)

// PrefetchReader wraps a piped io.Reader with a background fill goroutine
// writing field-sized chunks into a pool.Buffer ring.
type PrefetchReader struct {
	buf            *pool.Buffer
	width, height  int
	stride         int
}

// NewPrefetchReader starts prefetching fields of the given geometry from
// src in a background goroutine.
func NewPrefetchReader(src io.Reader, width, height int) *PrefetchReader {
	stride := width * height * 2
	p := &PrefetchReader{
		buf:    pool.NewBuffer(prefetchRingLen, stride, prefetchTimeout),
		width:  width,
		height: height,
		stride: stride,
	}
	go p.fill(src)
	return p
}

func (p *PrefetchReader) fill(src io.Reader) {
	chunk := make([]byte, p.stride)
	for {
		n, err := io.ReadFull(src, chunk)
		if n > 0 {
			p.buf.Write(chunk[:n])
		}
		if err != nil {
			p.buf.Close()
			return
		}
	}
}

// Next blocks until the next prefetched field is available, decodes it to
// u16 samples, and returns it.
func (p *PrefetchReader) Next() ([]uint16, error) {
	chunk, err := p.buf.Next(prefetchTimeout)
	if err != nil {
		return nil, errs.IO("Next", err)
	}
	data := chunk.Bytes()
	out := make([]uint16, p.width*p.height)
	for j := range out {
		out[j] = binary.LittleEndian.Uint16(data[j*2:])
	}
	if closeErr := chunk.Close(); closeErr != nil {
		return out, errs.IO("Next", closeErr)
	}
	return out, nil
}
