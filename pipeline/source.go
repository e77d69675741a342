/*
NAME
  source.go

DESCRIPTION
  source.go implements FrameRangeSource, the InputSource used by the
  cmd binaries that process a fixed, known frame range (stacker, VBI
  decoder): frame numbers are handed out from Start to End
  inclusive, each resolved to a Task payload via a caller-supplied Build
  function, per spec §6's -s/--start and -l/--length flags.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package pipeline

// FrameRangeSource hands out Tasks for a contiguous frame range. Not safe
// for concurrent use on its own; Scheduler serialises calls to Next via its
// input mutex.
type FrameRangeSource struct {
	next, end int
	build     func(frameNo int) (interface{}, error)
}

// NewFrameRangeSource returns a FrameRangeSource covering [start, end]
// inclusive, resolving each frame number to a Task payload via build.
func NewFrameRangeSource(start, end int, build func(frameNo int) (interface{}, error)) *FrameRangeSource {
	return &FrameRangeSource{next: start, end: end, build: build}
}

// Next implements InputSource.
func (s *FrameRangeSource) Next() (Task, bool, error) {
	if s.next > s.end {
		return Task{}, false, nil
	}
	frameNo := s.next
	s.next++

	input, err := s.build(frameNo)
	if err != nil {
		return Task{}, false, err
	}
	return Task{FrameNo: frameNo, Input: input}, true, nil
}
