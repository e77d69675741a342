/*
NAME
  scheduler_test.go

DESCRIPTION
  scheduler_test.go checks that Scheduler re-assembles out-of-order worker
  completions into strictly ascending frame order, and that a fatal Process
  error aborts the remaining workers.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package pipeline

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSchedulerOrdersOutOfOrderCompletions(t *testing.T) {
	const nFrames = 30

	src := NewFrameRangeSource(1, nFrames, func(frameNo int) (interface{}, error) {
		return frameNo, nil
	})

	// Each frame sleeps for an amount inversely correlated with its number,
	// so late frames tend to finish first and exercise the re-orderer.
	process := func(tk Task) Result {
		n := tk.Input.(int)
		time.Sleep(time.Duration(nFrames-n) * time.Microsecond)
		return Result{FrameNo: tk.FrameNo, Output: n}
	}

	var mu sync.Mutex
	var got []int
	emit := func(r Result) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, r.Output.(int))
		return nil
	}

	s := NewScheduler(Config{
		Workers:    8,
		StartFrame: 1,
		Source:     src,
		Process:    process,
		Emit:       emit,
	})
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != nFrames {
		t.Fatalf("got %d frames, want %d", len(got), nFrames)
	}
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("frame %d out of order: got %d", i, v)
		}
	}
}

func TestSchedulerAbortsOnFatalError(t *testing.T) {
	const nFrames = 50
	failAt := 10

	src := NewFrameRangeSource(1, nFrames, func(frameNo int) (interface{}, error) {
		return frameNo, nil
	})

	process := func(tk Task) Result {
		n := tk.Input.(int)
		if n == failAt {
			return Result{FrameNo: tk.FrameNo, Err: fmt.Errorf("synthetic failure at frame %d", n)}
		}
		return Result{FrameNo: tk.FrameNo, Output: n}
	}

	emit := func(r Result) error { return nil }

	s := NewScheduler(Config{
		Workers:    4,
		StartFrame: 1,
		Source:     src,
		Process:    process,
		Emit:       emit,
	})
	if err := s.Run(); err == nil {
		t.Fatal("Run: want error, got nil")
	}
	if !s.Aborted() {
		t.Fatal("Aborted() = false, want true after fatal error")
	}
}
