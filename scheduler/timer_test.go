// Copyright (c) motionpad Authors. All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNewTimer(t *testing.T) {
	s := New(time.Millisecond, 0)

	const tc = 1000
	var counter int64
	for i := 0; i < tc; i++ {
		s.NewTimer(1*time.Millisecond, func() {
			atomic.AddInt64(&counter, 1)
		})
	}

	<-time.After(5 * time.Millisecond)
	s.cron()
	s.cron()
	if counter != tc*2 {
		t.Fatalf("expect: %d, got: %d", tc*2, counter)
	}

	if len(s.timers) != tc {
		t.Fatalf("timers: %d", len(s.timers))
	}

	if len(s.created) != 0 {
		t.Fatalf("created: %d", len(s.created))
	}
}

func TestNewAfterTimer(t *testing.T) {
	s := New(time.Millisecond, 0)

	const tc = 1000
	var counter int64
	var timers []*Timer
	for i := 0; i < tc; i++ {
		timers = append(timers, s.NewAfterTimer(1*time.Millisecond, func() {
			atomic.AddInt64(&counter, 1)
		}))
	}

	<-time.After(5 * time.Millisecond)
	s.cron()
	s.cron()
	if counter != tc {
		t.Fatalf("expect: %d, got: %d", tc, counter)
	}

	if len(s.timers) != 0 {
		t.Fatalf("timers: %d", len(s.timers))
	}
	for _, timer := range timers {
		if !timer.Stopped() {
			t.Fatalf("timer %d still running", timer.ID())
		}
	}
}

func TestNewCountTimer(t *testing.T) {
	s := New(time.Millisecond, 0)

	const tc = 100
	var counter int64
	for i := 0; i < tc; i++ {
		s.NewCountTimer(1*time.Millisecond, 3, func() {
			atomic.AddInt64(&counter, 1)
		})
	}

	<-time.After(10 * time.Millisecond)
	for i := 0; i < 5; i++ {
		s.cron()
	}
	if counter != tc*3 {
		t.Fatalf("expect: %d, got: %d", tc*3, counter)
	}

	if len(s.timers) != 0 {
		t.Fatalf("timers: %d", len(s.timers))
	}
}

func TestNewCountTimerInvalidCount(t *testing.T) {
	s := New(time.Millisecond, 0)
	defer func() {
		if recover() == nil {
			t.Fatal("zero count must panic")
		}
	}()
	s.NewCountTimer(time.Millisecond, 0, func() {})
}

func TestTimerStop(t *testing.T) {
	s := New(time.Millisecond, 0)

	var counter int64
	timer := s.NewTimer(time.Millisecond, func() {
		atomic.AddInt64(&counter, 1)
	})
	timer.Stop()

	<-time.After(3 * time.Millisecond)
	s.cron()
	if counter != 0 {
		t.Fatalf("stopped timer fired %d times", counter)
	}
	if len(s.timers) != 0 {
		t.Fatalf("timers: %d", len(s.timers))
	}
}

func TestTimerPanicRecovered(t *testing.T) {
	s := New(time.Millisecond, 0)
	var after int64
	s.NewAfterTimer(time.Millisecond, func() { panic("boom") })
	s.NewAfterTimer(time.Millisecond, func() { atomic.AddInt64(&after, 1) })

	<-time.After(3 * time.Millisecond)
	s.cron()
	if after != 1 {
		t.Fatal("panicking timer stopped the round")
	}
}
