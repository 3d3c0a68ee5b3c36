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
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/lonng/motionpad/internal/log"
)

const infinite = -1

type (
	// TimerFunc represents a function which will be called periodically in main
	// logic gorontine.
	TimerFunc func()

	// Timer represents a cron job
	Timer struct {
		id       int64         // timer id
		fn       TimerFunc     // function that execute
		createAt int64         // timer create time
		interval time.Duration // execution interval
		elapse   int64         // total elapse time
		closed   int32         // is timer closed
		counter  int           // remaining runs, owned by the logic goroutine
	}
)

// ID returns id of current timer
func (t *Timer) ID() int64 {
	return t.id
}

// Stop turns off a timer. After Stop, fn will not be called forever
func (t *Timer) Stop() {
	atomic.StoreInt32(&t.closed, 1)
}

// Stopped reports whether the timer was stopped or ran out of runs
func (t *Timer) Stopped() bool {
	return atomic.LoadInt32(&t.closed) > 0
}

// execute job function with protection
func safecall(id int64, fn TimerFunc) {
	defer func() {
		if err := recover(); err != nil {
			log.Println(fmt.Sprintf("Handle timer %d panic: %+v\n%s", id, err, debug.Stack()))
		}
	}()

	fn()
}

func (s *Scheduler) cron() {
	s.muCreated.Lock()
	for _, t := range s.created {
		s.timers[t.id] = t
	}
	s.created = s.created[:0]
	s.muCreated.Unlock()

	if len(s.timers) < 1 {
		return
	}

	unn := time.Now().UnixNano()
	for id, t := range s.timers {
		if t.Stopped() {
			delete(s.timers, id)
			continue
		}

		if t.createAt+t.elapse <= unn {
			safecall(id, t.fn)
			t.elapse += int64(t.interval)

			if t.counter != infinite {
				t.counter--
			}
		}

		if t.counter == 0 {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

// NewTimer returns a new Timer containing a function that will be called
// with a period specified by the duration argument. It adjusts the intervals
// for slow receivers.
// The duration d must be greater than zero; if not, NewTimer will panic.
// Stop the timer to release associated resources.
func (s *Scheduler) NewTimer(interval time.Duration, fn TimerFunc) *Timer {
	return s.NewCountTimer(interval, infinite, fn)
}

// NewCountTimer returns a new Timer containing a function that will be called
// with a period specified by the duration argument. After count times, timer
// will be stopped automatically.
func (s *Scheduler) NewCountTimer(interval time.Duration, count int, fn TimerFunc) *Timer {
	if fn == nil {
		panic("scheduler: nil timer function")
	}
	if interval <= 0 {
		panic("scheduler: non-positive interval for NewTimer")
	}
	if count == 0 || count < infinite {
		panic("scheduler: invalid timer count")
	}

	t := &Timer{
		id:       atomic.AddInt64(&s.incrementID, 1),
		fn:       fn,
		createAt: time.Now().UnixNano(),
		interval: interval,
		elapse:   int64(interval), // first execution will be after interval
		counter:  count,
	}

	s.muCreated.Lock()
	s.created = append(s.created, t)
	s.muCreated.Unlock()
	return t
}

// NewAfterTimer returns a new Timer containing a function that will be called
// once after duration.
func (s *Scheduler) NewAfterTimer(duration time.Duration, fn TimerFunc) *Timer {
	return s.NewCountTimer(duration, 1, fn)
}
