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
	"sync"
	"sync/atomic"
	"time"

	"github.com/lonng/motionpad/internal/log"
	"github.com/pingcap/errors"
)

const defaultBacklog = 1 << 10

// ErrClosed is returned when a task is scheduled on a stopped scheduler
var ErrClosed = errors.New("scheduler: closed")

// LocalScheduler schedules task to a customized goroutine
type LocalScheduler interface {
	Schedule(Task) error
}

type Task func()

// Scheduler runs tasks and timers on a single logic goroutine, so state
// touched only from tasks needs no locking.
type Scheduler struct {
	precision time.Duration
	chDie     chan struct{}
	chExit    chan struct{}
	chTasks   chan Task
	started   int32
	closed    int32

	incrementID int64
	timers      map[int64]*Timer // owned by the logic goroutine
	muCreated   sync.Mutex
	created     []*Timer
}

// New returns a scheduler whose timers fire with the given precision.
// A non-positive backlog selects the default task queue length.
func New(precision time.Duration, backlog int) *Scheduler {
	if precision <= 0 {
		panic("scheduler: non-positive timer precision")
	}
	if backlog <= 0 {
		backlog = defaultBacklog
	}
	return &Scheduler{
		precision: precision,
		chDie:     make(chan struct{}),
		chExit:    make(chan struct{}),
		chTasks:   make(chan Task, backlog),
		timers:    map[int64]*Timer{},
	}
}

func try(f func()) {
	defer func() {
		if err := recover(); err != nil {
			log.Println(fmt.Sprintf("Handle task panic: %+v\n%s", err, debug.Stack()))
		}
	}()
	f()
}

// Run blocks until Close is called. Only the first call runs the loop.
func (s *Scheduler) Run() {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	ticker := time.NewTicker(s.precision)
	defer func() {
		ticker.Stop()
		close(s.chExit)
	}()

	for {
		select {
		case <-ticker.C:
			s.cron()
		case f := <-s.chTasks:
			try(f)
		case <-s.chDie:
			return
		}
	}
}

// Close stops the loop and waits for it to exit. Pending tasks are dropped.
func (s *Scheduler) Close() {
	if atomic.AddInt32(&s.closed, 1) != 1 {
		return
	}
	close(s.chDie)
	if atomic.LoadInt32(&s.started) > 0 {
		<-s.chExit
	}
	log.Println("Scheduler stopped")
}

// Schedule queues task to run on the logic goroutine. It blocks while the
// queue is full.
func (s *Scheduler) Schedule(task Task) error {
	if atomic.LoadInt32(&s.closed) > 0 {
		return ErrClosed
	}
	select {
	case s.chTasks <- task:
		return nil
	case <-s.chDie:
		return ErrClosed
	}
}
