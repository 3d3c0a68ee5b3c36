package service

import (
	"sync/atomic"
)

// Connections tracks live controller connections and hands out session ids
var Connections = newConnectionService()

type connectionService struct {
	count int64
	peak  int64
	sid   int64
}

func newConnectionService() *connectionService {
	return &connectionService{sid: 0}
}

// Increment records a new connection and updates the peak
func (c *connectionService) Increment() {
	n := atomic.AddInt64(&c.count, 1)
	for {
		peak := atomic.LoadInt64(&c.peak)
		if n <= peak || atomic.CompareAndSwapInt64(&c.peak, peak, n) {
			return
		}
	}
}

func (c *connectionService) Decrement() {
	atomic.AddInt64(&c.count, -1)
}

func (c *connectionService) Count() int64 {
	return atomic.LoadInt64(&c.count)
}

func (c *connectionService) Peak() int64 {
	return atomic.LoadInt64(&c.peak)
}

func (c *connectionService) Reset() {
	atomic.StoreInt64(&c.count, 0)
	atomic.StoreInt64(&c.peak, 0)
	atomic.StoreInt64(&c.sid, 0)
}

// SessionID returns the next session id, ids start at 1
func (c *connectionService) SessionID() int64 {
	return atomic.AddInt64(&c.sid, 1)
}
