package service

import (
	"sync/atomic"
)

// Stats is the process wide command counter set
var Stats = &CommandStats{}

// CommandStats records command traffic, all methods are safe for
// concurrent use
type CommandStats struct {
	Dispatched    int64 // commands delivered to a handler
	Unknown       int64 // commands with no registered handler
	DecodeFailed  int64 // payloads that could not be decoded
	Sent          int64 // commands sent back to a controller
	Scored        int64 // goals reached
	PacketsIn     int64
	PacketsDropped int64 // packets refused by the transport
}

func (s *CommandStats) IncDispatched()   { atomic.AddInt64(&s.Dispatched, 1) }
func (s *CommandStats) IncUnknown()      { atomic.AddInt64(&s.Unknown, 1) }
func (s *CommandStats) IncDecodeFailed() { atomic.AddInt64(&s.DecodeFailed, 1) }
func (s *CommandStats) IncSent()         { atomic.AddInt64(&s.Sent, 1) }
func (s *CommandStats) IncScored()       { atomic.AddInt64(&s.Scored, 1) }
func (s *CommandStats) IncPacketsIn()    { atomic.AddInt64(&s.PacketsIn, 1) }
func (s *CommandStats) IncDropped()      { atomic.AddInt64(&s.PacketsDropped, 1) }

// Reset zeroes every counter
func (s *CommandStats) Reset() {
	for _, p := range []*int64{&s.Dispatched, &s.Unknown, &s.DecodeFailed,
		&s.Sent, &s.Scored, &s.PacketsIn, &s.PacketsDropped} {
		atomic.StoreInt64(p, 0)
	}
}

// Snapshot returns a read only copy suitable for an HTTP endpoint
func (s *CommandStats) Snapshot() map[string]any {
	return map[string]any{
		"dispatched":       atomic.LoadInt64(&s.Dispatched),
		"unknown":          atomic.LoadInt64(&s.Unknown),
		"decode_failed":    atomic.LoadInt64(&s.DecodeFailed),
		"sent":             atomic.LoadInt64(&s.Sent),
		"scored":           atomic.LoadInt64(&s.Scored),
		"packets_in":       atomic.LoadInt64(&s.PacketsIn),
		"packets_dropped":  atomic.LoadInt64(&s.PacketsDropped),
		"connections":      Connections.Count(),
		"connections_peak": Connections.Peak(),
	}
}
