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

package pipeline

import (
	"sort"
	"sync"

	"github.com/lonng/motionpad/internal/message"
	"github.com/lonng/motionpad/session"
)

type (
	// Message is the alias of `message.Message`
	Message = message.Message

	// Func inspects or rewrites a message, an error drops it
	Func func(s *session.Session, msg *message.Message) error

	// Pipeline holds the hooks run on every inbound and outbound command
	Pipeline interface {
		Outbound() Channel
		Inbound() Channel
	}

	pipeline struct {
		outbound, inbound *pipelineChannel
	}

	// Channel is an ordered hook list
	Channel interface {
		PushFront(h Func)
		PushBack(h Func)
		Process(s *session.Session, msg *message.Message) error
	}

	pipelineChannel struct {
		mu       sync.RWMutex
		handlers []Func
	}
)

// New returns an empty pipeline
func New() Pipeline {
	return &pipeline{
		outbound: &pipelineChannel{},
		inbound:  &pipelineChannel{},
	}
}

func (p *pipeline) Outbound() Channel { return p.outbound }
func (p *pipeline) Inbound() Channel  { return p.inbound }

// PushFront push a function to the front of the pipeline
func (p *pipelineChannel) PushFront(h Func) {
	p.mu.Lock()
	defer p.mu.Unlock()
	handlers := make([]Func, len(p.handlers)+1)
	handlers[0] = h
	copy(handlers[1:], p.handlers)
	p.handlers = handlers
}

// PushBack push a function to the end of the pipeline
func (p *pipelineChannel) PushBack(h Func) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Process runs the hooks in order and stops at the first error
func (p *pipelineChannel) Process(s *session.Session, msg *message.Message) error {
	p.mu.RLock()
	handlers := p.handlers
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := h(s, msg); err != nil {
			return err
		}
	}
	return nil
}

// RouteCounter counts messages per route, Count is a ready made hook
type RouteCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewRouteCounter returns an empty counter
func NewRouteCounter() *RouteCounter {
	return &RouteCounter{counts: map[string]int64{}}
}

// Count is a pipeline Func recording msg.Route
func (c *RouteCounter) Count(_ *session.Session, msg *message.Message) error {
	c.mu.Lock()
	c.counts[msg.Route]++
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the counts
func (c *RouteCounter) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Routes returns the seen routes in order
func (c *RouteCounter) Routes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	routes := make([]string, 0, len(c.counts))
	for k := range c.counts {
		routes = append(routes, k)
	}
	sort.Strings(routes)
	return routes
}
