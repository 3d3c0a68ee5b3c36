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

package motionpad

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/session"
)

const (
	groupStatusWorking = 0
	groupStatusClosed  = 1
)

// Group is a set of live sessions keyed by session id
type Group struct {
	mu       sync.RWMutex
	status   int32                      // channel current status
	name     string                     // channel name
	sessions map[int64]*session.Session // session id map to session pointer
}

// NewGroup returns a new group instance
func NewGroup(n string) *Group {
	return &Group{
		status:   groupStatusWorking,
		name:     n,
		sessions: make(map[int64]*session.Session),
	}
}

// Member returns specified session by id
func (c *Group) Member(id int64) *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sessions[id]
}

// Members returns all member's session ids in order
func (c *Group) Members() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int64, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Contains check whether a session id is contained in current group or not
func (c *Group) Contains(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.sessions[id]
	return ok
}

// Add add session to group
func (c *Group) Add(s *session.Session) error {
	if c.isClosed() {
		return ErrClosedGroup
	}

	if env.Debug {
		log.Println("Add session to group", c.name, "ID:", s.ID(), "Name:", s.Name())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[s.ID()] = s
	return nil
}

// Leave remove specified session from group
func (c *Group) Leave(s *session.Session) error {
	if c.isClosed() {
		return ErrClosedGroup
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[s.ID()]; !ok {
		return ErrMemberNotFound
	}
	delete(c.sessions, s.ID())
	return nil
}

// LeaveAll clear all sessions in the group
func (c *Group) LeaveAll() error {
	if c.isClosed() {
		return ErrClosedGroup
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions = make(map[int64]*session.Session)
	return nil
}

// Count get current member amount in the group
func (c *Group) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.sessions)
}

func (c *Group) isClosed() bool {
	return atomic.LoadInt32(&c.status) == groupStatusClosed
}

// Close refuses new members and closes the connection of every current
// member
func (c *Group) Close() error {
	if !atomic.CompareAndSwapInt32(&c.status, groupStatusWorking, groupStatusClosed) {
		return ErrCloseClosedGroup
	}

	c.mu.Lock()
	sessions := c.sessions
	c.sessions = make(map[int64]*session.Session)
	c.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(); err != nil && env.Debug {
			log.Println("Close session", s.ID(), "error:", err)
		}
	}
	return nil
}
