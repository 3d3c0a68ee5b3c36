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

package session

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lonng/motionpad/service"
)

// NetworkEntity represent low-level network instance
type NetworkEntity interface {
	Push(route string, v interface{}) error
	Close() error
	RemoteAddr() net.Addr
}

// Dispatcher consumes the inbound commands of a session
type Dispatcher interface {
	Dispatch(route string, data []byte)
}

type (
	// DisconnectHandler is called once when the session goes away
	DisconnectHandler func(*Session)

	// NameChangeHandler is called with the new name every time the
	// transport renames the session
	NameChangeHandler func(s *Session, name string)
)

// Session represents a controller connection. Notifications are delivered
// synchronously on the goroutine that raises them, which is the logic
// goroutine for sessions served by the server.
type Session struct {
	id       int64         // session global unique id
	entity   NetworkEntity // low-level network entity
	lastTime int64         // last inbound time

	mu           sync.RWMutex
	name         string
	dispatcher   Dispatcher
	seq          int
	onDisconnect []*subscription
	onRename     []*subscription

	disconnected int32
}

type subscription struct {
	id         int
	disconnect DisconnectHandler
	rename     NameChangeHandler
}

// New returns a new session instance
// a NetworkEntity is a low-level network instance
func New(entity NetworkEntity, name string) *Session {
	return &Session{
		id:       service.Connections.SessionID(),
		entity:   entity,
		name:     name,
		lastTime: time.Now().Unix(),
	}
}

// ID returns the session id
func (s *Session) ID() int64 {
	return s.id
}

// Name returns the current session name
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Push message to client
func (s *Session) Push(route string, v interface{}) error {
	return s.entity.Push(route, v)
}

// Close terminate current session, the disconnect notification is raised
// by the transport once the connection is gone.
func (s *Session) Close() error {
	return s.entity.Close()
}

// RemoteAddr returns the remote network address.
func (s *Session) RemoteAddr() net.Addr {
	return s.entity.RemoteAddr()
}

// Bind sets the dispatcher receiving inbound commands, nil unbinds
func (s *Session) Bind(d Dispatcher) {
	s.mu.Lock()
	s.dispatcher = d
	s.mu.Unlock()
}

// Bound reports whether a dispatcher is attached
func (s *Session) Bound() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatcher != nil
}

// Dispatch forwards an inbound command to the bound dispatcher. Commands
// arriving with no dispatcher bound are dropped.
func (s *Session) Dispatch(route string, data []byte) {
	atomic.StoreInt64(&s.lastTime, time.Now().Unix())
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d == nil || s.Disconnected() {
		return
	}
	d.Dispatch(route, data)
}

// LastActive returns the unix time of the last inbound command
func (s *Session) LastActive() int64 {
	return atomic.LoadInt64(&s.lastTime)
}

// OnDisconnect subscribes h to the disconnect notification. The returned
// func cancels the subscription.
func (s *Session) OnDisconnect(h DisconnectHandler) (cancel func()) {
	return s.subscribe(&s.onDisconnect, &subscription{disconnect: h})
}

// OnNameChange subscribes h to transport renames. The returned func cancels
// the subscription.
func (s *Session) OnNameChange(h NameChangeHandler) (cancel func()) {
	return s.subscribe(&s.onRename, &subscription{rename: h})
}

func (s *Session) subscribe(list *[]*subscription, sub *subscription) func() {
	s.mu.Lock()
	s.seq++
	sub.id = s.seq
	*list = append(*list, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := *list
		for i, v := range subs {
			if v.id == sub.id {
				*list = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) snapshot(list []*subscription) []*subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*subscription(nil), list...)
}

// Rename adopts the transport assigned name and notifies subscribers
func (s *Session) Rename(name string) {
	if s.Disconnected() {
		return
	}
	s.mu.Lock()
	s.name = name
	subs := append([]*subscription(nil), s.onRename...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.rename(s, name)
	}
}

// Disconnect raises the disconnect notification, only the first call has
// any effect.
func (s *Session) Disconnect() {
	if !atomic.CompareAndSwapInt32(&s.disconnected, 0, 1) {
		return
	}
	for _, sub := range s.snapshot(s.onDisconnect) {
		sub.disconnect(s)
	}
	Lifetime.Close(s)
}

// Disconnected reports whether Disconnect has been raised
func (s *Session) Disconnected() bool {
	return atomic.LoadInt32(&s.disconnected) == 1
}
