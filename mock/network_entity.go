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

package mock

import (
	"net"
	"sync"
)

// NetAddr mock net addr
type NetAddr struct{}

// Network implements the net.Addr interface
func (a NetAddr) Network() string { return "mock" }

// String implements the net.Addr interface
func (a NetAddr) String() string { return "mock-addr" }

// Message is a command pushed through the entity
type Message struct {
	Route string
	Data  interface{}
}

// NetworkEntity represents an network entity which can be used to construct
// the session object. It records every push and can be told to fail.
type NetworkEntity struct {
	mu       sync.Mutex
	messages []Message
	closed   int
	pushErr  error
}

// NewNetworkEntity returns an mock network entity
func NewNetworkEntity() *NetworkEntity {
	return &NetworkEntity{}
}

// Push implements the session.NetworkEntity interface
func (n *NetworkEntity) Push(route string, v interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pushErr != nil {
		return n.pushErr
	}
	n.messages = append(n.messages, Message{Route: route, Data: v})
	return nil
}

// FailPush makes every following Push return err, nil restores success
func (n *NetworkEntity) FailPush(err error) {
	n.mu.Lock()
	n.pushErr = err
	n.mu.Unlock()
}

// Close implements the session.NetworkEntity interface
func (n *NetworkEntity) Close() error {
	n.mu.Lock()
	n.closed++
	n.mu.Unlock()
	return nil
}

// Closed reports how many times Close was called
func (n *NetworkEntity) Closed() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// RemoteAddr implements the session.NetworkEntity interface
func (n *NetworkEntity) RemoteAddr() net.Addr {
	return NetAddr{}
}

// Messages returns a copy of every pushed message
func (n *NetworkEntity) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.messages...)
}

// LastMessage returns the most recent push or nil
func (n *NetworkEntity) LastMessage() *Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) < 1 {
		return nil
	}
	m := n.messages[len(n.messages)-1]
	return &m
}

// FindMessagesByRoute returns the data of every push on route
func (n *NetworkEntity) FindMessagesByRoute(route string) []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	var found []interface{}
	for i := range n.messages {
		if n.messages[i].Route == route {
			found = append(found, n.messages[i].Data)
		}
	}
	return found
}

// Reset forgets recorded pushes
func (n *NetworkEntity) Reset() {
	n.mu.Lock()
	n.messages = nil
	n.mu.Unlock()
}
