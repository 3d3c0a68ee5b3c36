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

// Package connector is the controller side of the transport: it dials the
// server over WebSocket, runs the handshake, answers heartbeats and
// delivers pushed commands to registered callbacks.
package connector

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lonng/motionpad/internal/codec"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/internal/message"
	"github.com/lonng/motionpad/internal/packet"
	"github.com/lonng/motionpad/internal/wsconn"
	"github.com/lonng/motionpad/serialize"
	"github.com/pingcap/errors"
)

// ErrClosed is returned when sending on a closed connector
var ErrClosed = errors.New("connector: closed")

var (
	had []byte // handshake ack data
	hbd []byte // heartbeat data
)

func init() {
	var err error
	had, err = codec.Encode(packet.HandshakeAck, nil)
	if err != nil {
		panic(err)
	}

	hbd, err = codec.Encode(packet.Heartbeat, nil)
	if err != nil {
		panic(err)
	}
}

type (
	// Callback receives the raw payload of a pushed command
	Callback func(data []byte)

	// Option customizes a Connector
	Option func(*Connector)

	// Connector is a controller connection
	Connector struct {
		conn       net.Conn       // low-level connection
		codec      *codec.Decoder // decoder
		die        chan struct{}  // connector close channel
		chSend     chan []byte    // send queue
		name       string
		serializer serialize.Serializer
		dialer     *websocket.Dialer
		closeOnce  sync.Once

		// events handler
		muEvents sync.RWMutex
		events   map[string]Callback

		connectedCallback func() // connected callback
	}
)

// WithName sets the name announced in the handshake
func WithName(name string) Option {
	return func(c *Connector) {
		c.name = name
	}
}

// WithSerializer sets the payload serializer, it must match the server's
func WithSerializer(s serialize.Serializer) Option {
	return func(c *Connector) {
		c.serializer = s
	}
}

// WithDialer replaces websocket.DefaultDialer
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Connector) {
		c.dialer = d
	}
}

// NewConnector returns an unconnected connector
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		die:        make(chan struct{}),
		codec:      codec.NewDecoder(),
		chSend:     make(chan []byte, 64),
		events:     map[string]Callback{},
		serializer: env.Serializer,
		dialer:     websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start dials url, for example ws://127.0.0.1:3250/controller, and sends
// the handshake
func (c *Connector) Start(url string) error {
	ws, _, err := c.dialer.Dial(url, nil)
	if err != nil {
		return errors.Trace(err)
	}

	c.conn = wsconn.New(ws)

	go c.write()

	var body []byte
	if c.name != "" {
		body, err = json.Marshal(map[string]string{"name": c.name})
		if err != nil {
			return errors.Trace(err)
		}
	}
	hsd, err := codec.Encode(packet.Handshake, body)
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.send(hsd); err != nil {
		return err
	}

	// read and process goroutine
	go c.read()

	return nil
}

// OnConnected sets the callback run once the handshake completed
func (c *Connector) OnConnected(callback func()) {
	c.connectedCallback = callback
}

// On sets the callback of a pushed command
func (c *Connector) On(event string, callback Callback) {
	c.muEvents.Lock()
	defer c.muEvents.Unlock()

	c.events[event] = callback
}

// Notify sends a command without waiting for any reply. Raw []byte payloads
// are sent as is.
func (c *Connector) Notify(route string, v interface{}) error {
	data, ok := v.([]byte)
	if !ok {
		var err error
		if data, err = c.serializer.Marshal(v); err != nil {
			return errors.Trace(err)
		}
	}

	msg := &message.Message{
		Type:  message.Notify,
		Route: route,
		Data:  data,
	}
	return c.sendMessage(msg)
}

// Rename asks the transport to change this connection's name
func (c *Connector) Rename(name string) error {
	p, err := codec.Encode(packet.Rename, []byte(name))
	if err != nil {
		return errors.Trace(err)
	}
	return c.send(p)
}

// Close closes the connection, it is safe to call more than once
func (c *Connector) Close() {
	c.closeOnce.Do(func() {
		close(c.die)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// Done is closed once the connector is closed
func (c *Connector) Done() <-chan struct{} {
	return c.die
}

func (c *Connector) eventHandler(event string) (Callback, bool) {
	c.muEvents.RLock()
	defer c.muEvents.RUnlock()

	cb, ok := c.events[event]
	return cb, ok
}

func (c *Connector) sendMessage(msg *message.Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}

	payload, err := codec.Encode(packet.Data, data)
	if err != nil {
		return err
	}

	return c.send(payload)
}

func (c *Connector) write() {
	for {
		select {
		case data := <-c.chSend:
			if _, err := c.conn.Write(data); err != nil {
				log.Println(err.Error())
				c.Close()
				return
			}

		case <-c.die:
			return
		}
	}
}

func (c *Connector) send(data []byte) error {
	select {
	case <-c.die:
		return ErrClosed
	default:
	}

	select {
	case c.chSend <- data:
		return nil
	case <-c.die:
		return ErrClosed
	}
}

func (c *Connector) read() {
	buf := make([]byte, 2048)

	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if env.Debug {
				log.Println(err.Error())
			}
			c.Close()
			return
		}

		packets, err := c.codec.Decode(buf[:n])
		if err != nil {
			log.Println(err.Error())
			c.Close()
			return
		}

		for i := range packets {
			p := packets[i]
			c.processPacket(p)
		}
	}
}

func (c *Connector) processPacket(p *packet.Packet) {
	switch p.Type {
	case packet.Handshake:
		c.send(had)
		if c.connectedCallback != nil {
			c.connectedCallback()
		}

	case packet.Heartbeat:
		c.send(hbd)

	case packet.Data:
		msg, err := message.Decode(p.Data)
		if err != nil {
			log.Println(err.Error())
			return
		}
		c.processMessage(msg)

	case packet.Kick:
		c.Close()
	}
}

func (c *Connector) processMessage(msg *message.Message) {
	if msg.Type != message.Push {
		return
	}

	cb, ok := c.eventHandler(msg.Route)
	if !ok {
		if env.Debug {
			log.Println("event handler not found", msg.Route)
		}
		return
	}

	cb(msg.Data)
}
