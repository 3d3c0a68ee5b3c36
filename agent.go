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
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/lonng/motionpad/internal/codec"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/internal/message"
	"github.com/lonng/motionpad/internal/packet"
	"github.com/lonng/motionpad/service"
	"github.com/lonng/motionpad/session"
)

const (
	agentWriteBacklog = 64
)

const (
	statusStart int32 = iota
	statusHandshake
	statusWorking
	statusClosed
)

type (
	// Agent corresponding a controller, used for store raw conn information
	agent struct {
		// regular agent member
		session *session.Session    // session
		conn    net.Conn            // low-level conn fd
		state   int32               // current agent state
		chDie   chan struct{}       // wait for close
		chSend  chan pendingMessage // push message queue
		lastAt  int64               // last heartbeat unix time stamp
		decoder *codec.Decoder      // binary decoder
		srv     *Server
	}

	pendingMessage struct {
		route   string      // message route(push)
		payload interface{} // payload
	}
)

func newAgent(conn net.Conn, srv *Server) *agent {
	a := &agent{
		conn:    conn,
		state:   statusStart,
		chDie:   make(chan struct{}),
		lastAt:  time.Now().Unix(),
		chSend:  make(chan pendingMessage, agentWriteBacklog),
		decoder: codec.NewDecoder(),
		srv:     srv,
	}

	// binding session
	a.session = session.New(a, "")
	return a
}

func (a *agent) send(m pendingMessage) (err error) {
	select {
	case a.chSend <- m:
		return nil
	case <-a.chDie:
		return ErrBrokenPipe
	default:
		service.Stats.IncDropped()
		return ErrBufferExceed
	}
}

// Push implements the session.NetworkEntity interface. Pushes are dropped
// once the send queue is full.
func (a *agent) Push(route string, v interface{}) error {
	if a.status() == statusClosed {
		return ErrBrokenPipe
	}

	if env.Debug {
		switch d := v.(type) {
		case []byte:
			log.Println(fmt.Sprintf("Type=Push, ID=%d, Name=%s, Route=%s, Data=%dbytes",
				a.session.ID(), a.session.Name(), route, len(d)))
		default:
			log.Println(fmt.Sprintf("Type=Push, ID=%d, Name=%s, Route=%s, Data=%+v",
				a.session.ID(), a.session.Name(), route, v))
		}
	}

	return a.send(pendingMessage{route: route, payload: v})
}

// Close implements the session.NetworkEntity interface. The disconnect
// notification is raised on the logic goroutine.
func (a *agent) Close() error {
	for {
		state := a.status()
		if state == statusClosed {
			return ErrCloseClosedSession
		}
		if atomic.CompareAndSwapInt32(&a.state, state, statusClosed) {
			break
		}
	}

	if env.Debug {
		log.Println(fmt.Sprintf("Session closed, ID=%d, Name=%s, IP=%s",
			a.session.ID(), a.session.Name(), a.conn.RemoteAddr()))
	}

	close(a.chDie)
	service.Connections.Decrement()
	a.srv.group.Leave(a.session)

	disconnect := func() { a.session.Disconnect() }
	if err := a.srv.sched.Schedule(disconnect); err != nil {
		disconnect()
	}

	return a.conn.Close()
}

// RemoteAddr implements the session.NetworkEntity interface
func (a *agent) RemoteAddr() net.Addr {
	return a.conn.RemoteAddr()
}

// String, implementation for Stringer interface
func (a *agent) String() string {
	return fmt.Sprintf("Remote=%s, LastTime=%d", a.conn.RemoteAddr().String(), atomic.LoadInt64(&a.lastAt))
}

func (a *agent) status() int32 {
	return atomic.LoadInt32(&a.state)
}

func (a *agent) setStatus(state int32) {
	atomic.StoreInt32(&a.state, state)
}

func (a *agent) touch() {
	atomic.StoreInt64(&a.lastAt, time.Now().Unix())
}

func (a *agent) write() {
	ticker := time.NewTicker(env.Heartbeat)
	// clean func
	defer func() {
		ticker.Stop()
		a.Close()
		if env.Debug {
			log.Println(fmt.Sprintf("Session write goroutine exit, SessionID=%d, Name=%s", a.session.ID(), a.session.Name()))
		}
	}()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(-2 * env.Heartbeat).Unix()
			if atomic.LoadInt64(&a.lastAt) < deadline {
				log.Println(fmt.Sprintf("Session heartbeat timeout, LastTime=%d, Deadline=%d", atomic.LoadInt64(&a.lastAt), deadline))
				return
			}
			if _, err := a.conn.Write(a.srv.hbd); err != nil {
				return
			}

		case data := <-a.chSend:
			payload, err := serializeOrRaw(data.payload)
			if err != nil {
				log.Println(fmt.Sprintf("Push: %s error: %s", data.route, err.Error()))
				break
			}

			// construct message and encode
			m := &message.Message{
				Type:  message.Push,
				Data:  payload,
				Route: data.route,
			}
			if pipe := a.srv.opts.pipeline; pipe != nil {
				if err := pipe.Outbound().Process(a.session, m); err != nil {
					log.Println("broken pipeline", err.Error())
					break
				}
			}

			em, err := m.Encode()
			if err != nil {
				log.Println(err.Error())
				break
			}

			// packet encode
			p, err := codec.Encode(packet.Data, em)
			if err != nil {
				log.Println(err)
				break
			}

			// close agent while low-level conn broken
			if _, err := a.conn.Write(p); err != nil {
				log.Println(err.Error())
				return
			}

		case <-a.chDie: // agent closed signal
			return

		case <-env.Die: // application quit
			return
		}
	}
}

func serializeOrRaw(v interface{}) ([]byte, error) {
	if data, ok := v.([]byte); ok {
		return data, nil
	}
	return env.Serializer.Marshal(v)
}
