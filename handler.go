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
	"encoding/json"
	"fmt"
	"net"

	"github.com/lonng/motionpad/internal/codec"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/internal/message"
	"github.com/lonng/motionpad/internal/packet"
	"github.com/lonng/motionpad/service"
	"github.com/pingcap/errors"
)

// handshake is the optional body of a client handshake packet
type handshake struct {
	Name string `json:"name"`
}

func (srv *Server) cache() {
	data, err := json.Marshal(map[string]interface{}{
		"code": 200,
		"sys":  map[string]float64{"heartbeat": env.Heartbeat.Seconds()},
	})
	if err != nil {
		panic(err)
	}

	srv.hrd, err = codec.Encode(packet.Handshake, data)
	if err != nil {
		panic(err)
	}

	srv.hbd, err = codec.Encode(packet.Heartbeat, nil)
	if err != nil {
		panic(err)
	}
}

func (srv *Server) handle(conn net.Conn) {
	// create a client agent and startup write gorontine
	agent := newAgent(conn, srv)
	service.Connections.Increment()

	// startup write goroutine
	go agent.write()

	if env.Debug {
		log.Println(fmt.Sprintf("New session established: %s", agent.String()))
	}

	// guarantee agent related resource be destroyed
	defer func() {
		agent.Close()
		if env.Debug {
			log.Println(fmt.Sprintf("Session read goroutine exit, SessionID=%d, Name=%s", agent.session.ID(), agent.session.Name()))
		}
	}()

	// read loop
	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if env.Debug {
				log.Println(fmt.Sprintf("Read message error: %s, session will be closed immediately", err.Error()))
			}
			return
		}

		packets, err := agent.decoder.Decode(buf[:n])
		if err != nil {
			log.Println(err.Error())
			return
		}

		// process all packet
		for i := range packets {
			if err := srv.processPacket(agent, packets[i]); err != nil {
				log.Println(err.Error())
				return
			}
		}
	}
}

func (srv *Server) processPacket(agent *agent, p *packet.Packet) error {
	switch p.Type {
	case packet.Handshake:
		if agent.status() != statusStart {
			return errors.Errorf("duplicate handshake, remote=%s", agent.conn.RemoteAddr())
		}
		if len(p.Data) > 0 {
			hs := handshake{}
			if err := json.Unmarshal(p.Data, &hs); err != nil {
				return errors.Annotate(err, "invalid handshake")
			}
			if hs.Name != "" {
				agent.session.Rename(hs.Name)
			}
		}
		if _, err := agent.conn.Write(srv.hrd); err != nil {
			return err
		}

		agent.setStatus(statusHandshake)
		if env.Debug {
			log.Println(fmt.Sprintf("Session handshake Id=%d, Remote=%s", agent.session.ID(), agent.conn.RemoteAddr()))
		}

	case packet.HandshakeAck:
		if agent.status() != statusHandshake {
			return errors.Errorf("unexpected handshake ACK, remote=%s", agent.conn.RemoteAddr())
		}
		agent.setStatus(statusWorking)
		if env.Debug {
			log.Println(fmt.Sprintf("Receive handshake ACK Id=%d, Remote=%s", agent.session.ID(), agent.conn.RemoteAddr()))
		}
		if err := srv.group.Add(agent.session); err != nil {
			return err
		}
		if spawn := srv.opts.spawn; spawn != nil {
			s := agent.session
			if err := srv.sched.Schedule(func() { spawn(s) }); err != nil {
				return err
			}
		}

	case packet.Data:
		if agent.status() < statusWorking {
			return errors.Annotatef(ErrHandshakeRequired, "remote=%s", agent.conn.RemoteAddr())
		}

		msg, err := message.Decode(p.Data)
		if err != nil {
			return err
		}
		srv.processMessage(agent, msg)

	case packet.Rename:
		if agent.status() < statusWorking {
			return errors.Annotatef(ErrHandshakeRequired, "remote=%s", agent.conn.RemoteAddr())
		}
		s, name := agent.session, string(p.Data)
		if err := srv.sched.Schedule(func() { s.Rename(name) }); err != nil {
			return err
		}

	case packet.Heartbeat:
		// expected

	case packet.Kick:
		return errors.Errorf("client left, remote=%s", agent.conn.RemoteAddr())
	}

	agent.touch()
	return nil
}

func (srv *Server) processMessage(agent *agent, msg *message.Message) {
	service.Stats.IncPacketsIn()
	if msg.Type != message.Notify {
		// commands are fire-and-forget, nothing waits for a response
		if env.Debug {
			log.Println("Drop message without notify semantics: " + msg.String())
		}
		return
	}

	if pipe := srv.opts.pipeline; pipe != nil {
		if err := pipe.Inbound().Process(agent.session, msg); err != nil {
			log.Println("Pipeline process failed: " + err.Error())
			return
		}
	}

	if env.Debug {
		log.Println(fmt.Sprintf("ID=%d, Message={%s}", agent.session.ID(), msg.String()))
	}

	s, route, data := agent.session, msg.Route, msg.Data
	if err := srv.sched.Schedule(func() { s.Dispatch(route, data) }); err != nil {
		log.Println("Schedule command failed:", err)
	}
}
