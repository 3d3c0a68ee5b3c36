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

// Package motionpad serves handheld controllers over WebSocket and hands
// their commands to the game on a single logic goroutine.
package motionpad

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lonng/motionpad/component"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/internal/wsconn"
	"github.com/lonng/motionpad/scheduler"
	"github.com/lonng/motionpad/service"
	"github.com/pingcap/errors"
	"golang.org/x/net/netutil"
)

// Server accepts controller connections
type Server struct {
	opts     options
	sched    *scheduler.Scheduler
	group    *Group
	upgrader websocket.Upgrader

	hrd []byte // handshake response data
	hbd []byte // heartbeat packet data

	started   int32
	startOnce sync.Once
	mu        sync.Mutex
	httpSrv   *http.Server
}

// NewServer returns a server configured by opts. Options writing process
// settings apply to every server of the process.
func NewServer(opts ...Option) *Server {
	o := options{
		components: &component.Components{},
		metrics:    map[string]func() interface{}{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	srv := &Server{
		opts:  o,
		sched: scheduler.New(env.TimerPrecision, 0),
		group: NewGroup("controllers"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     env.CheckOrigin,
		},
	}
	srv.cache()
	return srv
}

// Scheduler returns the logic scheduler every session is served on
func (srv *Server) Scheduler() *scheduler.Scheduler {
	return srv.sched
}

// Sessions returns the group of connected controllers
func (srv *Server) Sessions() *Group {
	return srv.group
}

// Start runs the logic goroutine and the component startup hooks. Serve
// calls it, hosts mounting Handler elsewhere call it themselves.
func (srv *Server) Start() {
	srv.startOnce.Do(func() {
		atomic.StoreInt32(&srv.started, 1)
		go srv.sched.Run()
		srv.opts.components.Startup()
		for _, c := range srv.opts.components.List() {
			log.Println("Component started:", c.Name())
		}
	})
}

// Handler returns the HTTP handler serving controllers on the WebSocket
// path, plus /healthz and /metrics
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(env.WSPath, srv.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", srv.serveMetrics)
	return mux
}

func (srv *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(fmt.Sprintf("Upgrade failure, URI=%s, Error=%s", r.RequestURI, err.Error()))
		return
	}

	srv.handle(wsconn.New(conn))
}

func (srv *Server) serveMetrics(w http.ResponseWriter, _ *http.Request) {
	doc := map[string]interface{}{
		"version":  VERSION,
		"uptime_s": Uptime().Seconds(),
		"commands": service.Stats.Snapshot(),
	}
	for name, fn := range srv.opts.metrics {
		doc[name] = fn()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		log.Println("Write metrics failed:", err)
	}
}

// Serve accepts connections on l until Shutdown
func (srv *Server) Serve(l net.Listener) error {
	srv.mu.Lock()
	if srv.httpSrv != nil {
		srv.mu.Unlock()
		return ErrServerRunning
	}
	if n := srv.opts.maxConnections; n > 0 {
		l = netutil.LimitListener(l, n)
	}
	srv.httpSrv = &http.Server{Handler: srv.Handler()}
	httpSrv := srv.httpSrv
	srv.mu.Unlock()

	srv.Start()
	log.Println(fmt.Sprintf("Starting %s %s, listen at ws://%s%s", app.name, VERSION, l.Addr(), env.WSPath))

	if err := httpSrv.Serve(l); err != nil && err != http.ErrServerClosed {
		return errors.Trace(err)
	}
	return nil
}

// Shutdown stops accepting, closes every controller connection, lets the
// resulting disconnects run, then stops components and the scheduler.
func (srv *Server) Shutdown(ctx context.Context) error {
	srv.mu.Lock()
	httpSrv := srv.httpSrv
	srv.mu.Unlock()

	var err error
	if httpSrv != nil {
		err = httpSrv.Shutdown(ctx)
	}

	srv.group.Close()

	if atomic.LoadInt32(&srv.started) == 1 {
		// disconnects queued before the barrier run first
		done := make(chan struct{})
		if srv.sched.Schedule(func() { close(done) }) == nil {
			select {
			case <-done:
			case <-ctx.Done():
			}
		}
		srv.opts.components.Shutdown()
	}
	srv.sched.Close()
	return err
}

// Listen serves on addr until SIGINT, SIGTERM or env.Die
func (srv *Server) Listen(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Trace(err)
	}

	chErr := make(chan error, 1)
	go func() { chErr <- srv.Serve(l) }()

	sg := make(chan os.Signal, 1)
	signal.Notify(sg, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sg)

	select {
	case err := <-chErr:
		return err
	case <-env.Die:
		log.Println("The app will shutdown in a few seconds")
	case s := <-sg:
		log.Println("got signal", s)
	}

	log.Println("server is stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
