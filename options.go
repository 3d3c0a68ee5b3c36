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
	"net/http"
	"time"

	"github.com/lonng/motionpad/component"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/message"
	"github.com/lonng/motionpad/pipeline"
	"github.com/lonng/motionpad/serialize"
	"github.com/lonng/motionpad/session"
)

type (
	options struct {
		pipeline       pipeline.Pipeline
		components     *component.Components
		spawn          SpawnHandler
		maxConnections int
		metrics        map[string]func() interface{}
	}

	// SpawnHandler is called on the logic goroutine once a controller
	// finished its handshake
	SpawnHandler func(*session.Session)

	// Option used to customize the server
	Option func(*options)
)

// WithPipeline sets the inbound and outbound message hooks
func WithPipeline(pipeline pipeline.Pipeline) Option {
	return func(opt *options) {
		opt.pipeline = pipeline
	}
}

// WithComponents sets the components started and stopped with the server
func WithComponents(components *component.Components) Option {
	return func(opt *options) {
		opt.components = components
	}
}

// WithSpawnHandler sets the callback creating the entity of a new session
func WithSpawnHandler(fn SpawnHandler) Option {
	return func(opt *options) {
		opt.spawn = fn
	}
}

// WithMaxConnections caps concurrent connections, zero means unlimited
func WithMaxConnections(n int) Option {
	return func(opt *options) {
		opt.maxConnections = n
		env.MaxConnections = n
	}
}

// WithMetricsSource adds a named value to the /metrics document
func WithMetricsSource(name string, fn func() interface{}) Option {
	return func(opt *options) {
		opt.metrics[name] = fn
	}
}

// WithHeartbeatInterval sets Heartbeat time interval
func WithHeartbeatInterval(d time.Duration) Option {
	return func(_ *options) {
		env.Heartbeat = d
	}
}

// WithCheckOriginFunc sets the function that check `Origin` in http headers
func WithCheckOriginFunc(fn func(*http.Request) bool) Option {
	return func(opt *options) {
		env.CheckOrigin = fn
	}
}

// WithDebugMode logs every packet and command
func WithDebugMode() Option {
	return func(_ *options) {
		env.Debug = true
	}
}

// WithDictionary sets routes map
func WithDictionary(dict map[string]uint16) Option {
	return func(_ *options) {
		message.SetDictionary(dict)
	}
}

// WithWSPath sets the path controllers connect to
func WithWSPath(path string) Option {
	return func(_ *options) {
		env.WSPath = path
	}
}

// WithTimerPrecision sets the ticker precision, and time precision can not less
// than a Millisecond, and can not change after application running. The default
// precision is time.Millisecond * 10
func WithTimerPrecision(precision time.Duration) Option {
	if precision < time.Millisecond {
		panic("time precision can not less than a Millisecond")
	}
	return func(_ *options) {
		env.TimerPrecision = precision
	}
}

// WithSerializer customizes application serializer, which automatically Marshal
// and UnMarshal handler payload
func WithSerializer(serializer serialize.Serializer) Option {
	return func(opt *options) {
		env.Serializer = serializer
	}
}
