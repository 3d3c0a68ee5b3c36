// Package controller turns handheld sensor samples into player commands.
package controller

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lonng/motionpad/csscolor"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/protocol"
	"github.com/pingcap/errors"
)

// ErrStarted is returned by a second Start
var ErrStarted = errors.New("controller: pipeline already started")

// FeedState is the state of one sensor feed
type FeedState int32

const (
	FeedIdle FeedState = iota
	FeedRunning
	// FeedUnavailable is terminal for the session
	FeedUnavailable
)

func (s FeedState) String() string {
	switch s {
	case FeedIdle:
		return "idle"
	case FeedRunning:
		return "running"
	case FeedUnavailable:
		return "unavailable"
	}
	return "unknown"
}

type (
	// Option customizes a Pipeline
	Option func(*Pipeline)
)

// WithFilter replaces the default orientation filter
func WithFilter(f OrientationFilter) Option {
	return func(p *Pipeline) {
		p.filter = f
	}
}

// WithRand sets the random source of the handshake color
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.rng = rng
	}
}

// Pipeline is the controller side of one session. Sensor callbacks are
// expected from a single event source, they never block beyond the send.
type Pipeline struct {
	sender  Sender
	display Display
	host    Host
	filter  OrientationFilter
	rng     *rand.Rand

	started     int32
	color       atomic.Value // csscolor.RGB
	motion      int32
	orientation int32
}

// NewPipeline returns a pipeline sending through sender
func NewPipeline(sender Sender, display Display, host Host, opts ...Option) *Pipeline {
	p := &Pipeline{
		sender:  sender,
		display: display,
		host:    host,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.filter == nil {
		p.filter = NewDeviceOrientationFilter()
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p
}

// Start sends the color handshake and subscribes both sensor feeds. A feed
// the host cannot provide shows the no motion notice and stays unavailable,
// the other feed is unaffected.
func (p *Pipeline) Start() error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return ErrStarted
	}

	color := csscolor.Random(p.rng)
	p.color.Store(color)
	css := color.String()
	p.send(protocol.CmdColor, &protocol.Color{Color: css})
	p.display.SetColor(css)

	if p.host.OnDeviceMotion(p.onMotion) {
		atomic.StoreInt32(&p.motion, int32(FeedRunning))
	} else {
		atomic.StoreInt32(&p.motion, int32(FeedUnavailable))
		p.display.ShowNoMotion()
	}

	if p.host.OnDeviceOrientation(p.onOrientation) {
		atomic.StoreInt32(&p.orientation, int32(FeedRunning))
	} else {
		atomic.StoreInt32(&p.orientation, int32(FeedUnavailable))
		p.display.ShowNoMotion()
	}
	return nil
}

// Color returns the handshake color, the zero RGB before Start
func (p *Pipeline) Color() csscolor.RGB {
	c, _ := p.color.Load().(csscolor.RGB)
	return c
}

// MotionState returns the state of the motion feed
func (p *Pipeline) MotionState() FeedState { return FeedState(atomic.LoadInt32(&p.motion)) }

// OrientationState returns the state of the orientation feed
func (p *Pipeline) OrientationState() FeedState {
	return FeedState(atomic.LoadInt32(&p.orientation))
}

func (p *Pipeline) onMotion(e MotionEvent) {
	accel := AccelFromMotion(e)
	p.send(protocol.CmdAccel, &accel)
}

func (p *Pipeline) onOrientation(e OrientationEvent) {
	p.filter.Update(e)
	rot := RotFromQuat(p.filter.Quaternion())
	p.send(protocol.CmdRot, &rot)
}

func (p *Pipeline) send(route string, v interface{}) {
	if err := p.sender.Notify(route, v); err != nil && env.Debug {
		log.Println("Drop", route, "command:", err)
	}
}

// AccelFromMotion quantizes a motion sample. Acceleration falls back to
// acceleration including gravity, then to zero. A missing rotation rate is
// zero and a missing interval is one.
func AccelFromMotion(e MotionEvent) protocol.Accel {
	accel := e.Acceleration
	if accel == nil {
		accel = e.AccelerationIncludingGravity
	}
	if accel == nil {
		accel = &Axes{}
	}
	rate := e.RotationRate
	if rate == nil {
		rate = &RotationRate{}
	}
	interval := e.Interval
	if interval == 0 {
		interval = 1
	}

	q := func(v float64) float64 { return math.Floor(v / interval) }
	return protocol.Accel{
		X: q(accel.X),
		Y: q(accel.Y),
		Z: q(accel.Z),
		A: q(rate.Alpha),
		B: q(rate.Beta),
		G: q(rate.Gamma),
	}
}

// RotFromQuat converts an orientation to YXZ Euler degrees
func RotFromQuat(q mgl64.Quat) protocol.Rot {
	e := EulerYXZ(q)
	return protocol.Rot{
		X: mgl64.RadToDeg(e.X()),
		Y: mgl64.RadToDeg(e.Y()),
		Z: mgl64.RadToDeg(e.Z()),
	}
}
