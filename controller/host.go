package controller

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/lonng/motionpad/internal/log"
)

// SimulatedHost is a headless Host producing synthetic samples from a
// single goroutine. Disabled sensors refuse subscriptions.
type SimulatedHost struct {
	Motion      bool
	Orientation bool
	Interval    time.Duration

	mu            sync.Mutex
	rng           *rand.Rand
	motionFn      func(MotionEvent)
	orientationFn func(OrientationEvent)
	step          int
}

// NewSimulatedHost returns a host with both sensors present
func NewSimulatedHost(interval time.Duration, rng *rand.Rand) *SimulatedHost {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedHost{
		Motion:      true,
		Orientation: true,
		Interval:    interval,
		rng:         rng,
	}
}

func (h *SimulatedHost) OnDeviceMotion(fn func(MotionEvent)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.Motion {
		return false
	}
	h.motionFn = fn
	return true
}

func (h *SimulatedHost) OnDeviceOrientation(fn func(OrientationEvent)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.Orientation {
		return false
	}
	h.orientationFn = fn
	return true
}

// EmitMotion delivers e to the motion subscriber, if any
func (h *SimulatedHost) EmitMotion(e MotionEvent) {
	h.mu.Lock()
	fn := h.motionFn
	h.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

// EmitOrientation delivers e to the orientation subscriber, if any
func (h *SimulatedHost) EmitOrientation(e OrientationEvent) {
	h.mu.Lock()
	fn := h.orientationFn
	h.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

// Step emits one synthetic sample on each feed: the device is held flat
// and slowly turned while pushed forward in bursts.
func (h *SimulatedHost) Step() {
	h.mu.Lock()
	h.step++
	n := float64(h.step)
	push := h.rng.Float64()*12 - 2
	h.mu.Unlock()

	interval := h.Interval.Seconds()
	h.EmitMotion(MotionEvent{
		Acceleration: &Axes{X: 0, Y: push, Z: 0},
		RotationRate: &RotationRate{Alpha: 3, Beta: 0, Gamma: 0},
		Interval:     interval,
	})
	h.EmitOrientation(OrientationEvent{
		Alpha: math.Mod(n*3, 360),
		Beta:  90,
		Gamma: 0,
	})
}

// Run emits samples every Interval until ctx is done
func (h *SimulatedHost) Run(ctx context.Context) error {
	if h.Interval <= 0 {
		h.Interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.Step()
		}
	}
}

// LogDisplay is a Display writing to the process logger
type LogDisplay struct{}

func (LogDisplay) SetColor(css string) {
	log.Println("Controller color", css)
}

func (LogDisplay) ShowNoMotion() {
	log.Println("Controller has no motion sensors")
}
