package controller

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lonng/motionpad/protocol"
	. "github.com/pingcap/check"
)

func TestController(t *testing.T) {
	TestingT(t)
}

type sent struct {
	route string
	v     interface{}
}

type recorder struct {
	sent     []sent
	colors   []string
	noMotion int
}

func (r *recorder) Notify(route string, v interface{}) error {
	r.sent = append(r.sent, sent{route, v})
	return nil
}

func (r *recorder) SetColor(css string) { r.colors = append(r.colors, css) }
func (r *recorder) ShowNoMotion()       { r.noMotion++ }

func (r *recorder) routes(route string) []interface{} {
	var out []interface{}
	for _, s := range r.sent {
		if s.route == route {
			out = append(out, s.v)
		}
	}
	return out
}

type pipelineSuite struct{}

var _ = Suite(&pipelineSuite{})

func newTestPipeline(motion, orientation bool) (*Pipeline, *recorder, *SimulatedHost) {
	rec := &recorder{}
	host := NewSimulatedHost(0, rand.New(rand.NewSource(7)))
	host.Motion, host.Orientation = motion, orientation
	return NewPipeline(rec, rec, host, WithRand(rand.New(rand.NewSource(7)))), rec, host
}

func (s *pipelineSuite) TestColorHandshakeOnce(c *C) {
	p, rec, _ := newTestPipeline(true, true)
	c.Assert(p.Color().String(), Equals, "rgb(0,0,0)")
	c.Assert(p.Start(), IsNil)
	c.Assert(p.Start(), Equals, ErrStarted)

	colors := rec.routes(protocol.CmdColor)
	c.Assert(colors, HasLen, 1)
	css := colors[0].(*protocol.Color).Color

	m := regexp.MustCompile(`^rgb\((\d+),(\d+),(\d+)\)$`).FindStringSubmatch(css)
	c.Assert(m, NotNil, Commentf("css %q", css))
	for _, ch := range m[1:] {
		v, err := strconv.Atoi(ch)
		c.Assert(err, IsNil)
		c.Assert(v >= 0 && v <= 255, IsTrue)
	}
	c.Assert(rec.colors, DeepEquals, []string{css})
	c.Assert(p.Color().String(), Equals, css)
	c.Assert(rec.noMotion, Equals, 0)
}

func (s *pipelineSuite) TestColorFromOtherGoroutine(c *C) {
	p, rec, _ := newTestPipeline(true, true)
	done := make(chan error)
	go func() { done <- p.Start() }()
	// reads race with Start until it returns
	for started := false; !started; {
		select {
		case err := <-done:
			c.Assert(err, IsNil)
			started = true
		default:
			p.Color()
		}
	}
	css := rec.routes(protocol.CmdColor)[0].(*protocol.Color).Color
	c.Assert(p.Color().String(), Equals, css)
}

func (s *pipelineSuite) TestMotionQuantized(c *C) {
	p, rec, host := newTestPipeline(true, true)
	c.Assert(p.Start(), IsNil)

	host.EmitMotion(MotionEvent{
		Acceleration: &Axes{X: 1.9, Y: -0.5, Z: 10},
		RotationRate: &RotationRate{Alpha: 7, Beta: -7, Gamma: 3.5},
		Interval:     2,
	})

	accels := rec.routes(protocol.CmdAccel)
	c.Assert(accels, HasLen, 1)
	c.Assert(*accels[0].(*protocol.Accel), Equals, protocol.Accel{X: 0, Y: -1, Z: 5, A: 3, B: -4, G: 1})
}

func (s *pipelineSuite) TestAccelFallbacks(c *C) {
	tables := []struct {
		in   MotionEvent
		want protocol.Accel
	}{
		{MotionEvent{AccelerationIncludingGravity: &Axes{X: 0.2, Y: 9.8, Z: -1.5}},
			protocol.Accel{X: 0, Y: 9, Z: -2}},
		{MotionEvent{Acceleration: &Axes{Y: 3}, AccelerationIncludingGravity: &Axes{Y: 100}},
			protocol.Accel{Y: 3}},
		{MotionEvent{RotationRate: &RotationRate{Alpha: 1.5, Beta: 2.5, Gamma: -0.5}, Interval: 0.5},
			protocol.Accel{A: 3, B: 5, G: -1}},
		{MotionEvent{}, protocol.Accel{}},
	}
	for _, tt := range tables {
		c.Assert(AccelFromMotion(tt.in), Equals, tt.want)
	}
}

func (s *pipelineSuite) TestOrientationToRot(c *C) {
	p, rec, host := newTestPipeline(true, true)
	c.Assert(p.Start(), IsNil)

	host.EmitOrientation(OrientationEvent{Alpha: 0, Beta: 0, Gamma: 0})
	host.EmitOrientation(OrientationEvent{Alpha: 0, Beta: 90, Gamma: 0})
	host.EmitOrientation(OrientationEvent{Alpha: 30, Beta: 90, Gamma: 0})

	rots := rec.routes(protocol.CmdRot)
	c.Assert(rots, HasLen, 3)
	assertRot(c, rots[0].(*protocol.Rot), protocol.Rot{X: -90})
	assertRot(c, rots[1].(*protocol.Rot), protocol.Rot{})
	assertRot(c, rots[2].(*protocol.Rot), protocol.Rot{Y: 30})
}

func assertRot(c *C, got *protocol.Rot, want protocol.Rot) {
	const eps = 1e-6
	ok := math.Abs(got.X-want.X) < eps && math.Abs(got.Y-want.Y) < eps && math.Abs(got.Z-want.Z) < eps
	c.Assert(ok, IsTrue, Commentf("got %+v want %+v", *got, want))
}

func (s *pipelineSuite) TestMissingMotionFeed(c *C) {
	p, rec, host := newTestPipeline(false, true)
	c.Assert(p.Start(), IsNil)

	c.Assert(p.MotionState(), Equals, FeedUnavailable)
	c.Assert(p.OrientationState(), Equals, FeedRunning)
	c.Assert(rec.noMotion, Equals, 1)

	host.Step()
	host.Step()
	c.Assert(rec.routes(protocol.CmdAccel), HasLen, 0)
	c.Assert(rec.routes(protocol.CmdRot), HasLen, 2)

	host.Motion = true
	host.Step()
	c.Assert(rec.routes(protocol.CmdAccel), HasLen, 0)
	c.Assert(p.MotionState(), Equals, FeedUnavailable)
}

func (s *pipelineSuite) TestMissingOrientationFeed(c *C) {
	p, rec, host := newTestPipeline(true, false)
	c.Assert(p.Start(), IsNil)

	c.Assert(p.OrientationState().String(), Equals, "unavailable")
	host.Step()
	c.Assert(rec.routes(protocol.CmdAccel), HasLen, 1)
	c.Assert(rec.routes(protocol.CmdRot), HasLen, 0)
	c.Assert(rec.noMotion, Equals, 1)
}

func (s *pipelineSuite) TestEulerYXZRoundTrip(c *C) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		want := mgl64.Vec3{
			(rng.Float64() - 0.5) * math.Pi * 0.9,
			(rng.Float64()*2 - 1) * math.Pi * 0.9,
			(rng.Float64()*2 - 1) * math.Pi * 0.9,
		}
		q := mgl64.QuatRotate(want.Y(), yAxis).
			Mul(mgl64.QuatRotate(want.X(), xAxis)).
			Mul(mgl64.QuatRotate(want.Z(), zAxis))
		got := EulerYXZ(q)
		c.Assert(got.ApproxEqualThreshold(want, 1e-9), IsTrue, Commentf("want %v got %v", want, got))
	}
}

func (s *pipelineSuite) TestFilterSmoothing(c *C) {
	f := NewDeviceOrientationFilter()
	c.Assert(f.Quaternion(), Equals, mgl64.QuatIdent())

	f.Smoothing = 0.5
	f.Update(OrientationEvent{Beta: 90})
	first := RotFromQuat(f.Quaternion())
	f.Update(OrientationEvent{Alpha: 40, Beta: 90})
	second := RotFromQuat(f.Quaternion())

	assertRot(c, &first, protocol.Rot{})
	c.Assert(second.Y > 0 && second.Y < 40, IsTrue, Commentf("smoothed yaw %v", second.Y))
}
