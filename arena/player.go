package arena

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lonng/motionpad/command"
	"github.com/lonng/motionpad/csscolor"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/protocol"
	"github.com/lonng/motionpad/service"
	"github.com/lonng/motionpad/session"
	"github.com/oklog/ulid/v2"
)

// accelScale converts the accel command's forward axis to world units
const accelScale = 0.01

// Player is the entity a controller drives. Its state is only touched by
// its own command handlers and by the arena tick, both running on the logic
// goroutine.
type Player struct {
	id       ulid.ULID
	arena    *Arena
	session  *session.Session
	registry *command.Registry

	position mgl64.Vec3
	rotation mgl64.Vec3 // Euler degrees
	color    csscolor.RGB
	name     string
	busy     bool
	inGoal   bool

	bound   bool
	cancels []func()
}

func newPlayer(a *Arena, s *session.Session) *Player {
	return &Player{
		id:       ulid.MustNew(ulid.Now(), a.rng),
		arena:    a,
		session:  s,
		registry: command.NewRegistry(s, a.opts.serializer),
		color:    csscolor.Green,
	}
}

// bind wires the player to its session. Binding twice is a programming
// error and panics.
func (p *Player) bind() {
	if p.bound {
		panic("arena: player " + p.id.String() + " already bound")
	}
	p.bound = true

	p.cancels = append(p.cancels,
		p.session.OnDisconnect(func(*session.Session) { p.remove() }),
		p.session.OnNameChange(func(_ *session.Session, name string) { p.rename(name) }),
	)

	r := p.registry
	for _, err := range []error{
		command.Handle(r, protocol.CmdColor, p.onColor),
		command.Handle(r, protocol.CmdMove, p.onMove),
		command.Handle(r, protocol.CmdSetName, p.onSetName),
		command.Handle(r, protocol.CmdBusy, p.onBusy),
		command.Handle(r, protocol.CmdAccel, p.onAccel),
		command.Handle(r, protocol.CmdRot, p.onRot),
	} {
		if err != nil {
			panic(err)
		}
	}

	p.name = p.session.Name()
	p.session.Bind(r)
}

func (p *Player) onColor(m *protocol.Color) {
	p.color = csscolor.Parse(m.Color)
}

func (p *Player) onMove(m *protocol.Move) {
	w, h := float64(p.arena.area.width), float64(p.arena.area.height)
	p.position = mgl64.Vec3{m.X * w, 0, h - m.Y*h - 1}
}

func (p *Player) onSetName(m *protocol.SetName) {
	if m.Name == "" {
		if err := p.registry.Send(protocol.CmdSetName, &protocol.SetName{Name: p.name}); err != nil {
			log.Println("Send name to", p.id, "failed:", err)
		}
		return
	}
	p.name = m.Name
}

// busy is part of the protocol but has no effect on a player
func (p *Player) onBusy(*protocol.Busy) {}

func (p *Player) onAccel(m *protocol.Accel) {
	if m.Y <= 0 {
		return
	}
	p.position = p.position.Add(p.Forward().Mul(m.Y * accelScale))
}

func (p *Player) onRot(m *protocol.Rot) {
	p.rotation = mgl64.Vec3{m.X, m.Y, m.Z}
}

func (p *Player) rename(name string) {
	p.name = name
}

// Forward returns the unit facing direction. Rotation is applied about Z,
// then X, then Y to the +Z axis.
func (p *Player) Forward() mgl64.Vec3 {
	return orientation(p.rotation).Rotate(mgl64.Vec3{0, 0, 1})
}

func orientation(deg mgl64.Vec3) mgl64.Quat {
	qy := mgl64.QuatRotate(mgl64.DegToRad(deg.Y()), mgl64.Vec3{0, 1, 0})
	qx := mgl64.QuatRotate(mgl64.DegToRad(deg.X()), mgl64.Vec3{1, 0, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(deg.Z()), mgl64.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

// Score sends a scored command with points in [5,15) and returns the points
func (p *Player) Score() int32 {
	points := int32(5 + p.arena.rng.Intn(10))
	if err := p.registry.Send(protocol.CmdScored, &protocol.Scored{Points: points}); err != nil {
		log.Println("Send score to", p.id, "failed:", err)
	}
	service.Stats.IncScored()
	return points
}

func (p *Player) remove() {
	for _, cancel := range p.cancels {
		cancel()
	}
	p.cancels = nil
	p.registry.Clear()
	p.session.Bind(nil)
	p.arena.remove(p)
}

func (p *Player) ID() ulid.ULID               { return p.id }
func (p *Player) Session() *session.Session   { return p.session }
func (p *Player) Registry() *command.Registry { return p.registry }
func (p *Player) Position() mgl64.Vec3        { return p.position }
func (p *Player) Rotation() mgl64.Vec3        { return p.rotation }
func (p *Player) Color() csscolor.RGB         { return p.color }
func (p *Player) Name() string                { return p.name }
func (p *Player) Busy() bool                  { return p.busy }
func (p *Player) SetPosition(pos mgl64.Vec3)  { p.position = pos }
func (p *Player) SetRotation(deg mgl64.Vec3)  { p.rotation = deg }
func (p *Player) String() string              { return p.id.String() + "(" + p.name + ")" }
