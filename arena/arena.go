// Package arena hosts the players driven by controllers: their state, the
// handlers applying controller commands to it, and the goal they race to.
package arena

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lonng/motionpad/component"
	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/scheduler"
	"github.com/lonng/motionpad/session"
)

// Arena is the component owning every player of one area
type Arena struct {
	component.Base

	id    uuid.UUID
	area  *Area
	opts  options
	rng   *rand.Rand
	goal  *Goal
	timer *scheduler.Timer

	mu      sync.RWMutex
	players []*Player
}

// New returns an arena over area
func New(area *Area, opts ...Option) *Arena {
	o := options{tickInterval: DefaultTickInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.serializer == nil {
		o.serializer = env.Serializer
	}

	a := &Arena{
		id:   uuid.New(),
		area: area,
		opts: o,
		rng:  o.rng,
		goal: &Goal{radius: area.goalRadius},
	}
	a.goal.pick(a.rng, area)
	return a
}

// AfterInit starts the tick timer when a scheduler is configured
func (a *Arena) AfterInit() {
	if a.opts.scheduler == nil {
		return
	}
	a.timer = a.opts.scheduler.NewTimer(a.opts.tickInterval, a.Tick)
	log.Printf("Arena %s ticking every %v on %dx%d", a.id, a.opts.tickInterval, a.area.width, a.area.height)
}

// Shutdown stops the tick timer
func (a *Arena) Shutdown() {
	if a.timer != nil {
		a.timer.Stop()
	}
}

// ID returns the arena instance id
func (a *Arena) ID() uuid.UUID { return a.id }

// Area returns the shared area configuration
func (a *Arena) Area() *Area { return a.area }

// Goal returns the goal region
func (a *Arena) Goal() *Goal { return a.goal }

// Spawn creates the player for s at a random position inside the area and
// binds it to the session. It must run on the logic goroutine. A session
// already bound to a player panics.
func (a *Arena) Spawn(s *session.Session) *Player {
	if s.Bound() {
		panic(fmt.Sprintf("arena: session %d already has a player", s.ID()))
	}
	p := newPlayer(a, s)
	p.position = mgl64.Vec3{
		a.rng.Float64() * float64(a.area.width),
		0,
		a.rng.Float64() * float64(a.area.height),
	}
	p.bind()

	a.mu.Lock()
	a.players = append(a.players, p)
	a.mu.Unlock()

	log.Println("Player", p, "spawned for session", s.ID(), "from", s.RemoteAddr())
	return p
}

func (a *Arena) remove(p *Player) {
	a.mu.Lock()
	for i, v := range a.players {
		if v == p {
			a.players = append(a.players[:i:i], a.players[i+1:]...)
			break
		}
	}
	a.mu.Unlock()

	log.Println("Player", p, "removed")
}

// Count returns the number of live players
func (a *Arena) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.players)
}

// Players returns the live players in spawn order
func (a *Arena) Players() []*Player {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Player(nil), a.players...)
}

// Tick scores every player that entered the goal since the last tick. The
// goal moves once anyone reached it.
func (a *Arena) Tick() {
	reached := false
	for _, p := range a.Players() {
		inside := a.goal.Contains(p.position)
		if inside && !p.inGoal {
			p.Score()
			reached = true
		}
		p.inGoal = inside
	}
	if reached {
		a.goal.pick(a.rng, a.area)
		if env.Debug {
			log.Println("Goal moved to", a.goal.position)
		}
	}
}

// Goal is a circular trigger region on the ground plane
type Goal struct {
	position mgl64.Vec3
	radius   float64
}

func (g *Goal) pick(rng *rand.Rand, area *Area) {
	g.position = mgl64.Vec3{float64(rng.Intn(area.width)), 0, float64(rng.Intn(area.height))}
}

// Contains reports whether pos lies inside the goal, height is ignored
func (g *Goal) Contains(pos mgl64.Vec3) bool {
	d := mgl64.Vec2{pos.X() - g.position.X(), pos.Z() - g.position.Z()}
	return d.Len() <= g.radius
}

// Position returns the goal center
func (g *Goal) Position() mgl64.Vec3 { return g.position }

// Radius returns the trigger radius
func (g *Goal) Radius() float64 { return g.radius }
