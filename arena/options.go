package arena

import (
	"math/rand"
	"time"

	"github.com/lonng/motionpad/scheduler"
	"github.com/lonng/motionpad/serialize"
)

// DefaultTickInterval drives goal detection at 20 ticks per second
const DefaultTickInterval = 50 * time.Millisecond

type (
	options struct {
		rng          *rand.Rand
		serializer   serialize.Serializer
		scheduler    *scheduler.Scheduler
		tickInterval time.Duration
	}

	// Option customizes an Arena
	Option func(*options)
)

// WithRand sets the random source for spawn positions, goal placement and
// score points
func WithRand(rng *rand.Rand) Option {
	return func(opt *options) {
		opt.rng = rng
	}
}

// WithSerializer sets the payload serializer of every player registry
func WithSerializer(s serialize.Serializer) Option {
	return func(opt *options) {
		opt.serializer = s
	}
}

// WithScheduler runs the arena tick as a timer on s
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(opt *options) {
		opt.scheduler = s
	}
}

// WithTickInterval sets how often goal entry is checked
func WithTickInterval(d time.Duration) Option {
	return func(opt *options) {
		if d > 0 {
			opt.tickInterval = d
		}
	}
}
