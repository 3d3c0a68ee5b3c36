package arena

import (
	"sync/atomic"

	"github.com/pingcap/errors"
)

// Area defaults, matching the controller page
const (
	DefaultWidth      = 300
	DefaultHeight     = 300
	DefaultGoalRadius = 8.0
)

var (
	// ErrAreaInstalled is the panic value of a second Install
	ErrAreaInstalled = errors.New("arena: more than one area installed")

	// ErrInvalidArea is returned for non-positive dimensions
	ErrInvalidArea = errors.New("arena: area dimensions must be positive")

	installed int32
)

// Area is the play field configuration. It is installed once per process
// and read only afterwards, so it is shared by every player without locks.
type Area struct {
	width      int
	height     int
	goalRadius float64
}

// Install validates and publishes the process area. A non-positive goal
// radius selects DefaultGoalRadius. Calling Install a second time panics
// with ErrAreaInstalled.
func Install(width, height int, goalRadius float64) (*Area, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Annotatef(ErrInvalidArea, "got %dx%d", width, height)
	}
	if goalRadius <= 0 {
		goalRadius = DefaultGoalRadius
	}
	if !atomic.CompareAndSwapInt32(&installed, 0, 1) {
		panic(ErrAreaInstalled)
	}
	return &Area{width: width, height: height, goalRadius: goalRadius}, nil
}

func (a *Area) Width() int          { return a.width }
func (a *Area) Height() int         { return a.height }
func (a *Area) GoalRadius() float64 { return a.goalRadius }
