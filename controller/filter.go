package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrientationFilter turns raw orientation samples into a stable device
// orientation
type OrientationFilter interface {
	Update(e OrientationEvent)
	Quaternion() mgl64.Quat
}

var (
	xAxis = mgl64.Vec3{1, 0, 0}
	yAxis = mgl64.Vec3{0, 1, 0}
	zAxis = mgl64.Vec3{0, 0, 1}

	// camera looks out the back of the device instead of the top
	backOut = mgl64.QuatRotate(-math.Pi/2, xAxis)
)

// DeviceOrientationFilter maps W3C device orientation angles to a world
// quaternion the way browser 3D libraries do, with optional exponential
// smoothing.
type DeviceOrientationFilter struct {
	// ScreenOrientation is the screen rotation in degrees, 0 for portrait
	ScreenOrientation float64
	// Smoothing in [0,1), 0 disables it. Higher keeps more of the previous
	// orientation on every sample.
	Smoothing float64

	q      mgl64.Quat
	primed bool
}

// NewDeviceOrientationFilter returns an unsmoothed portrait filter
func NewDeviceOrientationFilter() *DeviceOrientationFilter {
	return &DeviceOrientationFilter{q: mgl64.QuatIdent()}
}

// Update folds one sample into the filter state
func (f *DeviceOrientationFilter) Update(e OrientationEvent) {
	alpha := mgl64.DegToRad(e.Alpha)
	beta := mgl64.DegToRad(e.Beta)
	gamma := mgl64.DegToRad(e.Gamma)
	orient := mgl64.DegToRad(f.ScreenOrientation)

	// device frame is Z-X'-Y'' which is Euler(beta, alpha, -gamma) in YXZ
	q := mgl64.QuatRotate(alpha, yAxis).
		Mul(mgl64.QuatRotate(beta, xAxis)).
		Mul(mgl64.QuatRotate(-gamma, zAxis)).
		Mul(backOut).
		Mul(mgl64.QuatRotate(-orient, zAxis))

	if !f.primed || f.Smoothing <= 0 {
		f.q = q.Normalize()
		f.primed = true
		return
	}
	f.q = mgl64.QuatSlerp(f.q, q, 1-f.Smoothing).Normalize()
}

// Quaternion returns the current orientation
func (f *DeviceOrientationFilter) Quaternion() mgl64.Quat {
	if !f.primed {
		return mgl64.QuatIdent()
	}
	return f.q
}

// EulerYXZ decomposes q into Euler angles, in radians, for rotation order
// Y then X then Z.
func EulerYXZ(q mgl64.Quat) mgl64.Vec3 {
	x, y, z, w := q.V.X(), q.V.Y(), q.V.Z(), q.W

	m11 := 1 - 2*(y*y+z*z)
	m13 := 2 * (x*z + w*y)
	m21 := 2 * (x*y + w*z)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - w*x)
	m31 := 2 * (x*z - w*y)
	m33 := 1 - 2*(x*x+y*y)

	var e mgl64.Vec3
	e[0] = math.Asin(-mgl64.Clamp(m23, -1, 1))
	if math.Abs(m23) < 0.9999999 {
		e[1] = math.Atan2(m13, m33)
		e[2] = math.Atan2(m21, m22)
	} else {
		e[1] = math.Atan2(-m31, m11)
		e[2] = 0
	}
	return e
}
