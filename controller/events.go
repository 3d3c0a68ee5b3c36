package controller

type (
	// Axes is a device acceleration sample in m/s²
	Axes struct {
		X, Y, Z float64
	}

	// RotationRate is a device rotation rate sample in deg/s
	RotationRate struct {
		Alpha, Beta, Gamma float64
	}

	// MotionEvent mirrors a W3C devicemotion event. Nil members are
	// unavailable on the device, a zero Interval means unknown.
	MotionEvent struct {
		Acceleration                 *Axes
		AccelerationIncludingGravity *Axes
		RotationRate                 *RotationRate
		Interval                     float64
	}

	// OrientationEvent mirrors a W3C deviceorientation event, in degrees
	OrientationEvent struct {
		Alpha, Beta, Gamma float64
	}

	// Host is the platform delivering sensor samples. Subscribing returns
	// false when the device has no such sensor.
	Host interface {
		OnDeviceMotion(func(MotionEvent)) bool
		OnDeviceOrientation(func(OrientationEvent)) bool
	}

	// Display is the controller's local screen
	Display interface {
		SetColor(css string)
		ShowNoMotion()
	}

	// Sender delivers commands to the game
	Sender interface {
		Notify(route string, v interface{}) error
	}
)
