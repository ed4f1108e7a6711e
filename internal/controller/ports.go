package controller

import "time"

// Clock is a monotonic millisecond counter that wraps at 2^32.
type Clock interface {
	NowMillis() uint32
}

// MotionSensor reads the PIR output.
type MotionSensor interface {
	MotionDetected() bool
}

// RangeFinder drives an ultrasonic trigger/echo module.
type RangeFinder interface {
	// Trigger emits the low 2 µs, high 10 µs, low pulse on the trigger line.
	Trigger()
	// MeasureEcho returns the echo high time; ok is false on timeout.
	MeasureEcho() (echo time.Duration, ok bool)
}

// RemoteReceiver is a non-blocking remote-control decoder.
// A decoded code stays pending until Resume is called.
type RemoteReceiver interface {
	TryDecode() (code uint32, ok bool)
	Resume()
}

// Display is a fixed-width text display.
type Display interface {
	Clear()
	SetCursor(col, row int)
	Print(text string)
}

// Actuators drives the motor and indicator lines.
type Actuators interface {
	SetMotor(on bool)
	SetIndicator(on bool)
}

// Devices bundles the collaborators a Controller talks to.
type Devices struct {
	Clock     Clock
	Motion    MotionSensor
	Range     RangeFinder
	Remote    RemoteReceiver
	Display   Display
	Actuators Actuators
}
