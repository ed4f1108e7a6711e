package mechanism

import (
	"fmt"
	"time"
)

// Round-trip conversion: sound travels one centimeter in about 29 µs,
// and the echo covers the distance twice.
const (
	microsecondsPerCentimeter = 29
	roundTrip                 = 2
)

// MicrosecondsToCentimeters converts an echo round-trip time to centimeters.
// Integer division truncates: 1740 µs is 30 cm, 1739 µs is 29 cm.
func MicrosecondsToCentimeters(microseconds int64) int64 {
	return microseconds / microsecondsPerCentimeter / roundTrip
}

// Distance is the outcome of one ultrasonic measurement.
type Distance struct {
	// EchoMicros is the measured echo high time.
	EchoMicros int64
	// Centimeters is the converted distance, meaningful only when Known.
	Centimeters int64
	// Known is false when the echo timed out or never started.
	Known bool
}

// DistanceFromEcho builds a Distance from an echo measurement.
// A timed-out or zero-length echo yields an unknown distance.
func DistanceFromEcho(echo time.Duration, ok bool) Distance {
	us := echo.Microseconds()
	if !ok || us <= 0 {
		return Distance{EchoMicros: us}
	}

	return Distance{
		EchoMicros:  us,
		Centimeters: MicrosecondsToCentimeters(us),
		Known:       true,
	}
}

// AtLeast reports whether the object is at least limit centimeters away.
// Unknown distances are always far.
func (d Distance) AtLeast(limit int64) bool {
	return !d.Known || d.Centimeters >= limit
}

// String renders the distance for the display's second row.
func (d Distance) String() string {
	if !d.Known {
		return "no echo"
	}

	return fmt.Sprintf("%d cm", d.Centimeters)
}
