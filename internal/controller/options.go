package controller

import (
	"time"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
)

// Timings holds the dwell of every time-gated state.
type Timings struct {
	Calibration    time.Duration
	Ready          time.Duration
	TooFar         time.Duration
	Resuming       time.Duration
	MotionMessage  time.Duration
	Buzzer         time.Duration
	MotorRun       time.Duration
	RemoteDebounce time.Duration
}

// DefaultTimings returns the timings of the stock mechanism.
func DefaultTimings() Timings {
	return Timings{
		Calibration:    2000 * time.Millisecond,
		Ready:          2000 * time.Millisecond,
		TooFar:         2000 * time.Millisecond,
		Resuming:       1000 * time.Millisecond,
		MotionMessage:  1000 * time.Millisecond,
		Buzzer:         100 * time.Millisecond,
		MotorRun:       5000 * time.Millisecond,
		RemoteDebounce: 1000 * time.Millisecond,
	}
}

// Options configures a Controller.
type Options struct {
	// Timings are the dwell durations.
	Timings Timings
	// Codes maps remote codes to commands.
	Codes mechanism.CodeTable
	// MaxDistanceCM is the distance from which an object is too far for the motor.
	MaxDistanceCM int64
	// HistorySize bounds the number of transitions kept for snapshots.
	HistorySize int
}

// Defaults of the stock mechanism.
const (
	DefaultMaxDistanceCM = 10
	DefaultHistorySize   = 32
)

// DefaultOptions returns the options of the stock mechanism.
func DefaultOptions() Options {
	return Options{
		Timings:       DefaultTimings(),
		Codes:         mechanism.DefaultCodeTable(),
		MaxDistanceCM: DefaultMaxDistanceCM,
		HistorySize:   DefaultHistorySize,
	}
}

// millis converts d to a clock delta, saturating at the counter width.
func millis(d time.Duration) uint32 {
	ms := d.Milliseconds()

	switch {
	case ms <= 0:
		return 0
	case ms > int64(^uint32(0)):
		return ^uint32(0)
	default:
		return uint32(ms)
	}
}
