package gpio

import (
	"time"

	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/host/cpu"
)

// Trigger pulse timing of the HC-SR04.
const (
	triggerSettle = 2 * time.Microsecond
	triggerPulse  = 10 * time.Microsecond

	// DefaultEchoTimeout bounds each edge wait of one measurement.
	DefaultEchoTimeout = time.Second
)

// HCSR04 is an ultrasonic ranging module on two GPIO lines.
//
// Datasheet: https://cdn.sparkfun.com/datasheets/Sensors/Proximity/HCSR04.pdf
type HCSR04 struct {
	trigger outputPin
	echo    inputPin
	timeout time.Duration
	log     *zap.SugaredLogger

	// spin busy-waits for short delays.
	spin func(time.Duration)
	// armed is false when arming the echo edge detection failed.
	armed bool
}

// NewHCSR04 returns a rangefinder; a non-positive timeout uses DefaultEchoTimeout.
func NewHCSR04(trigger outputPin, echo inputPin, timeout time.Duration, log *zap.SugaredLogger) *HCSR04 {
	if timeout <= 0 {
		timeout = DefaultEchoTimeout
	}

	return &HCSR04{
		trigger: trigger,
		echo:    echo,
		timeout: timeout,
		log:     log,
		spin:    cpu.Nanospin,
	}
}

// Trigger arms edge detection on the echo line and emits the
// low 2 µs, high 10 µs, low trigger pulse.
func (s *HCSR04) Trigger() {
	s.armed = true

	if err := s.echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		s.armed = false
		s.log.Errorw("Arming echo edge detection failed", "error", err)
	}

	for _, step := range []struct {
		level gpio.Level
		hold  time.Duration
	}{
		{gpio.Low, triggerSettle},
		{gpio.High, triggerPulse},
		{gpio.Low, 0},
	} {
		if err := s.trigger.Out(step.level); err != nil {
			s.log.Errorw("Trigger write failed", "level", step.level, "error", err)
		}

		if step.hold > 0 {
			s.spin(step.hold)
		}
	}
}

// MeasureEcho waits for the rising and falling edge of the echo pulse and
// returns the time between them. ok is false if either edge times out.
func (s *HCSR04) MeasureEcho() (time.Duration, bool) {
	if !s.armed {
		return 0, false
	}

	s.armed = false

	if !s.echo.WaitForEdge(s.timeout) {
		s.log.Warnw("No echo pulse started", "timeout", s.timeout)

		return 0, false
	}

	start := time.Now()

	if !s.echo.WaitForEdge(s.timeout) {
		s.log.Warnw("Echo pulse never ended", "timeout", s.timeout)

		return 0, false
	}

	return time.Since(start), true
}
