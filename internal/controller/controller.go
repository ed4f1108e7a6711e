package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
	"github.com/oshokin/motion-controller/internal/logger"
)

// Display texts. The display is 16 columns wide.
const (
	msgCalibrating    = "Calibrating..."
	msgReady          = "Sensor is ready."
	msgListening      = "Listening..."
	msgMotionDetected = "Motion detected!"
	msgTooFar         = "Too far away!"
	msgMotorRunning   = "Motor running!"
	msgPaused         = "Paused"
	msgResuming       = "Resuming..."
	msgRunning        = "Running..."
	msgStopped        = "Stopped"
)

var (
	// ErrMissingDevice is returned when a required collaborator is nil.
	ErrMissingDevice = errors.New("missing device")
	// ErrIncompleteHandlers is returned when a state has no handler.
	ErrIncompleteHandlers = errors.New("state without handler")
)

// Controller is the mechanism state machine. It is not safe for concurrent
// use: Start, Tick, Snapshot and Shutdown must be called from one goroutine.
type Controller struct {
	devices  Devices
	opts     Options
	handlers map[mechanism.State]handlerFunc

	// dwell holds the converted timings in clock units.
	dwell dwellTable

	// state is the current state and stateStart the clock reading at entry.
	state      mechanism.State
	stateStart uint32

	// remoteAccepted is set once a command was accepted at remoteAcceptedAt.
	remoteAccepted   bool
	remoteAcceptedAt uint32

	// motionShown and motionStart form the MOTION_DETECTED message latch.
	motionShown bool
	motionStart uint32

	motor     bool
	indicator bool

	lastDistance *mechanism.Distance

	// screen mirrors what was printed on each display row.
	screen [mechanism.DisplayRows]string

	history []mechanism.Transition

	// changed is set by anything observable and cleared by Tick.
	changed bool
}

// dwellTable holds dwell durations in milliseconds.
type dwellTable struct {
	calibration   uint32
	ready         uint32
	tooFar        uint32
	resuming      uint32
	motionMessage uint32
	buzzer        uint32
	motorRun      uint32
	debounce      uint32
}

// New creates a controller in the CALIBRATING state with outputs off.
func New(devices Devices, opts Options) (*Controller, error) {
	if err := devices.validate(); err != nil {
		return nil, err
	}

	if opts.MaxDistanceCM <= 0 {
		opts.MaxDistanceCM = DefaultMaxDistanceCM
	}

	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}

	c := &Controller{
		devices: devices,
		opts:    opts,
		dwell: dwellTable{
			calibration:   millis(opts.Timings.Calibration),
			ready:         millis(opts.Timings.Ready),
			tooFar:        millis(opts.Timings.TooFar),
			resuming:      millis(opts.Timings.Resuming),
			motionMessage: millis(opts.Timings.MotionMessage),
			buzzer:        millis(opts.Timings.Buzzer),
			motorRun:      millis(opts.Timings.MotorRun),
			debounce:      millis(opts.Timings.RemoteDebounce),
		},
		state:   mechanism.Calibrating,
		history: make([]mechanism.Transition, 0, opts.HistorySize),
	}

	c.handlers = c.handlerTable()

	for _, s := range mechanism.States() {
		if _, ok := c.handlers[s]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteHandlers, s)
		}
	}

	return c, nil
}

// validate checks that every collaborator is wired.
func (d Devices) validate() error {
	missing := make([]string, 0)

	if d.Clock == nil {
		missing = append(missing, "clock")
	}

	if d.Motion == nil {
		missing = append(missing, "motion sensor")
	}

	if d.Range == nil {
		missing = append(missing, "range finder")
	}

	if d.Remote == nil {
		missing = append(missing, "remote receiver")
	}

	if d.Display == nil {
		missing = append(missing, "display")
	}

	if d.Actuators == nil {
		missing = append(missing, "actuators")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDevice, strings.Join(missing, ", "))
	}

	return nil
}

// Start switches the outputs off, shows the calibration message and starts
// the calibration dwell. Call it once before the first Tick.
func (c *Controller) Start(ctx context.Context) {
	c.setMotor(ctx, false)
	c.setIndicator(ctx, false)

	c.devices.Display.Clear()
	c.clearScreen()
	c.print(1, 0, msgCalibrating)

	c.state = mechanism.Calibrating
	c.stateStart = c.now()
	c.changed = true

	logger.InfoKV(ctx, "System started", "state", c.state.String())
}

// Tick runs one loop iteration: the remote override, then the handler of
// the current state. It reports whether anything observable changed.
func (c *Controller) Tick(ctx context.Context) bool {
	c.changed = false

	c.checkRemote(ctx)
	c.handlers[c.state](ctx)

	return c.changed
}

// Shutdown switches the outputs off and leaves a message on the display.
func (c *Controller) Shutdown(ctx context.Context) {
	c.setMotor(ctx, false)
	c.setIndicator(ctx, false)
	c.show(msgStopped)

	logger.InfoKV(ctx, "System stopped", "state", c.state.String())
}

// State returns the current state.
func (c *Controller) State() mechanism.State {
	return c.state
}

// Snapshot returns a copy of the observable state.
func (c *Controller) Snapshot() *mechanism.Snapshot {
	s := &mechanism.Snapshot{
		State:            c.state,
		StateStartMillis: c.stateStart,
		NowMillis:        c.now(),
		Motor:            c.motor,
		Indicator:        c.indicator,
		LastDistance:     c.lastDistance,
		Display:          c.screen,
		Transitions:      c.history,
	}

	return s.Clone()
}

// now reads the clock.
func (c *Controller) now() uint32 {
	return c.devices.Clock.NowMillis()
}

// elapsed returns the time spent since start, correct across counter wrap.
func elapsed(now, start uint32) uint32 {
	return now - start
}

// dwellExpired reports whether the current state has lasted at least d.
func (c *Controller) dwellExpired(d uint32) bool {
	return elapsed(c.now(), c.stateStart) >= d
}

// transition commits a state change and restarts the dwell timer.
func (c *Controller) transition(ctx context.Context, to mechanism.State, cause string) {
	from := c.state
	now := c.now()

	c.state = to
	c.stateStart = now
	c.motionShown = false
	c.changed = true

	if len(c.history) == c.opts.HistorySize {
		copy(c.history, c.history[1:])
		c.history = c.history[:len(c.history)-1]
	}

	c.history = append(c.history, mechanism.Transition{
		From:     from,
		To:       to,
		AtMillis: now,
		Cause:    cause,
	})

	logger.InfoKV(ctx, "Transition", "from", from.String(), "to", to.String(), "cause", cause, "at_ms", now)
}

// setMotor writes the motor line. The write always reaches the hardware.
func (c *Controller) setMotor(ctx context.Context, on bool) {
	c.devices.Actuators.SetMotor(on)

	if c.motor != on {
		c.motor = on
		c.changed = true

		logger.DebugKV(ctx, "Motor", "on", on)
	}
}

// setIndicator writes the indicator line.
func (c *Controller) setIndicator(ctx context.Context, on bool) {
	c.devices.Actuators.SetIndicator(on)

	if c.indicator != on {
		c.indicator = on
		c.changed = true

		logger.DebugKV(ctx, "Indicator", "on", on)
	}
}

// show clears the display and prints lines from the top-left corner.
func (c *Controller) show(lines ...string) {
	c.devices.Display.Clear()
	c.clearScreen()

	for row, line := range lines {
		if row >= mechanism.DisplayRows {
			break
		}

		c.print(0, row, line)
	}
}

// print positions the cursor and writes text, keeping the mirror in sync.
func (c *Controller) print(col, row int, text string) {
	c.devices.Display.SetCursor(col, row)
	c.devices.Display.Print(text)

	line := c.screen[row]
	if pad := col - len(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}

	rest := ""
	if end := col + len(text); end < len(line) {
		rest = line[end:]
	}

	c.screen[row] = line[:col] + text + rest
	c.changed = true
}

// clearScreen resets the mirror after a display clear.
func (c *Controller) clearScreen() {
	c.screen = [mechanism.DisplayRows]string{}
	c.changed = true
}
