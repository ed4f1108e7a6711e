package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
	"github.com/oshokin/motion-controller/internal/hardware"
)

// rig wires a controller to fakes.
type rig struct {
	ctx       context.Context
	clock     *hardware.ManualClock
	motion    *fakeMotion
	rng       *fakeRange
	remote    *fakeRemote
	display   *fakeDisplay
	actuators *fakeActuators
	c         *Controller
}

// newRig starts a controller at clock reading start.
func newRig(t *testing.T, start uint32) *rig {
	t.Helper()

	r := &rig{
		ctx:       context.Background(),
		clock:     hardware.NewManualClock(start),
		motion:    new(fakeMotion),
		rng:       new(fakeRange),
		remote:    new(fakeRemote),
		display:   new(fakeDisplay),
		actuators: new(fakeActuators),
	}

	c, err := New(Devices{
		Clock:     r.clock,
		Motion:    r.motion,
		Range:     r.rng,
		Remote:    r.remote,
		Display:   r.display,
		Actuators: r.actuators,
	}, DefaultOptions())
	require.NoError(t, err)

	r.c = c
	r.c.Start(r.ctx)

	return r
}

// tickAt moves the clock to ms and runs one tick.
func (r *rig) tickAt(ms uint32) mechanism.State {
	r.clock.Set(ms)
	r.c.Tick(r.ctx)

	return r.c.State()
}

// enter forces the controller into s at the current clock reading.
func (r *rig) enter(s mechanism.State) {
	r.c.transition(r.ctx, s, "test")
}

// press queues a remote code.
func (r *rig) press(code uint32) {
	r.remote.codes = append(r.remote.codes, code)
}

// TestNew_RequiresDevices checks that every collaborator is mandatory.
func TestNew_RequiresDevices(t *testing.T) {
	t.Parallel()

	_, err := New(Devices{}, DefaultOptions())
	require.ErrorIs(t, err, ErrMissingDevice)
	require.ErrorContains(t, err, "clock")
	require.ErrorContains(t, err, "actuators")
}

// TestHandlerTable_IsTotal verifies every state has exactly one handler and ticking it never leaves the enum.
func TestHandlerTable_IsTotal(t *testing.T) {
	t.Parallel()

	for _, s := range mechanism.States() {
		r := newRig(t, 0)
		require.Contains(t, r.c.handlers, s)

		r.enter(s)
		r.rng.echoes = []echoResult{{echo: 500 * time.Microsecond, ok: true}}

		got := r.tickAt(0)
		require.True(t, got.Valid(), s.String())
	}

	r := newRig(t, 0)
	require.Len(t, r.c.handlers, len(mechanism.States()))
}

// TestStart_InitialState checks power-on outputs and message.
func TestStart_InitialState(t *testing.T) {
	t.Parallel()

	r := newRig(t, 123)

	require.Equal(t, mechanism.Calibrating, r.c.State())
	require.False(t, r.actuators.motor)
	require.False(t, r.actuators.indicator)
	require.Equal(t, [2]int{1, 0}, r.display.cursor)
	require.Equal(t, 1, r.display.count("Calibrating..."))

	snap := r.c.Snapshot()
	require.Equal(t, " Calibrating...", snap.Display[0])
	require.Equal(t, uint32(123), snap.StateStartMillis)
}

// TestEndToEnd walks the full calibrate, listen, detect, measure, run cycle.
func TestEndToEnd(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.rng.echoes = []echoResult{{echo: 500 * time.Microsecond, ok: true}}

	require.Equal(t, mechanism.Calibrating, r.tickAt(1999))
	require.Equal(t, mechanism.Ready, r.tickAt(2000))
	require.Equal(t, 1, r.display.count("Sensor is ready."))

	require.Equal(t, mechanism.Ready, r.tickAt(3999))
	require.Equal(t, mechanism.Listening, r.tickAt(4000))
	require.Equal(t, mechanism.Listening, r.tickAt(4500))

	r.motion.motion = true
	require.Equal(t, mechanism.MotionDetected, r.tickAt(4600))
	r.motion.motion = false

	require.Equal(t, mechanism.MotionDetected, r.tickAt(4600))
	require.Equal(t, 1, r.display.count("Motion detected!"))
	require.Equal(t, mechanism.MotionDetected, r.tickAt(5599))
	require.Equal(t, mechanism.CheckingDistance, r.tickAt(5600))

	require.Equal(t, mechanism.BuzzerSinging, r.tickAt(5600))
	require.Equal(t, 1, r.rng.triggers)
	require.True(t, r.actuators.indicator)
	require.False(t, r.actuators.motor)
	require.Equal(t, int64(8), r.c.Snapshot().LastDistance.Centimeters)

	require.Equal(t, mechanism.BuzzerSinging, r.tickAt(5699))
	require.Equal(t, mechanism.MotorRunning, r.tickAt(5700))
	require.True(t, r.actuators.motor)
	require.False(t, r.actuators.indicator)

	require.Equal(t, mechanism.MotorRunning, r.tickAt(10699))
	require.True(t, r.actuators.motor)
	require.Equal(t, mechanism.Listening, r.tickAt(10700))
	require.False(t, r.actuators.motor)
	require.Zero(t, r.actuators.bothOn)

	snap := r.c.Snapshot()
	require.Equal(t, "Listening...", snap.Display[0])
	require.Len(t, snap.Transitions, 7)
	require.Equal(t, mechanism.MotorRunning, snap.Transitions[6].From)
}

// TestDwellMonotonicity checks every dwell state holds until T+D and leaves on the first tick at T+D.
func TestDwellMonotonicity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state mechanism.State
		dwell uint32
		next  mechanism.State
	}{
		{mechanism.Calibrating, 2000, mechanism.Ready},
		{mechanism.Ready, 2000, mechanism.Listening},
		{mechanism.TooFar, 2000, mechanism.Listening},
		{mechanism.Resuming, 1000, mechanism.Listening},
		{mechanism.MotionDetected, 1000, mechanism.CheckingDistance},
		{mechanism.BuzzerSinging, 100, mechanism.MotorRunning},
		{mechanism.MotorRunning, 5000, mechanism.Listening},
	}

	for _, tc := range cases {
		t.Run(tc.state.String(), func(t *testing.T) {
			t.Parallel()

			const entry = 50_000

			r := newRig(t, entry)
			r.enter(tc.state)

			for _, at := range []uint32{entry, entry + 1, entry + tc.dwell/2, entry + tc.dwell - 1} {
				require.Equal(t, tc.state, r.tickAt(at), "at %d", at)
			}

			require.Equal(t, tc.next, r.tickAt(entry+tc.dwell))
		})
	}
}

// TestDwell_AcrossClockWrap checks that dwell arithmetic survives the 32-bit wrap.
func TestDwell_AcrossClockWrap(t *testing.T) {
	t.Parallel()

	start := ^uint32(0) - 499

	r := newRig(t, start)

	require.Equal(t, mechanism.Calibrating, r.tickAt(^uint32(0)))
	require.Equal(t, mechanism.Calibrating, r.tickAt(1498))
	require.Equal(t, mechanism.Ready, r.tickAt(1500))
}

// TestHoldStates_NeverLeaveOnTheirOwn checks PAUSED and CONTINUOUS_RUNNING ignore time and motion.
func TestHoldStates_NeverLeaveOnTheirOwn(t *testing.T) {
	t.Parallel()

	for _, s := range []mechanism.State{mechanism.Paused, mechanism.ContinuousRunning} {
		r := newRig(t, 0)
		r.enter(s)
		r.motion.motion = true

		require.Equal(t, s, r.tickAt(1_000_000))
		require.Zero(t, r.motion.reads)
	}
}

// TestOverride_PauseDuringMotorRun checks pause preempts the motor dwell and clears outputs.
func TestOverride_PauseDuringMotorRun(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.MotorRunning)
	require.Equal(t, mechanism.MotorRunning, r.tickAt(1000))
	require.True(t, r.actuators.motor)

	r.press(mechanism.DefaultPauseCode)
	require.Equal(t, mechanism.Paused, r.tickAt(1001))
	require.False(t, r.actuators.motor)
	require.False(t, r.actuators.indicator)
	require.Equal(t, 1, r.display.count("Paused"))
	require.Equal(t, 1, r.remote.resumes)

	require.Equal(t, mechanism.Paused, r.tickAt(60_000))
	require.False(t, r.actuators.motor)
}

// TestOverride_PauseFromEveryState checks PAUSED is reachable from any other state.
func TestOverride_PauseFromEveryState(t *testing.T) {
	t.Parallel()

	for _, s := range mechanism.States() {
		if s == mechanism.Paused {
			continue
		}

		r := newRig(t, 0)
		r.enter(s)
		r.actuators.SetIndicator(true)
		r.press(mechanism.DefaultPauseCode)

		require.Equal(t, mechanism.Paused, r.tickAt(10), s.String())
		require.False(t, r.actuators.motor, s.String())
		require.False(t, r.actuators.indicator, s.String())
		require.Equal(t, uint32(10), r.c.Snapshot().StateStartMillis)
	}
}

// TestOverride_ResumePath checks PAUSED -> RESUMING -> LISTENING.
func TestOverride_ResumePath(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.Paused)

	r.press(mechanism.DefaultPauseCode)
	require.Equal(t, mechanism.Resuming, r.tickAt(5000))
	require.Equal(t, 1, r.display.count("Resuming..."))

	require.Equal(t, mechanism.Resuming, r.tickAt(5999))
	require.Equal(t, mechanism.Listening, r.tickAt(6000))
}

// TestOverride_ContinuousRunning checks start and stop of manual mode.
func TestOverride_ContinuousRunning(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.BuzzerSinging)
	r.actuators.SetIndicator(true)

	r.press(mechanism.DefaultStartContinuousCode)
	require.Equal(t, mechanism.ContinuousRunning, r.tickAt(10))
	require.True(t, r.actuators.motor)
	require.False(t, r.actuators.indicator)
	require.Equal(t, 1, r.display.count("Running..."))

	require.Equal(t, mechanism.ContinuousRunning, r.tickAt(100_000))
	require.True(t, r.actuators.motor)

	r.press(mechanism.DefaultStopContinuousCode)
	require.Equal(t, mechanism.Listening, r.tickAt(100_010))
	require.False(t, r.actuators.motor)
}

// TestOverride_StopRunsListeningSameTick checks the new state's handler runs right after the override.
func TestOverride_StopRunsListeningSameTick(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.ContinuousRunning)
	r.motion.motion = true

	r.press(mechanism.DefaultStopContinuousCode)
	require.Equal(t, mechanism.MotionDetected, r.tickAt(10))
}

// TestOverride_Debounce checks two codes 500 ms apart yield one transition.
func TestOverride_Debounce(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.Listening)

	r.press(mechanism.DefaultPauseCode)
	require.Equal(t, mechanism.Paused, r.tickAt(1000))

	r.press(mechanism.DefaultPauseCode)
	require.Equal(t, mechanism.Paused, r.tickAt(1500))
	require.Equal(t, 2, r.remote.resumes)
	require.Empty(t, r.remote.codes)

	require.Equal(t, mechanism.Paused, r.tickAt(2000))

	r.press(mechanism.DefaultPauseCode)
	require.Equal(t, mechanism.Resuming, r.tickAt(2000))
}

// TestOverride_UnknownCodeIgnored checks unknown codes change nothing and do not start a debounce window.
func TestOverride_UnknownCodeIgnored(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.Listening)

	r.press(0xFF6897)
	require.Equal(t, mechanism.Listening, r.tickAt(100))
	require.Equal(t, 1, r.remote.resumes)

	r.press(mechanism.DefaultPauseCode)
	require.Equal(t, mechanism.Paused, r.tickAt(200))
}

// TestDistanceGate_Boundary checks 10 cm is too far and 9 cm runs the motor.
func TestDistanceGate_Boundary(t *testing.T) {
	t.Parallel()

	far := newRig(t, 0)
	far.rng.echoes = []echoResult{{echo: 580 * time.Microsecond, ok: true}}
	far.enter(mechanism.CheckingDistance)

	require.Equal(t, mechanism.TooFar, far.tickAt(0))
	require.False(t, far.actuators.indicator)
	require.Equal(t, [2]string{"Too far away!", "10 cm"}, far.c.Snapshot().Display)

	near := newRig(t, 0)
	near.rng.echoes = []echoResult{{echo: 522 * time.Microsecond, ok: true}}
	near.enter(mechanism.CheckingDistance)

	require.Equal(t, mechanism.BuzzerSinging, near.tickAt(0))
	require.True(t, near.actuators.indicator)
	require.Equal(t, 1, near.display.count("Motor running!"))
	require.Equal(t, mechanism.BuzzerSinging, near.tickAt(99))
	require.Equal(t, mechanism.MotorRunning, near.tickAt(100))
	require.True(t, near.actuators.motor)
}

// TestDistanceGate_EchoTimeoutFailsSafe checks an unknown distance never engages the motor.
func TestDistanceGate_EchoTimeoutFailsSafe(t *testing.T) {
	t.Parallel()

	for _, echo := range []echoResult{{ok: false}, {echo: 0, ok: true}} {
		r := newRig(t, 0)
		r.rng.echoes = []echoResult{echo}
		r.enter(mechanism.CheckingDistance)

		require.Equal(t, mechanism.TooFar, r.tickAt(0))
		require.False(t, r.actuators.motor)
		require.False(t, r.actuators.indicator)

		snap := r.c.Snapshot()
		require.Equal(t, "no echo", snap.Display[1])
		require.False(t, snap.LastDistance.Known)
	}
}

// TestMotorRunning_ReassertsEveryTick checks the motor line is rewritten on each tick.
func TestMotorRunning_ReassertsEveryTick(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.MotorRunning)

	before := r.actuators.motorWrites

	for ms := uint32(1); ms <= 5; ms++ {
		r.tickAt(ms)
	}

	require.Equal(t, before+5, r.actuators.motorWrites)
}

// TestMotionLatch_ResetsOnExit checks the motion message is shown again after an override left the state.
func TestMotionLatch_ResetsOnExit(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.enter(mechanism.MotionDetected)
	r.tickAt(0)
	require.Equal(t, 1, r.display.count("Motion detected!"))

	r.press(mechanism.DefaultStopContinuousCode)
	require.Equal(t, mechanism.Listening, r.tickAt(500))

	r.motion.motion = true
	require.Equal(t, mechanism.MotionDetected, r.tickAt(600))
	require.Equal(t, mechanism.MotionDetected, r.tickAt(600))
	require.Equal(t, 2, r.display.count("Motion detected!"))
	require.Equal(t, mechanism.MotionDetected, r.tickAt(1599))
	require.Equal(t, mechanism.CheckingDistance, r.tickAt(1600))
}

// TestTick_ReportsChanges checks Tick reports idle and busy ticks.
func TestTick_ReportsChanges(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)

	r.clock.Set(10)
	require.False(t, r.c.Tick(r.ctx))

	r.clock.Set(2000)
	require.True(t, r.c.Tick(r.ctx))
}

// TestHistory_IsBounded checks the transition history keeps only the newest entries.
func TestHistory_IsBounded(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)

	for i := range DefaultHistorySize + 5 {
		r.enter(mechanism.States()[i%len(mechanism.States())])
	}

	snap := r.c.Snapshot()
	require.Len(t, snap.Transitions, DefaultHistorySize)
	require.Equal(t, "test", snap.Transitions[0].Cause)
}

// TestShutdown_SwitchesOutputsOff checks outputs are cleared on shutdown.
func TestShutdown_SwitchesOutputsOff(t *testing.T) {
	t.Parallel()

	r := newRig(t, 0)
	r.press(mechanism.DefaultStartContinuousCode)
	r.tickAt(10)
	require.True(t, r.actuators.motor)

	r.c.Shutdown(r.ctx)
	require.False(t, r.actuators.motor)
	require.Equal(t, "Stopped", r.c.Snapshot().Display[0])
}
