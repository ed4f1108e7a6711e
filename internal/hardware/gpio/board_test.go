package gpio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

// testPins returns fresh fake pins.
func testPins() (Pins, map[string]*gpiotest.Pin) {
	raw := map[string]*gpiotest.Pin{
		"pir":       {N: "PIR", EdgesChan: make(chan gpio.Level, 2)},
		"trigger":   {N: "TRIG", L: gpio.High},
		"echo":      {N: "ECHO", EdgesChan: make(chan gpio.Level, 2)},
		"motor":     {N: "MOTOR", L: gpio.High},
		"indicator": {N: "LED", L: gpio.High},
	}

	return Pins{
		PIR:       raw["pir"],
		Trigger:   raw["trigger"],
		Echo:      raw["echo"],
		Motor:     raw["motor"],
		Indicator: raw["indicator"],
	}, raw
}

// TestNewBoard_ConfiguresPins checks outputs start low and inputs are pulled down.
func TestNewBoard_ConfiguresPins(t *testing.T) {
	t.Parallel()

	pins, raw := testPins()

	board, err := NewBoard(pins, 0, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NotNil(t, board.Range)

	for _, name := range []string{"trigger", "motor", "indicator"} {
		require.Equal(t, gpio.Low, raw[name].L, name)
	}

	require.Equal(t, gpio.PullDown, raw["pir"].P)
	require.Equal(t, gpio.PullDown, raw["echo"].P)
}

// TestBoard_IO checks PIR reads and actuator writes reach the pins.
func TestBoard_IO(t *testing.T) {
	t.Parallel()

	pins, raw := testPins()

	board, err := NewBoard(pins, 0, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.False(t, board.MotionDetected())

	raw["pir"].L = gpio.High
	require.True(t, board.MotionDetected())

	board.SetMotor(true)
	board.SetIndicator(true)
	require.Equal(t, gpio.High, raw["motor"].L)
	require.Equal(t, gpio.High, raw["indicator"].L)

	board.Close()
	require.Equal(t, gpio.Low, raw["motor"].L)
	require.Equal(t, gpio.Low, raw["indicator"].L)
}

// recordingPin counts trigger levels and the spin delays between them.
type recordingPin struct {
	levels []gpio.Level
}

func (p *recordingPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)

	return nil
}

// TestHCSR04_TriggerPulse checks the low 2 µs, high 10 µs, low sequence.
func TestHCSR04_TriggerPulse(t *testing.T) {
	t.Parallel()

	trigger := new(recordingPin)
	echo := &gpiotest.Pin{N: "ECHO", EdgesChan: make(chan gpio.Level, 2)}

	var spins []time.Duration

	s := NewHCSR04(trigger, echo, 0, zap.NewNop().Sugar())
	s.spin = func(d time.Duration) { spins = append(spins, d) }

	s.Trigger()

	require.Equal(t, []gpio.Level{gpio.Low, gpio.High, gpio.Low}, trigger.levels)
	require.Equal(t, []time.Duration{2 * time.Microsecond, 10 * time.Microsecond}, spins)
	require.Equal(t, DefaultEchoTimeout, s.timeout)
}

// TestHCSR04_MeasureEcho checks a full pulse is measured and missing edges time out.
func TestHCSR04_MeasureEcho(t *testing.T) {
	t.Parallel()

	echo := &gpiotest.Pin{N: "ECHO", EdgesChan: make(chan gpio.Level, 2)}

	s := NewHCSR04(new(recordingPin), echo, 20*time.Millisecond, zap.NewNop().Sugar())
	s.spin = func(time.Duration) {}

	// Not triggered yet.
	_, ok := s.MeasureEcho()
	require.False(t, ok)

	s.Trigger()
	echo.EdgesChan <- gpio.High
	echo.EdgesChan <- gpio.Low

	d, ok := s.MeasureEcho()
	require.True(t, ok)
	require.GreaterOrEqual(t, d, time.Duration(0))

	// No edges at all.
	s.Trigger()

	_, ok = s.MeasureEcho()
	require.False(t, ok)

	// Rising edge only.
	s.Trigger()
	echo.EdgesChan <- gpio.High

	_, ok = s.MeasureEcho()
	require.False(t, ok)
}
