package gpio

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/oshokin/motion-controller/internal/config"
)

// ErrUnknownPin is returned when a pin name is not registered with periph.
var ErrUnknownPin = errors.New("unknown GPIO pin")

// inputPin is the part of gpio.PinIn the adapters use.
type inputPin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// outputPin is the part of gpio.PinOut the adapters use.
type outputPin interface {
	Out(l gpio.Level) error
}

// Pins holds resolved pins.
type Pins struct {
	PIR       inputPin
	Trigger   outputPin
	Echo      inputPin
	Motor     outputPin
	Indicator outputPin
}

// Board is the controller's view of the physical board.
type Board struct {
	pins Pins
	log  *zap.SugaredLogger

	// Range is the ultrasonic module.
	Range *HCSR04
	// Display is the status display; nil for boards built with NewBoard.
	Display *LCD

	bus i2c.BusCloser
}

// Open initializes periph, resolves the configured pins and opens the display bus.
func Open(cfg *config.Config, log *zap.SugaredLogger) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	pins, err := resolvePins(cfg.Pins)
	if err != nil {
		return nil, err
	}

	board, err := NewBoard(pins, cfg.Timings.EchoTimeout, log)
	if err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(cfg.Display.Bus)
	if err != nil {
		board.Close()

		return nil, fmt.Errorf("open I2C bus %q: %w", cfg.Display.Bus, err)
	}

	board.bus = bus

	lcd, err := NewLCD(bus, cfg.Display.Address, cfg.Display.Columns, cfg.Display.Rows, log)
	if err != nil {
		board.Close()

		return nil, err
	}

	board.Display = lcd

	return board, nil
}

// resolvePins looks every configured name up in the periph registry.
func resolvePins(names config.Pins) (Pins, error) {
	lookup := func(role, name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %s pin %q", ErrUnknownPin, role, name)
		}

		return p, nil
	}

	var (
		pins Pins
		err  error
		p    gpio.PinIO
	)

	if p, err = lookup("pir", names.PIR); err != nil {
		return Pins{}, err
	}

	pins.PIR = p

	if p, err = lookup("trigger", names.Trigger); err != nil {
		return Pins{}, err
	}

	pins.Trigger = p

	if p, err = lookup("echo", names.Echo); err != nil {
		return Pins{}, err
	}

	pins.Echo = p

	if p, err = lookup("motor", names.Motor); err != nil {
		return Pins{}, err
	}

	pins.Motor = p

	if p, err = lookup("indicator", names.Indicator); err != nil {
		return Pins{}, err
	}

	pins.Indicator = p

	return pins, nil
}

// NewBoard configures already resolved pins: outputs low, inputs pulled down.
func NewBoard(pins Pins, echoTimeout time.Duration, log *zap.SugaredLogger) (*Board, error) {
	for name, out := range map[string]outputPin{
		"trigger":   pins.Trigger,
		"motor":     pins.Motor,
		"indicator": pins.Indicator,
	} {
		if err := out.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("configure %s output: %w", name, err)
		}
	}

	if err := pins.PIR.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure pir input: %w", err)
	}

	if err := pins.Echo.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure echo input: %w", err)
	}

	return &Board{
		pins:  pins,
		log:   log,
		Range: NewHCSR04(pins.Trigger, pins.Echo, echoTimeout, log),
	}, nil
}

// MotionDetected reports whether the PIR output is high.
func (b *Board) MotionDetected() bool {
	return b.pins.PIR.Read() == gpio.High
}

// SetMotor drives the motor enable line.
func (b *Board) SetMotor(on bool) {
	b.write("motor", b.pins.Motor, on)
}

// SetIndicator drives the LED and buzzer line.
func (b *Board) SetIndicator(on bool) {
	b.write("indicator", b.pins.Indicator, on)
}

func (b *Board) write(name string, p outputPin, on bool) {
	if err := p.Out(gpio.Level(on)); err != nil {
		b.log.Errorw("GPIO write failed", "pin", name, "level", on, "error", err)
	}
}

// Close drives the outputs low and releases the display bus.
func (b *Board) Close() {
	b.SetMotor(false)
	b.SetIndicator(false)
	b.write("trigger", b.pins.Trigger, false)

	if b.bus != nil {
		if err := b.bus.Close(); err != nil {
			b.log.Errorw("Closing I2C bus failed", "error", err)
		}

		b.bus = nil
	}
}
