package controller

import (
	"context"
	"fmt"

	"github.com/oshokin/motion-controller/internal/config"
	core "github.com/oshokin/motion-controller/internal/controller"
	"github.com/oshokin/motion-controller/internal/hardware/gpio"
	"github.com/oshokin/motion-controller/internal/hardware/sim"
	"github.com/oshokin/motion-controller/internal/logger"
)

// openDevices builds the configured backend. The returned func releases it.
func openDevices(
	ctx context.Context,
	cfg *config.Config,
	clock core.Clock,
	receiver core.RemoteReceiver,
) (core.Devices, func(), error) {
	log := logger.FromContext(ctx)

	switch cfg.Hardware {
	case config.HardwareGPIO:
		board, err := gpio.Open(cfg, log.Named("gpio"))
		if err != nil {
			return core.Devices{}, nil, fmt.Errorf("open board: %w", err)
		}

		devices := core.Devices{
			Clock:     clock,
			Motion:    board,
			Range:     board.Range,
			Remote:    receiver,
			Display:   board.Display,
			Actuators: board,
		}

		return devices, board.Close, nil
	case config.HardwareSimulator:
		log = log.Named("sim")

		devices := core.Devices{
			Clock:     clock,
			Motion:    sim.NewPIR(clock, cfg.Simulator.MotionInterval),
			Range:     sim.NewRangeFinder(cfg.Simulator.EchoMicros),
			Remote:    receiver,
			Display:   sim.NewDisplay(log, cfg.Display.Columns, cfg.Display.Rows),
			Actuators: sim.NewActuators(log),
		}

		return devices, func() {}, nil
	default:
		return core.Devices{}, nil, fmt.Errorf("%w: unknown hardware %q", config.ErrInvalidConfig, cfg.Hardware)
	}
}

// controllerOptions maps settings onto the state machine options.
func controllerOptions(cfg *config.Config) core.Options {
	opts := core.DefaultOptions()

	opts.Timings = core.Timings{
		Calibration:    cfg.Timings.Calibration,
		Ready:          cfg.Timings.Ready,
		TooFar:         cfg.Timings.TooFar,
		Resuming:       cfg.Timings.Resuming,
		MotionMessage:  cfg.Timings.MotionMessage,
		Buzzer:         cfg.Timings.Buzzer,
		MotorRun:       cfg.Timings.MotorRun,
		RemoteDebounce: cfg.Remote.Debounce,
	}
	opts.Codes = cfg.Remote.Codes
	opts.MaxDistanceCM = cfg.MaxDistanceCM

	return opts
}
