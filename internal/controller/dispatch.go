package controller

import (
	"context"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
)

// handlerFunc runs the logic of one state for one tick.
type handlerFunc func(ctx context.Context)

// handlerTable maps every state to its handler. New refuses to build a
// controller if a state is missing here.
func (c *Controller) handlerTable() map[mechanism.State]handlerFunc {
	return map[mechanism.State]handlerFunc{
		mechanism.Calibrating:       c.handleCalibrating,
		mechanism.Ready:             c.handleReady,
		mechanism.Listening:         c.handleListening,
		mechanism.MotionDetected:    c.handleMotionDetected,
		mechanism.BuzzerSinging:     c.handleBuzzerSinging,
		mechanism.CheckingDistance:  c.handleCheckingDistance,
		mechanism.TooFar:            c.handleTooFar,
		mechanism.MotorRunning:      c.handleMotorRunning,
		mechanism.Paused:            c.handleHold,
		mechanism.Resuming:          c.handleResuming,
		mechanism.ContinuousRunning: c.handleHold,
	}
}
