package controller

import (
	"context"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
	"github.com/oshokin/motion-controller/internal/logger"
)

// Transition causes recorded in the history.
const (
	causeDwell    = "dwell"
	causeMotion   = "motion"
	causeDistance = "distance"
	causeRemote   = "remote"
)

func (c *Controller) handleCalibrating(ctx context.Context) {
	if !c.dwellExpired(c.dwell.calibration) {
		return
	}

	c.show(msgReady)
	c.transition(ctx, mechanism.Ready, causeDwell)
}

func (c *Controller) handleReady(ctx context.Context) {
	if !c.dwellExpired(c.dwell.ready) {
		return
	}

	c.show(msgListening)
	c.transition(ctx, mechanism.Listening, causeDwell)
}

// handleListening polls the PIR once; one positive sample is enough.
func (c *Controller) handleListening(ctx context.Context) {
	if !c.devices.Motion.MotionDetected() {
		return
	}

	logger.InfoKV(ctx, "Motion detected")
	c.transition(ctx, mechanism.MotionDetected, causeMotion)
}

// handleMotionDetected shows the motion message on its first tick and
// moves on once the message has been visible for the message dwell.
func (c *Controller) handleMotionDetected(ctx context.Context) {
	if !c.motionShown {
		c.show(msgMotionDetected)
		c.motionShown = true
		c.motionStart = c.now()
	}

	if elapsed(c.now(), c.motionStart) < c.dwell.motionMessage {
		return
	}

	c.transition(ctx, mechanism.CheckingDistance, causeDwell)
}

// handleBuzzerSinging hands the outputs over from indicator to motor.
func (c *Controller) handleBuzzerSinging(ctx context.Context) {
	if !c.dwellExpired(c.dwell.buzzer) {
		return
	}

	c.setIndicator(ctx, false)
	c.setMotor(ctx, true)
	c.transition(ctx, mechanism.MotorRunning, causeDwell)
}

// handleCheckingDistance measures once and always leaves the state.
func (c *Controller) handleCheckingDistance(ctx context.Context) {
	c.devices.Range.Trigger()
	echo, ok := c.devices.Range.MeasureEcho()

	distance := mechanism.DistanceFromEcho(echo, ok)
	c.lastDistance = &distance

	if distance.Known {
		logger.InfoKV(ctx, "Distance measured", "echo_us", distance.EchoMicros, "distance_cm", distance.Centimeters)
	} else {
		logger.WarnKV(ctx, "Distance unknown, treating as too far", "echo_us", distance.EchoMicros, "timed_out", !ok)
	}

	if distance.AtLeast(c.opts.MaxDistanceCM) {
		c.show(msgTooFar, distance.String())
		c.transition(ctx, mechanism.TooFar, causeDistance)

		return
	}

	c.setIndicator(ctx, true)
	c.show(msgMotorRunning)
	c.transition(ctx, mechanism.BuzzerSinging, causeDistance)
}

func (c *Controller) handleTooFar(ctx context.Context) {
	if !c.dwellExpired(c.dwell.tooFar) {
		return
	}

	c.show(msgListening)
	c.transition(ctx, mechanism.Listening, causeDwell)
}

// handleMotorRunning re-asserts the motor every tick until the run time is over.
func (c *Controller) handleMotorRunning(ctx context.Context) {
	c.setMotor(ctx, true)

	if !c.dwellExpired(c.dwell.motorRun) {
		return
	}

	c.setMotor(ctx, false)
	c.show(msgListening)
	c.transition(ctx, mechanism.Listening, causeDwell)
}

func (c *Controller) handleResuming(ctx context.Context) {
	if !c.dwellExpired(c.dwell.resuming) {
		return
	}

	c.show(msgListening)
	c.transition(ctx, mechanism.Listening, causeDwell)
}

// handleHold serves PAUSED and CONTINUOUS_RUNNING: only the remote leaves them.
func (c *Controller) handleHold(context.Context) {}
