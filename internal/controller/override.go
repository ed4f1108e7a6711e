package controller

import (
	"context"
	"fmt"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
	"github.com/oshokin/motion-controller/internal/logger"
)

// checkRemote decodes at most one pending command and applies it,
// whatever the current state is.
func (c *Controller) checkRemote(ctx context.Context) {
	code, ok := c.devices.Remote.TryDecode()
	if !ok {
		return
	}

	defer c.devices.Remote.Resume()

	now := c.now()
	hex := fmt.Sprintf("0x%06X", code)

	if c.remoteAccepted && elapsed(now, c.remoteAcceptedAt) < c.dwell.debounce {
		logger.DebugKV(ctx, "Remote code suppressed by debounce", "code", hex,
			"since_last_ms", elapsed(now, c.remoteAcceptedAt))

		return
	}

	cmd := c.opts.Codes.Lookup(code)
	if cmd == mechanism.CommandUnknown {
		logger.WarnKV(ctx, "Unknown remote code ignored", "code", hex)

		return
	}

	logger.InfoKV(ctx, "Remote control pressed", "code", hex, "command", cmd.String(), "state", c.state.String())

	c.remoteAccepted = true
	c.remoteAcceptedAt = now

	c.apply(ctx, cmd)
}

// apply performs the override transition for cmd.
func (c *Controller) apply(ctx context.Context, cmd mechanism.Command) {
	switch cmd {
	case mechanism.CommandTogglePause:
		if c.state == mechanism.Paused {
			c.show(msgResuming)
			c.transition(ctx, mechanism.Resuming, causeRemote)

			return
		}

		c.setMotor(ctx, false)
		c.setIndicator(ctx, false)
		c.show(msgPaused)
		c.transition(ctx, mechanism.Paused, causeRemote)
	case mechanism.CommandStartContinuous:
		c.setMotor(ctx, true)
		c.setIndicator(ctx, false)
		c.show(msgRunning)
		c.transition(ctx, mechanism.ContinuousRunning, causeRemote)
	case mechanism.CommandStopContinuous:
		c.setMotor(ctx, false)
		c.setIndicator(ctx, false)
		c.show(msgListening)
		c.transition(ctx, mechanism.Listening, causeRemote)
	case mechanism.CommandUnknown:
	}
}
