// Package controller runs the motion controller process.
//
// Run loads the settings, claims the hardware, starts the remote sources and
// the gRPC bridge, then drives the state machine until the context is
// canceled. On the way out the motor and indicator are switched off.
package controller
