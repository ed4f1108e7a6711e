// Package logger wraps zap for the controller binaries.
//
// It keeps one global sugared logger with a console encoder, lets callers scope
// it through a context (ToContext/FromContext/WithName/WithKV) and exposes the
// usual level helpers (Infof, WarnKV, ...). The FSM trace, adapter errors and
// CLI output all go through it.
package logger
