// Package version exposes build metadata for motion-controller.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
