// Package client talks to a running motion controller over its gRPC bridge.
//
// It backs the press and status subcommands: press sends a virtual remote
// button, status prints the latest published snapshot as JSON.
package client
