// Package remote provides the remote-control receivers consumed by the controller.
//
// Queue behaves like an IR decoder: it holds one decoded code until Resume is
// called. LIRC feeds a Queue from a lircd socket, and the gRPC bridge feeds
// the same Queue with virtual button presses.
package remote
