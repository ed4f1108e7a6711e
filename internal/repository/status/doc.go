// Package status holds the latest published controller snapshot.
//
// The controller loop saves a snapshot whenever a tick changed something and
// the remote bridge loads it to answer status requests. Snapshots are cloned
// on the way in and on the way out so neither side shares memory.
package status
