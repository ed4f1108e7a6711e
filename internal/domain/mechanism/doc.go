// Package mechanism contains the domain types of the motion-activated mechanism.
//
// It defines the FSM State tag, the remote Command set and its code table,
// the echo-to-distance conversion and the Snapshot published to observers.
package mechanism
