// Package controller implements the motion-activated mechanism state machine.
//
// A Controller owns the current state, its dwell timer, the remote debounce
// window, the motion message latch and the output levels. Every Tick first
// gives the remote override a chance to force a transition and then runs the
// handler of the current state exactly once. All timing is measured against a
// wrapping millisecond clock.
package controller
