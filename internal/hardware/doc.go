// Package hardware holds the clock sources shared by the device adapters.
//
// Device adapters live in subpackages: gpio talks to real pins through
// periph, sim fakes the devices for a bench run without a board.
package hardware
