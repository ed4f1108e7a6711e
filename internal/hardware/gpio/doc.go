// Package gpio drives the mechanism's devices through periph.
//
// Board owns the PIR input and the motor and indicator outputs, HCSR04 runs
// the ultrasonic trigger/echo cycle and LCD talks to an HD44780 display
// behind a PCF8574 I2C backpack.
package gpio
