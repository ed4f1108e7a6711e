// Package sim provides bench stand-ins for the mechanism's devices.
package sim

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// clock is the millisecond counter the simulated PIR follows.
type clock interface {
	NowMillis() uint32
}

// PIR reports motion once every interval.
type PIR struct {
	clock    clock
	interval uint32
	last     uint32
}

// NewPIR returns a sensor whose first detection is one interval from now.
func NewPIR(c clock, interval time.Duration) *PIR {
	//nolint:gosec // Intervals are far below 49 days.
	return &PIR{
		clock:    c,
		interval: uint32(interval.Milliseconds()),
		last:     c.NowMillis(),
	}
}

// MotionDetected reports true on the first poll of each interval.
func (p *PIR) MotionDetected() bool {
	now := p.clock.NowMillis()
	if now-p.last < p.interval {
		return false
	}

	p.last = now

	return true
}

// RangeFinder returns the configured echo durations in turn.
type RangeFinder struct {
	echoes   []int64
	next     int
	triggers int
}

// NewRangeFinder cycles through echoMicros; a non-positive entry is a timeout.
func NewRangeFinder(echoMicros []int64) *RangeFinder {
	return &RangeFinder{echoes: append([]int64(nil), echoMicros...)}
}

// Trigger counts the pulse.
func (r *RangeFinder) Trigger() {
	r.triggers++
}

// MeasureEcho returns the next scripted echo.
func (r *RangeFinder) MeasureEcho() (time.Duration, bool) {
	if len(r.echoes) == 0 {
		return 0, false
	}

	us := r.echoes[r.next%len(r.echoes)]
	r.next++

	if us <= 0 {
		return 0, false
	}

	return time.Duration(us) * time.Microsecond, true
}

// Actuators logs output level changes.
type Actuators struct {
	log       *zap.SugaredLogger
	motor     bool
	indicator bool
}

// NewActuators returns actuators logging to log.
func NewActuators(log *zap.SugaredLogger) *Actuators {
	return &Actuators{log: log}
}

// SetMotor records the motor level.
func (a *Actuators) SetMotor(on bool) {
	if a.motor != on {
		a.log.Infow("Motor line", "on", on)
	}

	a.motor = on
}

// SetIndicator records the indicator level.
func (a *Actuators) SetIndicator(on bool) {
	if a.indicator != on {
		a.log.Infow("Indicator line", "on", on)
	}

	a.indicator = on
}

// Motor returns the motor level.
func (a *Actuators) Motor() bool { return a.motor }

// Indicator returns the indicator level.
func (a *Actuators) Indicator() bool { return a.indicator }

// Display is a character display that logs every print.
type Display struct {
	log     *zap.SugaredLogger
	columns int
	rows    []string
	col     int
	row     int
}

// NewDisplay returns a columns x rows display.
func NewDisplay(log *zap.SugaredLogger, columns, rows int) *Display {
	return &Display{
		log:     log,
		columns: columns,
		rows:    make([]string, rows),
	}
}

// Clear blanks every row.
func (d *Display) Clear() {
	for i := range d.rows {
		d.rows[i] = ""
	}

	d.col, d.row = 0, 0
}

// SetCursor moves the cursor, clamped to the display.
func (d *Display) SetCursor(col, row int) {
	d.col = max(0, min(col, d.columns-1))
	d.row = max(0, min(row, len(d.rows)-1))
}

// Print writes text at the cursor; text past the last column is cut.
func (d *Display) Print(text string) {
	line := d.rows[d.row]
	if len(line) < d.col {
		line += strings.Repeat(" ", d.col-len(line))
	}

	rest := ""
	if end := d.col + len(text); end < len(line) {
		rest = line[end:]
	}

	line = line[:d.col] + text + rest
	if len(line) > d.columns {
		line = line[:d.columns]
	}

	d.rows[d.row] = line
	d.col = min(d.col+len(text), d.columns)

	d.log.Infow("Display", "row", d.row, "text", d.rows[d.row])
}

// Rows returns a copy of the display contents.
func (d *Display) Rows() []string {
	return append([]string(nil), d.rows...)
}
