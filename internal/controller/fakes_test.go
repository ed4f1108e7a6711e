package controller

import (
	"strings"
	"time"
)

// fakeMotion is a PIR whose level is set by the test.
type fakeMotion struct {
	motion bool
	reads  int
}

func (f *fakeMotion) MotionDetected() bool {
	f.reads++

	return f.motion
}

// echoResult is one scripted range measurement.
type echoResult struct {
	echo time.Duration
	ok   bool
}

// fakeRange returns scripted echoes and counts trigger pulses.
type fakeRange struct {
	echoes   []echoResult
	triggers int
}

func (f *fakeRange) Trigger() { f.triggers++ }

func (f *fakeRange) MeasureEcho() (time.Duration, bool) {
	if len(f.echoes) == 0 {
		return 0, false
	}

	next := f.echoes[0]
	f.echoes = f.echoes[1:]

	return next.echo, next.ok
}

// fakeRemote keeps the head code pending until Resume, like an IR decoder.
type fakeRemote struct {
	codes   []uint32
	resumes int
}

func (f *fakeRemote) TryDecode() (uint32, bool) {
	if len(f.codes) == 0 {
		return 0, false
	}

	return f.codes[0], true
}

func (f *fakeRemote) Resume() {
	f.resumes++

	if len(f.codes) > 0 {
		f.codes = f.codes[1:]
	}
}

// fakeDisplay records printed text.
type fakeDisplay struct {
	clears  int
	printed []string
	cursor  [2]int
}

func (f *fakeDisplay) Clear() { f.clears++ }

func (f *fakeDisplay) SetCursor(col, row int) { f.cursor = [2]int{col, row} }

func (f *fakeDisplay) Print(text string) { f.printed = append(f.printed, text) }

// count returns how many times text was printed.
func (f *fakeDisplay) count(text string) int {
	n := 0

	for _, p := range f.printed {
		if strings.EqualFold(p, text) {
			n++
		}
	}

	return n
}

// fakeActuators records output levels and writes.
type fakeActuators struct {
	motor       bool
	indicator   bool
	motorWrites int
	bothOn      int
}

func (f *fakeActuators) SetMotor(on bool) {
	f.motor = on
	f.motorWrites++
	f.checkOverlap()
}

func (f *fakeActuators) SetIndicator(on bool) {
	f.indicator = on
	f.checkOverlap()
}

func (f *fakeActuators) checkOverlap() {
	if f.motor && f.indicator {
		f.bothOn++
	}
}
