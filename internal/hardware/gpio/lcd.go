package gpio

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/periph/conn/i2c"
)

// PCF8574 backpack bit layout: P0 RS, P1 RW, P2 EN, P3 backlight, P4-P7 D4-D7.
const (
	bitRS        byte = 0x01
	bitEnable    byte = 0x04
	bitBacklight byte = 0x08
)

// HD44780 instructions.
const (
	cmdClear          byte = 0x01
	cmdEntryModeLeft  byte = 0x06
	cmdDisplayOn      byte = 0x0C
	cmdFunction4Bit2L byte = 0x28
	cmdSetDDRAM       byte = 0x80
)

// Defaults of the common 16x2 backpack.
const (
	DefaultLCDAddress = 0x27
	DefaultLCDColumns = 16
	DefaultLCDRows    = 2
)

//nolint:gochecknoglobals // DDRAM address of the first column of each row.
var rowOffsets = [...]byte{0x00, 0x40, 0x14, 0x54}

// ErrLCDGeometry is returned for unsupported column or row counts.
var ErrLCDGeometry = errors.New("unsupported LCD geometry")

// LCD is an HD44780 character display behind a PCF8574 I2C expander.
type LCD struct {
	dev     *i2c.Dev
	columns int
	rows    int
	log     *zap.SugaredLogger

	// sleep waits for slow instructions; replaced in tests.
	sleep func(time.Duration)
}

// NewLCD initializes the display in 4-bit mode with the backlight on.
func NewLCD(bus i2c.Bus, addr uint16, columns, rows int, log *zap.SugaredLogger) (*LCD, error) {
	return newLCD(bus, addr, columns, rows, log, time.Sleep)
}

func newLCD(bus i2c.Bus, addr uint16, columns, rows int, log *zap.SugaredLogger, sleep func(time.Duration)) (*LCD, error) {
	if addr == 0 {
		addr = DefaultLCDAddress
	}

	if columns <= 0 {
		columns = DefaultLCDColumns
	}

	if rows <= 0 {
		rows = DefaultLCDRows
	}

	if rows > len(rowOffsets) || columns > 40 {
		return nil, fmt.Errorf("%w: %dx%d", ErrLCDGeometry, columns, rows)
	}

	l := &LCD{
		dev:     &i2c.Dev{Bus: bus, Addr: addr},
		columns: columns,
		rows:    rows,
		log:     log,
		sleep:   sleep,
	}

	if err := l.init(); err != nil {
		return nil, fmt.Errorf("init LCD at 0x%02X: %w", addr, err)
	}

	return l, nil
}

// init runs the HD44780 "initialization by instruction" sequence for 4-bit mode.
func (l *LCD) init() error {
	l.sleep(50 * time.Millisecond)

	for _, wait := range []time.Duration{4500 * time.Microsecond, 4500 * time.Microsecond, 150 * time.Microsecond} {
		if err := l.nibble(0x30, 0); err != nil {
			return err
		}

		l.sleep(wait)
	}

	if err := l.nibble(0x20, 0); err != nil {
		return err
	}

	for _, cmd := range []byte{cmdFunction4Bit2L, cmdDisplayOn, cmdClear, cmdEntryModeLeft} {
		if err := l.send(cmd, 0); err != nil {
			return err
		}
	}

	l.sleep(2 * time.Millisecond)

	return nil
}

// Clear blanks the display and homes the cursor.
func (l *LCD) Clear() {
	if err := l.send(cmdClear, 0); err != nil {
		l.log.Errorw("LCD clear failed", "error", err)

		return
	}

	l.sleep(2 * time.Millisecond)
}

// SetCursor moves the cursor; out-of-range positions are clamped.
func (l *LCD) SetCursor(col, row int) {
	col = max(0, min(col, l.columns-1))
	row = max(0, min(row, l.rows-1))

	//nolint:gosec // col and row are clamped to the display geometry.
	addr := rowOffsets[row] + byte(col)

	if err := l.send(cmdSetDDRAM|addr, 0); err != nil {
		l.log.Errorw("LCD cursor move failed", "col", col, "row", row, "error", err)
	}
}

// Print writes text at the cursor. Characters outside printable ASCII
// are shown as '?'.
func (l *LCD) Print(text string) {
	for _, r := range text {
		ch := byte('?')
		if r >= ' ' && r <= '~' {
			ch = byte(r)
		}

		if err := l.send(ch, bitRS); err != nil {
			l.log.Errorw("LCD write failed", "text", text, "error", err)

			return
		}
	}
}

// send writes one byte as two nibbles, high first.
func (l *LCD) send(value, mode byte) error {
	if err := l.nibble(value&0xF0, mode); err != nil {
		return err
	}

	return l.nibble(value<<4, mode)
}

// nibble latches the upper four bits of value with an enable pulse.
func (l *LCD) nibble(value, mode byte) error {
	data := value&0xF0 | mode | bitBacklight

	return l.dev.Tx([]byte{data | bitEnable, data}, nil)
}
