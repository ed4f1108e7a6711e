package remote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/oshokin/motion-controller/internal/logger"
)

// DefaultLIRCSocket is where lircd publishes decoded keys.
const DefaultLIRCSocket = "/var/run/lirc/lircd"

var (
	// ErrLIRCClosed is returned when lircd closes the connection.
	ErrLIRCClosed = errors.New("lircd connection closed")
	// errMalformedLine is returned for lines that are not key events.
	errMalformedLine = errors.New("malformed lircd line")
)

// lircFields is the number of fields of a key event:
// "<code> <repeat> <key> <remote>".
const lircFields = 4

// Event is one key event read from lircd.
type Event struct {
	// Code is the low 32 bits of the scan code.
	Code uint32
	// Repeat counts auto-repeats of a held button; 0 for the first press.
	Repeat uint64
	// Key is the key name from the lircd remote definition.
	Key string
	// Remote is the remote name from the lircd configuration.
	Remote string
}

// ParseLIRCLine parses a lircd broadcast line.
func ParseLIRCLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != lircFields {
		return Event{}, fmt.Errorf("%w: %q", errMalformedLine, line)
	}

	code, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: code %q: %w", errMalformedLine, fields[0], err)
	}

	repeat, err := strconv.ParseUint(fields[1], 16, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: repeat %q: %w", errMalformedLine, fields[1], err)
	}

	return Event{
		//nolint:gosec // NEC codes live in the low 32 bits.
		Code:   uint32(code),
		Repeat: repeat,
		Key:    fields[2],
		Remote: fields[3],
	}, nil
}

// LIRC forwards lircd key presses into a Queue.
type LIRC struct {
	conn  io.ReadCloser
	queue *Queue
}

// DialLIRC connects to the lircd socket at path.
func DialLIRC(ctx context.Context, path string, queue *Queue) (*LIRC, error) {
	if path == "" {
		path = DefaultLIRCSocket
	}

	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial lircd %s: %w", path, err)
	}

	return NewLIRC(conn, queue), nil
}

// NewLIRC wraps an established lircd stream.
func NewLIRC(conn io.ReadCloser, queue *Queue) *LIRC {
	return &LIRC{
		conn:  conn,
		queue: queue,
	}
}

// Run reads key events until ctx is canceled or the stream ends.
// Auto-repeat events are skipped; the controller's debounce handles the rest.
func (l *LIRC) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "lirc")

	stop := context.AfterFunc(ctx, func() {
		_ = l.conn.Close()
	})
	defer stop()

	scanner := bufio.NewScanner(l.conn)
	for scanner.Scan() {
		event, err := ParseLIRCLine(scanner.Text())
		if err != nil {
			logger.DebugKV(ctx, "Skipping lircd line", "error", err)

			continue
		}

		if event.Repeat > 0 {
			continue
		}

		if !l.queue.Push(event.Code) {
			logger.WarnKV(ctx, "Remote queue full, key dropped", "key", event.Key, "code", fmt.Sprintf("0x%06X", event.Code))

			continue
		}

		logger.DebugKV(ctx, "Key received", "key", event.Key, "remote", event.Remote,
			"code", fmt.Sprintf("0x%06X", event.Code))
	}

	if ctx.Err() != nil {
		return nil
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lircd: %w", err)
	}

	return ErrLIRCClosed
}

// Close closes the lircd stream.
func (l *LIRC) Close() error {
	return l.conn.Close()
}
