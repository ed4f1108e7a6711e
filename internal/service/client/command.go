package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/oshokin/motion-controller/internal/config"
	"github.com/oshokin/motion-controller/internal/domain/mechanism"
	"github.com/oshokin/motion-controller/internal/logger"
)

// Options configures the press and status commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// BridgeAddress overrides the bridge address from config when specified.
	BridgeAddress string
}

// ErrUnknownButton is returned for button names that map to no code.
var ErrUnknownButton = errors.New("unknown button")

// Button names accepted by ParseButton.
const (
	ButtonPause = "pause"
	ButtonStart = "start"
	ButtonStop  = "stop"
)

// ParseButton resolves a button name or a hex code to a remote code.
func ParseButton(name string, codes mechanism.CodeTable) (uint32, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ButtonPause:
		return codes.Pause, nil
	case ButtonStart:
		return codes.StartContinuous, nil
	case ButtonStop:
		return codes.StopContinuous, nil
	}

	code, err := strconv.ParseUint(strings.TrimSpace(name), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q: use pause, start, stop or a code such as 0xFFC23D", ErrUnknownButton, name)
	}

	//nolint:gosec // ParseUint bounded the value to 32 bits.
	return uint32(code), nil
}

// Press sends the named button to the controller.
func Press(ctx context.Context, opts *Options, button string) error {
	ctx = logger.WithName(ctx, "press")

	cfg, client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	code, err := ParseButton(button, cfg.Remote.Codes)
	if err != nil {
		return err
	}

	if err = client.PressButton(ctx, code); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Button sent",
		"button", button,
		"code", fmt.Sprintf("0x%06X", code),
		"command", cfg.Remote.Codes.Lookup(code).String())

	return nil
}

// Status writes the controller snapshot to out as indented JSON.
func Status(ctx context.Context, opts *Options, out io.Writer) error {
	ctx = logger.WithName(ctx, "status")

	_, client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	status, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	if _, err = fmt.Fprintln(out, string(data)); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	return nil
}

// connect loads settings and dials the configured bridge.
func connect(ctx context.Context, opts *Options) (*config.Config, *Client, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	address := cfg.Bridge.Address
	if opts.BridgeAddress != "" {
		address = opts.BridgeAddress
	}

	options := []Option{WithCallTimeout(cfg.Bridge.Timeout)}

	if actor, err := DetectActor(); err == nil {
		options = append(options, WithActor(actor))
	} else {
		logger.DebugKV(ctx, "Unable to identify caller", "error", err)
	}

	client, err := Dial(ctx, address, options...)
	if err != nil {
		return nil, nil, err
	}

	logger.DebugKV(ctx, "Connecting to motion controller", "bridge_address", address)

	return cfg, client, nil
}
