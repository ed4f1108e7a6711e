package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
)

// Hardware backends.
const (
	HardwareGPIO      = "gpio"
	HardwareSimulator = "simulator"
)

// Remote sources.
const (
	RemoteSourceLIRC   = "lirc"
	RemoteSourceBridge = "bridge"
)

// Config holds the settings of the motion-controller binary.
type Config struct {
	// Hardware selects the device backend: "gpio" or "simulator".
	Hardware string `yaml:"hardware"`
	// LogLevel is the minimum level of the diagnostic log.
	LogLevel string `yaml:"log_level"`
	// PollInterval is the pause between loop iterations.
	PollInterval time.Duration `yaml:"poll_interval"`
	// MaxDistanceCM is the distance from which the motor does not run.
	MaxDistanceCM int64 `yaml:"max_distance_cm"`
	// Pins names the GPIO lines.
	Pins Pins `yaml:"pins"`
	// Display describes the I2C character display.
	Display Display `yaml:"display"`
	// Remote configures the remote control.
	Remote Remote `yaml:"remote"`
	// Timings holds state dwell durations.
	Timings Timings `yaml:"timings"`
	// Bridge configures the gRPC remote bridge.
	Bridge Bridge `yaml:"bridge"`
	// Simulator configures the simulated devices.
	Simulator Simulator `yaml:"simulator"`
}

// Pins holds periph gpioreg pin names.
type Pins struct {
	PIR       string `yaml:"pir"`
	Trigger   string `yaml:"trigger"`
	Echo      string `yaml:"echo"`
	Motor     string `yaml:"motor"`
	Indicator string `yaml:"indicator"`
}

// Display describes an HD44780 display behind a PCF8574 backpack.
type Display struct {
	// Bus is the periph i2creg bus name; empty picks the first bus.
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	Columns int    `yaml:"columns"`
	Rows    int    `yaml:"rows"`
}

// Remote configures where remote codes come from and what they mean.
type Remote struct {
	// Source is "lirc" or "bridge".
	Source string `yaml:"source"`
	// LIRCSocket is the lircd socket path.
	LIRCSocket string `yaml:"lirc_socket"`
	// Debounce is the minimum spacing of accepted commands.
	Debounce time.Duration `yaml:"debounce"`
	// Codes maps raw codes to commands.
	Codes mechanism.CodeTable `yaml:"codes"`
}

// Timings holds dwell durations of the time-gated states.
type Timings struct {
	Calibration   time.Duration `yaml:"calibration"`
	Ready         time.Duration `yaml:"ready"`
	TooFar        time.Duration `yaml:"too_far"`
	Resuming      time.Duration `yaml:"resuming"`
	MotionMessage time.Duration `yaml:"motion_message"`
	Buzzer        time.Duration `yaml:"buzzer"`
	MotorRun      time.Duration `yaml:"motor_run"`
	// EchoTimeout bounds each edge wait of an ultrasonic measurement.
	EchoTimeout time.Duration `yaml:"echo_timeout"`
}

// Bridge configures the gRPC bridge.
type Bridge struct {
	// Address is where the controller listens and where clients dial.
	// Empty disables the bridge.
	Address string `yaml:"address"`
	// Timeout is the per-call timeout used by clients.
	Timeout time.Duration `yaml:"timeout"`
}

// Simulator configures the simulated devices.
type Simulator struct {
	// MotionInterval is how often the simulated PIR fires.
	MotionInterval time.Duration `yaml:"motion_interval"`
	// EchoMicros are the echo durations returned in turn; non-positive means timeout.
	EchoMicros []int64 `yaml:"echo_us"`
}

const (
	// DefaultConfigFilename is the default settings filename.
	DefaultConfigFilename = "motion-controller-settings.yaml"

	// DefaultBridgeAddress is the default bridge address.
	DefaultBridgeAddress = "127.0.0.1:50061"

	// DefaultTimeout is the default per-call timeout of bridge clients.
	DefaultTimeout = 5 * time.Second

	// DefaultPollInterval is the default pause between loop iterations.
	DefaultPollInterval = time.Millisecond

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Default returns the settings of the stock mechanism on the simulator.
func Default() *Config {
	cfg := new(Config)

	//nolint:errcheck // The zero config always validates.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	switch cfg.Hardware {
	case HardwareGPIO, HardwareSimulator:
	default:
		return fmt.Errorf("%w: unknown hardware %q", ErrInvalidConfig, cfg.Hardware)
	}

	switch cfg.Remote.Source {
	case RemoteSourceLIRC, RemoteSourceBridge:
	default:
		return fmt.Errorf("%w: unknown remote source %q", ErrInvalidConfig, cfg.Remote.Source)
	}

	if cfg.Remote.Source == RemoteSourceBridge && cfg.Bridge.Address == "" {
		return fmt.Errorf("%w: remote source %q needs a bridge address", ErrInvalidConfig, RemoteSourceBridge)
	}

	if cfg.Bridge.Address != "" {
		if _, _, err := net.SplitHostPort(cfg.Bridge.Address); err != nil {
			return fmt.Errorf("%w: bridge address: %w", ErrInvalidConfig, err)
		}
	}

	if cfg.PollInterval < 0 {
		return fmt.Errorf("%w: negative poll interval", ErrInvalidConfig)
	}

	codes := cfg.Remote.Codes
	if codes.Pause == codes.StartContinuous || codes.Pause == codes.StopContinuous ||
		codes.StartContinuous == codes.StopContinuous {
		return fmt.Errorf("%w: remote codes must be distinct", ErrInvalidConfig)
	}

	return nil
}

// applyDefaults fills every unset field.
//
//nolint:cyclop // A flat list of defaults reads best as is.
func applyDefaults(cfg *Config) {
	setString(&cfg.Hardware, HardwareSimulator)
	setString(&cfg.LogLevel, "info")

	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.MaxDistanceCM <= 0 {
		cfg.MaxDistanceCM = 10
	}

	setString(&cfg.Pins.PIR, "GPIO17")
	setString(&cfg.Pins.Trigger, "GPIO23")
	setString(&cfg.Pins.Echo, "GPIO24")
	setString(&cfg.Pins.Motor, "GPIO12")
	setString(&cfg.Pins.Indicator, "GPIO13")

	if cfg.Display.Address == 0 {
		cfg.Display.Address = 0x27
	}

	if cfg.Display.Columns <= 0 {
		cfg.Display.Columns = 16
	}

	if cfg.Display.Rows <= 0 {
		cfg.Display.Rows = mechanism.DisplayRows
	}

	setString(&cfg.Remote.Source, RemoteSourceBridge)
	setString(&cfg.Remote.LIRCSocket, "/var/run/lirc/lircd")
	setDuration(&cfg.Remote.Debounce, time.Second)

	if cfg.Remote.Codes == (mechanism.CodeTable{}) {
		cfg.Remote.Codes = mechanism.DefaultCodeTable()
	}

	setDuration(&cfg.Timings.Calibration, 2*time.Second)
	setDuration(&cfg.Timings.Ready, 2*time.Second)
	setDuration(&cfg.Timings.TooFar, 2*time.Second)
	setDuration(&cfg.Timings.Resuming, time.Second)
	setDuration(&cfg.Timings.MotionMessage, time.Second)
	setDuration(&cfg.Timings.Buzzer, 100*time.Millisecond)
	setDuration(&cfg.Timings.MotorRun, 5*time.Second)
	setDuration(&cfg.Timings.EchoTimeout, time.Second)

	if cfg.Remote.Source == RemoteSourceBridge {
		setString(&cfg.Bridge.Address, DefaultBridgeAddress)
	}

	setDuration(&cfg.Bridge.Timeout, DefaultTimeout)

	setDuration(&cfg.Simulator.MotionInterval, 15*time.Second)

	if len(cfg.Simulator.EchoMicros) == 0 {
		cfg.Simulator.EchoMicros = []int64{500, 1740}
	}
}

func setString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setDuration(field *time.Duration, value time.Duration) {
	if *field <= 0 {
		*field = value
	}
}
