package mechanism

import "fmt"

// Command is a decoded remote-control action.
type Command uint8

const (
	// CommandUnknown is any code that is not in the code table.
	CommandUnknown Command = iota
	// CommandTogglePause pauses the mechanism or resumes it when already paused.
	CommandTogglePause
	// CommandStartContinuous runs the motor until stopped.
	CommandStartContinuous
	// CommandStopContinuous stops the motor and returns to listening.
	CommandStopContinuous
)

// Default NEC codes of the stock remote.
const (
	DefaultPauseCode           uint32 = 0xFFC23D
	DefaultStartContinuousCode uint32 = 0xFFA857
	DefaultStopContinuousCode  uint32 = 0xFFE01F
)

// String returns a short human-readable name.
func (c Command) String() string {
	switch c {
	case CommandTogglePause:
		return "toggle-pause"
	case CommandStartContinuous:
		return "start-continuous"
	case CommandStopContinuous:
		return "stop-continuous"
	case CommandUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}

// CodeTable maps raw remote codes to commands.
type CodeTable struct {
	// Pause is the toggle-pause code.
	Pause uint32 `yaml:"pause"`
	// StartContinuous is the code that forces continuous running.
	StartContinuous uint32 `yaml:"start_continuous"`
	// StopContinuous is the code that stops the motor and returns to listening.
	StopContinuous uint32 `yaml:"stop_continuous"`
}

// DefaultCodeTable returns the codes of the stock remote.
func DefaultCodeTable() CodeTable {
	return CodeTable{
		Pause:           DefaultPauseCode,
		StartContinuous: DefaultStartContinuousCode,
		StopContinuous:  DefaultStopContinuousCode,
	}
}

// Lookup returns the command bound to code.
func (t CodeTable) Lookup(code uint32) Command {
	switch code {
	case t.Pause:
		return CommandTogglePause
	case t.StartContinuous:
		return CommandStartContinuous
	case t.StopContinuous:
		return CommandStopContinuous
	default:
		return CommandUnknown
	}
}

// Code returns the raw code bound to cmd.
func (t CodeTable) Code(cmd Command) (uint32, bool) {
	switch cmd {
	case CommandTogglePause:
		return t.Pause, true
	case CommandStartContinuous:
		return t.StartContinuous, true
	case CommandStopContinuous:
		return t.StopContinuous, true
	case CommandUnknown:
		return 0, false
	default:
		return 0, false
	}
}
