package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another controller owns the hardware.
var ErrAlreadyRunning = errors.New("another motion-controller instance is running")

// processLister lists running processes.
type processLister func() ([]ps.Process, error)

// ensureSingleInstance fails when another process runs the same executable.
func ensureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	others, err := findOtherInstances(filepath.Base(executable), os.Getpid(), ps.Processes)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if len(others) > 0 {
		return fmt.Errorf("%w: pid %v", ErrAlreadyRunning, others)
	}

	return nil
}

// findOtherInstances returns the PIDs running name, ignoring self and its parent.
func findOtherInstances(name string, self int, list processLister) ([]int, error) {
	processes, err := list()
	if err != nil {
		return nil, err
	}

	var (
		parent int
		others []int
	)

	for _, p := range processes {
		if p.Pid() == self {
			parent = p.PPid()
		}
	}

	for _, p := range processes {
		if p.Pid() == self || p.Pid() == parent {
			continue
		}

		if !sameExecutable(p.Executable(), name) {
			continue
		}

		others = append(others, p.Pid())
	}

	return others, nil
}

// sameExecutable compares names the way ps reports them: Linux truncates
// the command name to 15 bytes.
func sameExecutable(reported, name string) bool {
	const commLen = 15

	reported = strings.TrimSuffix(reported, ".exe")
	name = strings.TrimSuffix(name, ".exe")

	if len(name) > commLen && len(reported) == commLen {
		return strings.HasPrefix(name, reported)
	}

	return reported == name
}
