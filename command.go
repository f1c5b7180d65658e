/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandError reports an external clearing command that ran but exited
// unsuccessfully. Spawn failures are not wrapped; they propagate as-is.
type CommandError struct {
	Command string
	Status  int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command error - %s: exit status %d", e.Command, e.Status)
}

// spawn runs an external clearing utility with the caller's terminal
// attached, blocking until it exits. No timeout is applied; a hung command
// blocks indefinitely. Tests substitute their own runner here.
var spawn = func(name string, args ...string) error {
	command := strings.Join(append([]string{name}, args...), " ")
	defaultLogger.Tracef("running %s", command)
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Command: command, Status: exitErr.ExitCode()}
	}
	return err
}
