/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package wipe

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ttyDevice is the controlling-terminal fallback used when stdin has been
// redirected away from the terminal. Tests point it elsewhere.
var ttyDevice = "/dev/tty"

func vtCooked() error {
	return writeTermios(cookedTermios)
}

func vtWellDone() error {
	return writeTermios(wellDoneTermios)
}

// cookedTermios sets the minimal POSIX cooked-mode bits. Every flag group
// has already been zeroed, so the result is exactly this set and no more.
func cookedTermios(t *unix.Termios) {
	t.Iflag |= unix.BRKINT | unix.ICRNL | unix.IGNPAR | unix.ISTRIP | unix.IXON
	t.Oflag |= unix.OPOST
	t.Lflag |= unix.ICANON | unix.ISIG
}

// wellDoneTermios is a strict superset of cookedTermios that approximates
// the initial terminal state a shell expects.
func wellDoneTermios(t *unix.Termios) {
	cookedTermios(t)
	t.Iflag |= inputUTF8 | unix.IMAXBEL
	t.Oflag |= unix.ONLCR
	t.Cflag |= unix.CREAD
}

// writeTermios reconfigures the controlling terminal. Stdin is preferred
// when it is an interactive terminal; otherwise the terminal device is
// opened directly, since stdin may be redirected while a real terminal is
// still attached.
func writeTermios(mutate func(*unix.Termios)) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return applyTermios(fd, mutate)
	}
	tty, err := os.OpenFile(ttyDevice, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	defer func() { _ = tty.Close() }()
	return applyTermios(int(tty.Fd()), mutate)
}

// applyTermios rewrites the whole configuration: read, clear every bit of
// every flag group, set the requested bits, write back immediately.
// Incremental patching would leave stale bits from whatever mode the
// terminal was in before. Per tcsetattr semantics the OS may apply the
// write partially and still report success.
func applyTermios(fd int, mutate func(*unix.Termios)) error {
	t, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTerminalMode, err)
	}
	resetTermios(t)
	mutate(t)
	if err = unix.IoctlSetTermios(fd, ioctlWriteTermios, t); err != nil {
		return fmt.Errorf("%w: %v", ErrTerminalMode, err)
	}
	return nil
}

func resetTermios(t *unix.Termios) {
	t.Iflag = 0
	t.Oflag = 0
	t.Cflag = 0
	t.Lflag = 0
}
