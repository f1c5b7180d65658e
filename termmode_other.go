/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package wipe

// The termios strategies trivially succeed on platforms without a POSIX
// terminal line discipline.

func vtCooked() error {
	return nil
}

func vtWellDone() error {
	return nil
}
