/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build darwin

package wipe

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETA // TCSANOW
	inputUTF8         = unix.IUTF8
)
