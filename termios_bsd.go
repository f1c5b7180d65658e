/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build dragonfly || freebsd || netbsd || openbsd

package wipe

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETA // TCSANOW
	inputUTF8         = 0             // IUTF8 is not defined on the BSDs
)
