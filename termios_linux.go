/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build linux

package wipe

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS // TCSANOW
	inputUTF8         = unix.IUTF8
)
