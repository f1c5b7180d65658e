/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build windows

package wipe

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Console buffer primitives x/sys/windows does not export.
var (
	kernel32                       = windows.NewLazySystemDLL("kernel32.dll")
	procScrollConsoleScreenBuffer  = kernel32.NewProc("ScrollConsoleScreenBufferW")
	procFillConsoleOutputCharacter = kernel32.NewProc("FillConsoleOutputCharacterW")
	procFillConsoleOutputAttribute = kernel32.NewProc("FillConsoleOutputAttribute")
	procFlushConsoleInputBuffer    = kernel32.NewProc("FlushConsoleInputBuffer")
)

type charInfo struct {
	char       uint16
	attributes uint16
}

// consoleVt enables ENABLE_VIRTUAL_TERMINAL_PROCESSING so the escape-based
// strategies render instead of printing garbage. Supported since the
// Windows 10 Threshold 2 update.
var consoleVt = func() error {
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	var mode uint32
	if err = windows.GetConsoleMode(stdout, &mode); err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	if err = windows.SetConsoleMode(stdout, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	return nil
}

// consoleClear scrolls the whole buffer up one screenful, blank-filling the
// vacated cells with the current attributes, then homes the cursor and
// flushes pending input. This is the console equivalent of cmd.exe's cls.
var consoleClear = func() error {
	stdout, info, err := outputBuffer()
	if err != nil {
		return err
	}
	scrollRect := windows.SmallRect{Left: 0, Top: 0, Right: info.Size.X, Bottom: info.Size.Y}
	scrollTarget := windows.Coord{X: 0, Y: -info.Size.Y}
	fill := charInfo{char: ' ', attributes: info.Attributes}
	r1, _, e1 := procScrollConsoleScreenBuffer.Call(
		uintptr(stdout),
		uintptr(unsafe.Pointer(&scrollRect)),
		0,
		packCoord(scrollTarget),
		uintptr(unsafe.Pointer(&fill)))
	if r1 == 0 {
		return fmt.Errorf("%w: %v", ErrConsoleMode, e1)
	}
	return homeAndFlush(stdout)
}

// consoleBlank space-fills the entire buffer and resets every cell's
// attributes in place, then homes the cursor and flushes pending input.
var consoleBlank = func() error {
	stdout, info, err := outputBuffer()
	if err != nil {
		return err
	}
	length := uint32(info.Size.X) * uint32(info.Size.Y)
	var written uint32
	r1, _, e1 := procFillConsoleOutputCharacter.Call(
		uintptr(stdout),
		uintptr(uint16(' ')),
		uintptr(length),
		packCoord(windows.Coord{}),
		uintptr(unsafe.Pointer(&written)))
	if r1 == 0 {
		return fmt.Errorf("%w: %v", ErrConsoleMode, e1)
	}
	r1, _, e1 = procFillConsoleOutputAttribute.Call(
		uintptr(stdout),
		uintptr(info.Attributes),
		uintptr(length),
		packCoord(windows.Coord{}),
		uintptr(unsafe.Pointer(&written)))
	if r1 == 0 {
		return fmt.Errorf("%w: %v", ErrConsoleMode, e1)
	}
	return homeAndFlush(stdout)
}

// consoleCooked restores the line-input console modes a shell expects,
// undoing raw mode.
var consoleCooked = func() error {
	stdin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	err = windows.SetConsoleMode(stdin,
		windows.ENABLE_PROCESSED_INPUT|windows.ENABLE_LINE_INPUT|windows.ENABLE_ECHO_INPUT)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	err = windows.SetConsoleMode(stdout,
		windows.ENABLE_PROCESSED_OUTPUT|windows.ENABLE_WRAP_AT_EOL_OUTPUT|
			windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	return nil
}

func outputBuffer() (windows.Handle, *windows.ConsoleScreenBufferInfo, error) {
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	var info windows.ConsoleScreenBufferInfo
	if err = windows.GetConsoleScreenBufferInfo(stdout, &info); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	return stdout, &info, nil
}

func homeAndFlush(stdout windows.Handle) error {
	if err := windows.SetConsoleCursorPosition(stdout, windows.Coord{}); err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	stdin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleMode, err)
	}
	if r1, _, e1 := procFlushConsoleInputBuffer.Call(uintptr(stdin)); r1 == 0 {
		return fmt.Errorf("%w: %v", ErrConsoleMode, e1)
	}
	return nil
}

// packCoord packs a COORD into the single dword the console APIs take it
// as when passed by value.
func packCoord(c windows.Coord) uintptr {
	return uintptr(uint32(uint16(c.X)) | uint32(uint16(c.Y))<<16)
}
