/*
 * Copyright (C) 2024 by Jason Figge
 */

package vt

const (
	ESC = "\u001b"
	CSI = "\u001b["
	RIS = "\u001bc" // reset to initial state

	CursorHome      = "\u001b[H"  // moves cursor to row 1 column 1
	EraseScreen     = "\u001b[2J" // erases entire screen
	EraseScrollback = "\u001b[3J" // erases scrollback (xterm extension)

	SoftReset        = "\u001b[!p"    // soft terminal reset (DECSTR)
	ResetWidthScroll = "\u001b[?3;4l" // 80 columns, jump scrolling
	ResetReplaceMode = "\u001b[4l"    // replace mode, not insert
	ResetKeypad      = "\u001b>"      // numeric keypad sends digits
	ResetMargins     = "\u001b[?69l"  // left/right margins to page

	LeaveAltScreen = "\u001b[?1049l" // back to the normal screen buffer
)
