/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/jfigge/wipe/constants/vt"
)

var (
	ErrUnknownStrategy = fmt.Errorf("strategy error - unknown strategy")
	ErrNoTerminal      = fmt.Errorf("terminal error - no controlling terminal available")
	ErrTerminalMode    = fmt.Errorf("terminal error - unable to reconfigure terminal")
	ErrConsoleMode     = fmt.Errorf("console error - unable to reconfigure console")
)

// Strategy identifies one concrete procedure for clearing the terminal
// screen. There is no single way to clear a screen: terminals disagree on
// escape sequences, platforms disagree on APIs, and scrollback may or may
// not be part of the outcome. Every strategy is always available; only
// Default varies by platform and environment.
//
// A Strategy is a plain tag. Construct one, then call Clear or ClearTo.
type Strategy int

const (
	// Terminfo emits the terminfo clear capability followed by the E3
	// (erase scrollback) capability when the terminal defines one. This is
	// essentially what the unix clear command does.
	Terminfo Strategy = iota

	// TerminfoScreen emits only the terminfo clear capability.
	TerminfoScreen

	// TerminfoScrollback emits only the terminfo E3 capability.
	TerminfoScrollback

	// TerminfoReset emits whichever of the rs1, rs2, rs3 and rf reset
	// capabilities the terminal defines. If none are defined it falls back
	// to the is1, is2, is3 and if init capabilities instead.
	TerminfoReset

	// XtermClear emits the fixed xterm clear sequence without consulting
	// the capability database: cursor home, erase screen, erase scrollback.
	XtermClear

	// XtermReset emits the fixed xterm reset sequence: RIS, soft reset,
	// width/scroll reset, replace mode, keypad reset, margin reset.
	XtermReset

	// TputClear runs the external command `tput clear`.
	TputClear

	// TputReset runs the external command `tput reset`.
	TputReset

	// Cls runs the external command `cls`. The command is attempted on
	// every platform; prefer WindowsConsoleClear on windows.
	Cls

	// WindowsVt enables ENABLE_VIRTUAL_TERMINAL_PROCESSING on the console.
	// Does nothing off windows.
	WindowsVt

	// WindowsVtClear runs WindowsVt and then always emits the XtermClear
	// sequence, even when enabling VT processing failed. A write failure
	// wins; otherwise the WindowsVt error, if any, is reported after the
	// sequence was written.
	WindowsVtClear

	// WindowsConsoleClear scrolls the console buffer up one screenful,
	// blank-fills it, flushes the input buffer and homes the cursor.
	// Does nothing off windows.
	WindowsConsoleClear

	// WindowsConsoleBlank space-fills the console buffer, resets the cell
	// attributes, flushes the input buffer and homes the cursor. Does
	// nothing off windows.
	WindowsConsoleBlank

	// WindowsCooked restores line-input console modes. Does nothing off
	// windows.
	WindowsCooked

	// VtRis emits the raw RIS (reset to initial state) escape.
	VtRis

	// VtLeaveAlt emits the sequence that leaves the alternate screen,
	// recovering from TUI applications that crashed without resetting it.
	VtLeaveAlt

	// VtCooked rewrites the termios configuration to a minimal cooked
	// (canonical) mode. Does nothing on platforms without termios.
	VtCooked

	// VtWellDone rewrites the termios configuration to a strict superset
	// of VtCooked that approximates the initial state a shell expects.
	// Does nothing on platforms without termios.
	VtWellDone
)

var strategyNames = map[Strategy]string{
	Terminfo:            "terminfo",
	TerminfoScreen:      "terminfo-screen",
	TerminfoScrollback:  "terminfo-scrollback",
	TerminfoReset:       "terminfo-reset",
	XtermClear:          "xterm-clear",
	XtermReset:          "xterm-reset",
	TputClear:           "tput-clear",
	TputReset:           "tput-reset",
	Cls:                 "cls",
	WindowsVt:           "windows-vt",
	WindowsVtClear:      "windows-vt-clear",
	WindowsConsoleClear: "windows-console-clear",
	WindowsConsoleBlank: "windows-console-blank",
	WindowsCooked:       "windows-cooked",
	VtRis:               "vt-ris",
	VtLeaveAlt:          "vt-leave-alt",
	VtCooked:            "vt-cooked",
	VtWellDone:          "vt-well-done",
}

// ****** Construction ********************************************************

// Default resolves the strategy to use when the caller expresses no
// preference:
//
//	windows                      -> WindowsVtClear
//	loadable capability database -> Terminfo
//	anything else                -> XtermClear
//
// A strategy loaded through InitConfig overrides the table.
func Default() Strategy {
	if s, ok := configuredStrategy(); ok {
		return s
	}
	if runtime.GOOS == "windows" {
		return WindowsVtClear
	}
	if _, err := loadDatabase(); err == nil {
		return Terminfo
	}
	return XtermClear
}

func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ****** Clear functions *****************************************************

// Clear applies the default strategy to stdout.
func Clear() error {
	return Default().Clear()
}

// Clear applies the strategy, printing to stdout.
func (s Strategy) Clear() error {
	return s.ClearTo(os.Stdout)
}

// ClearTo applies the strategy, printing to the given writer. Strategies
// that act through system APIs (the Windows* and Vt{Cooked,WellDone}
// variants) still affect the real console or terminal regardless of the
// writer. Every strategy runs to completion or failure within this call;
// nothing is retried and nothing is cached between calls.
func (s Strategy) ClearTo(w io.Writer) error {
	defaultLogger.Tracef("clearing with strategy %s", s)
	switch s {
	case Terminfo:
		return terminfoClear(w)
	case TerminfoScreen:
		return terminfoScreen(w)
	case TerminfoScrollback:
		return terminfoScrollback(w)
	case TerminfoReset:
		return terminfoReset(w)
	case XtermClear:
		return writeSequences(w, vt.CursorHome, vt.EraseScreen, vt.EraseScrollback)
	case XtermReset:
		return writeSequences(w,
			vt.RIS, vt.SoftReset, vt.ResetWidthScroll,
			vt.ResetReplaceMode, vt.ResetKeypad, vt.ResetMargins)
	case TputClear:
		return spawn("tput", "clear")
	case TputReset:
		return spawn("tput", "reset")
	case Cls:
		return spawn("cls")
	case WindowsVt:
		return consoleVt()
	case WindowsVtClear:
		// The clear sequence is always written, even when enabling VT
		// processing failed.
		vtErr := consoleVt()
		if err := writeSequences(w, vt.CursorHome, vt.EraseScreen, vt.EraseScrollback); err != nil {
			return err
		}
		return vtErr
	case WindowsConsoleClear:
		return consoleClear()
	case WindowsConsoleBlank:
		return consoleBlank()
	case WindowsCooked:
		return consoleCooked()
	case VtRis:
		return writeSequences(w, vt.RIS)
	case VtLeaveAlt:
		return writeSequences(w, vt.LeaveAltScreen)
	case VtCooked:
		return vtCooked()
	case VtWellDone:
		return vtWellDone()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
}

func writeSequences(w io.Writer, sequences ...string) error {
	for _, sequence := range sequences {
		if _, err := io.WriteString(w, sequence); err != nil {
			return err
		}
	}
	return nil
}
