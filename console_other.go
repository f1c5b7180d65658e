/*
 * Copyright (C) 2024 by Jason Figge
 */

//go:build !windows

package wipe

// The console strategies delegate to the Windows console subsystem; on
// every other platform they trivially succeed. Package variables so tests
// can simulate console failures.
var (
	consoleVt     = func() error { return nil }
	consoleClear  = func() error { return nil }
	consoleBlank  = func() error { return nil }
	consoleCooked = func() error { return nil }
)
