/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestFixedSequences(t *testing.T) {
	tests := map[string]struct {
		strategy Strategy
		expected string
	}{
		"xterm clear":  {XtermClear, "\u001b[H\u001b[2J\u001b[3J"},
		"xterm reset":  {XtermReset, "\u001bc\u001b[!p\u001b[?3;4l\u001b[4l\u001b>\u001b[?69l"},
		"vt ris":       {VtRis, "\u001bc"},
		"vt leave alt": {VtLeaveAlt, "\u001b[?1049l"},
	}
	for name, test := range tests {
		t.Run(name, func(tt *testing.T) {
			first := &bytes.Buffer{}
			second := &bytes.Buffer{}
			assert.NoError(tt, test.strategy.ClearTo(first))
			assert.NoError(tt, test.strategy.ClearTo(second))
			assert.Equal(tt, test.expected, first.String())
			// no hidden state between calls
			assert.Equal(tt, first.String(), second.String())
		})
	}
}

func TestFixedSequenceWriteFailure(t *testing.T) {
	err := XtermClear.ClearTo(failingWriter{})
	assert.EqualError(t, err, "sink closed")
}

func TestWindowsVtClearAlwaysWrites(t *testing.T) {
	original := consoleVt
	defer func() { consoleVt = original }()

	consoleVt = func() error { return fmt.Errorf("%w: simulated", ErrConsoleMode) }
	buffer := &bytes.Buffer{}
	err := WindowsVtClear.ClearTo(buffer)
	assert.ErrorIs(t, err, ErrConsoleMode)
	assert.Equal(t, "\u001b[H\u001b[2J\u001b[3J", buffer.String())
}

func TestWindowsVtClearWriteErrorWins(t *testing.T) {
	original := consoleVt
	defer func() { consoleVt = original }()

	consoleVt = func() error { return fmt.Errorf("%w: simulated", ErrConsoleMode) }
	err := WindowsVtClear.ClearTo(failingWriter{})
	assert.EqualError(t, err, "sink closed")
}

func TestStrategyNames(t *testing.T) {
	for strategy, name := range strategyNames {
		parsed, err := ParseStrategy(name)
		assert.NoError(t, err)
		assert.Equal(t, strategy, parsed)
		assert.Equal(t, name, strategy.String())
	}
	_, err := ParseStrategy("microwave")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Equal(t, "strategy(99)", Strategy(99).String())
}

func TestUnknownStrategy(t *testing.T) {
	err := Strategy(99).ClearTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestDefaultTable(t *testing.T) {
	clearConfiguredStrategy()
	if runtime.GOOS == "windows" {
		assert.Equal(t, WindowsVtClear, Default())
		return
	}

	original := loadDatabase
	defer func() { loadDatabase = original }()

	loadDatabase = func() (database, error) { return &fakeDatabase{}, nil }
	assert.Equal(t, Terminfo, Default())

	loadDatabase = func() (database, error) { return nil, fmt.Errorf("%w: TERM unset", ErrDatabaseLoad) }
	assert.Equal(t, XtermClear, Default())
}

func TestDefaultOverride(t *testing.T) {
	defer clearConfiguredStrategy()
	setConfiguredStrategy(VtRis)
	assert.Equal(t, VtRis, Default())
}
