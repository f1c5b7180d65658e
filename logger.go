/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"fmt"
	"io"
	"sync"
)

type LoggerOption func(l *Logger)

type Logger struct {
	sync    sync.Mutex
	history *History
	out     io.Writer
	debug   bool
}

var defaultLogger = NewLogger()

// ****** Construction ********************************************************

func NewLogger(options ...LoggerOption) *Logger {
	logger := &Logger{
		history: &History{},
		out:     io.Discard,
	}
	for _, option := range options {
		option(logger)
	}
	return logger
}

// SetLogger replaces the package logger that traces strategy execution.
func SetLogger(logger *Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// ****** Log functions *******************************************************

func (l *Logger) Notify(level string, text string) {
	l.sync.Lock()
	defer l.sync.Unlock()

	line := fmt.Sprintf("%-5s %s", level, text)
	l.history.add(line)
	_, _ = fmt.Fprintln(l.out, line)
}
func (l *Logger) Tracef(text string, a ...interface{}) {
	l.Trace(fmt.Sprintf(text, a...))
}
func (l *Logger) Trace(text string) {
	if l.debug {
		l.Notify("trace", text)
	}
}
func (l *Logger) Debugf(text string, a ...interface{}) {
	l.Debug(fmt.Sprintf(text, a...))
}
func (l *Logger) Debug(text string) {
	if l.debug {
		l.Notify("debug", text)
	}
}
func (l *Logger) Infof(text string, a ...interface{}) {
	l.Info(fmt.Sprintf(text, a...))
}
func (l *Logger) Info(text string) {
	l.Notify("info", text)
}
func (l *Logger) Warnf(text string, a ...interface{}) {
	l.Warn(fmt.Sprintf(text, a...))
}
func (l *Logger) Warn(text string) {
	l.Notify("warn", text)
}
func (l *Logger) Errorf(text string, a ...interface{}) {
	l.Error(fmt.Sprintf(text, a...))
}
func (l *Logger) Error(text string) {
	l.Notify("error", text)
}
func (l *Logger) SetDebug(debug bool) {
	l.sync.Lock()
	defer l.sync.Unlock()
	l.debug = debug
}

// ****** Options *************************************************************

func LoggerOptionOutput(out io.Writer) LoggerOption {
	return func(l *Logger) {
		l.out = out
	}
}
func LoggerOptionDebug() LoggerOption {
	return func(l *Logger) {
		l.debug = true
	}
}

// ****** History *************************************************************

type History struct {
	sync     sync.Mutex
	messages []string
}

func (h *History) add(message string) {
	h.sync.Lock()
	defer h.sync.Unlock()

	h.messages = append(h.messages, message)
	if len(h.messages) > 1000 {
		h.messages = h.messages[1:]
	}
}

func (l *Logger) History() []string {
	l.history.sync.Lock()
	defer l.history.sync.Unlock()

	messages := make([]string, len(l.history.messages))
	copy(messages, l.history.messages)
	return messages
}
