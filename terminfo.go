/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"fmt"
	"io"

	"github.com/xo/terminfo"
)

var (
	ErrDatabaseLoad      = fmt.Errorf("terminfo error - unable to load capability database")
	ErrMissingCapability = fmt.Errorf("terminfo error - required capability not available")
)

// Capability names consulted by the terminfo strategies. E3 is an xterm
// extension and lives in the user-defined capability table rather than the
// standard one.
const (
	capClear           = "clear"
	capEraseScrollback = "E3"
)

var (
	resetCapabilities = []string{"rs1", "rs2", "rs3", "rf"}
	initCapabilities  = []string{"is1", "is2", "is3", "if"}
)

// database is one loaded terminal description. A lookup that misses is a
// normal outcome, not an error.
type database interface {
	lookup(name string) ([]byte, bool)
}

type terminfoDatabase struct {
	strings    map[string][]byte
	extStrings map[string][]byte
}

func (d *terminfoDatabase) lookup(name string) ([]byte, bool) {
	if sequence, ok := d.strings[name]; ok && len(sequence) > 0 {
		return sequence, true
	}
	if sequence, ok := d.extStrings[name]; ok && len(sequence) > 0 {
		return sequence, true
	}
	return nil, false
}

// loadDatabase reads the TERM description afresh on every strategy
// execution so environment changes take effect immediately. Tests
// substitute their own capability sources here.
var loadDatabase = func() (database, error) {
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		defaultLogger.Debugf("terminfo load failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabaseLoad, err)
	}
	return &terminfoDatabase{
		strings:    ti.StringCapsShort(),
		extStrings: ti.ExtStringCapsShort(),
	}, nil
}

// ****** Terminfo strategies *************************************************

// terminfoClear requires the clear capability and emits it; the scrollback
// erasure that follows is best effort since many terminals never define E3.
// Both expansions share one context.
func terminfoClear(w io.Writer) error {
	db, err := loadDatabase()
	if err != nil {
		return err
	}
	ctx := newExpandContext()
	sequence, ok := db.lookup(capClear)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingCapability, capClear)
	}
	if err = expandTo(w, ctx, sequence); err != nil {
		return err
	}
	if sequence, ok = db.lookup(capEraseScrollback); ok {
		return expandTo(w, ctx, sequence)
	}
	return nil
}

func terminfoScreen(w io.Writer) error {
	return terminfoSingle(w, capClear)
}

func terminfoScrollback(w io.Writer) error {
	return terminfoSingle(w, capEraseScrollback)
}

func terminfoSingle(w io.Writer, name string) error {
	db, err := loadDatabase()
	if err != nil {
		return err
	}
	sequence, ok := db.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingCapability, name)
	}
	return expandTo(w, newExpandContext(), sequence)
}

// terminfoReset emits every available capability from the reset group. Only
// when that group yields nothing at all is the init group consulted; a
// single reset capability is enough to short-circuit the fallback entirely.
func terminfoReset(w io.Writer) error {
	db, err := loadDatabase()
	if err != nil {
		return err
	}
	ctx := newExpandContext()
	emitted, err := emitGroup(w, ctx, db, resetCapabilities)
	if err != nil {
		return err
	}
	if emitted {
		return nil
	}
	emitted, err = emitGroup(w, ctx, db, initCapabilities)
	if err != nil {
		return err
	}
	if !emitted {
		return fmt.Errorf("%w: %s", ErrMissingCapability, "reset")
	}
	return nil
}

func emitGroup(w io.Writer, ctx *expandContext, db database, names []string) (bool, error) {
	var emitted bool
	for _, name := range names {
		sequence, ok := db.lookup(name)
		if !ok {
			continue
		}
		if err := expandTo(w, ctx, sequence); err != nil {
			return emitted, err
		}
		emitted = true
	}
	return emitted, nil
}

func expandTo(w io.Writer, ctx *expandContext, sequence []byte) error {
	expanded, err := ctx.expand(sequence)
	if err != nil {
		return err
	}
	_, err = w.Write(expanded)
	return err
}
