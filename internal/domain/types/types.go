// Package types contains common types used across the application
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode name is not one of the five scorers.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects the row shape and the kernel for a scorer run.
type Mode uint8

// Modes, in the order they are documented.
const (
	ModeUnknown Mode = iota
	ModePingsink
	ModeHome
	ModeWork
	ModeLeisure
	ModeSpatial
)

var modeNames = [...]string{
	ModeUnknown:  "unknown",
	ModePingsink: "pingsink",
	ModeHome:     "home",
	ModeWork:     "work",
	ModeLeisure:  "leisure",
	ModeSpatial:  "spatial",
}

// String returns the invocation name of the mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid reports whether m is one of the five scorer modes.
func (m Mode) Valid() bool {
	return m >= ModePingsink && m <= ModeSpatial
}

// OutputWidth is the number of f64 values written per row.
func (m Mode) OutputWidth() int {
	switch m {
	case ModeSpatial:
		return 3
	case ModePingsink, ModeHome, ModeWork, ModeLeisure:
		return 1
	default:
		return 0
	}
}

// ParseMode maps an invocation name to its Mode. Matching is exact and
// case-sensitive, as the host passes the name verbatim.
func ParseMode(name string) (Mode, error) {
	for m := ModePingsink; m <= ModeSpatial; m++ {
		if modeNames[m] == name {
			return m, nil
		}
	}
	return ModeUnknown, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownMode, name, strings.Join(Names(), ", "))
}

// Modes returns every valid mode.
func Modes() []Mode {
	return []Mode{ModePingsink, ModeHome, ModeWork, ModeLeisure, ModeSpatial}
}

// Names returns the invocation names of every valid mode.
func Names() []string {
	modes := Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}
