// Package version checks the format version carried by register
// descriptions.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the description format version understood by this library.
// Minor revisions only add fields, so any minor of the current major loads.
const Current = "1.0"

// ErrIncompatible is returned when a description uses a different major version.
var ErrIncompatible = errors.New("incompatible description version")

// Format is a parsed "major.minor" format version.
type Format struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Format, error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return Format{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}
	major, err := component(majorStr)
	if err != nil {
		return Format{}, fmt.Errorf("invalid version %q: major: %w", s, err)
	}
	minor, err := component(minorStr)
	if err != nil {
		return Format{}, fmt.Errorf("invalid version %q: minor: %w", s, err)
	}
	return Format{Major: major, Minor: minor}, nil
}

func component(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.New("not a 16-bit decimal number")
	}
	return uint16(v), nil
}

// String returns the version as "major.minor".
func (f Format) String() string {
	return fmt.Sprintf("%d.%d", f.Major, f.Minor)
}

// Compatible returns true if both versions share a major version.
func (f Format) Compatible(other Format) bool {
	return f.Major == other.Major
}

// Newer returns true if f is a later revision than other.
func (f Format) Newer(other Format) bool {
	if f.Major != other.Major {
		return f.Major > other.Major
	}
	return f.Minor > other.Minor
}

// Check parses s and verifies this library can read it.
func Check(s string) (Format, error) {
	v, err := Parse(s)
	if err != nil {
		return Format{}, err
	}
	current, _ := Parse(Current)
	if !current.Compatible(v) {
		return v, fmt.Errorf("%w: %s (supported: %d.x)", ErrIncompatible, v, current.Major)
	}
	return v, nil
}
