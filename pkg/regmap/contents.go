package regmap

import (
	"fmt"
)

// Contents is the format kind of a register. It fixes the register width
// and how its bytes map to a value.
type Contents uint8

const (
	// Byte is a single unsigned byte.
	Byte Contents = iota

	// Word is a 16-bit little-endian unsigned integer.
	Word

	// Word24 is a 24-bit little-endian unsigned integer.
	Word24

	// Word32 is a 32-bit little-endian unsigned integer.
	Word32

	// Word40 is a 40-bit little-endian unsigned integer.
	Word40

	// Word48 is a 48-bit little-endian unsigned integer.
	Word48

	// Frequency is a fixed-point ratio: a 48-bit numerator followed by a
	// 16-bit denominator.
	Frequency

	// TimeOfDay is a timestamp: 5 bytes of sub-second data followed by a
	// 48-bit count of seconds since the epoch.
	TimeOfDay

	contentsCount
)

var contentsNames = [contentsCount]string{
	Byte:      "Byte",
	Word:      "Word",
	Word24:    "Word24",
	Word32:    "Word32",
	Word40:    "Word40",
	Word48:    "Word48",
	Frequency: "Frequency",
	TimeOfDay: "TimeOfDay",
}

// AllContents returns every contents kind in declaration order.
func AllContents() []Contents {
	all := make([]Contents, 0, contentsCount)
	for c := Byte; c < contentsCount; c++ {
		all = append(all, c)
	}
	return all
}

// Size returns the register width in bytes.
func (c Contents) Size() int {
	switch c {
	case Byte:
		return 1
	case Word:
		return 2
	case Word24:
		return 3
	case Word32:
		return 4
	case Word40:
		return 5
	case Word48:
		return 6
	case Frequency:
		return 8
	case TimeOfDay:
		return 11
	default:
		panic(fmt.Sprintf("regmap: unknown contents kind %d", uint8(c)))
	}
}

// Valid returns true if c is one of the declared kinds.
func (c Contents) Valid() bool {
	return c < contentsCount
}

// String returns the contents kind name.
func (c Contents) String() string {
	if c.Valid() {
		return contentsNames[c]
	}
	return fmt.Sprintf("Contents(%d)", uint8(c))
}

// ParseContents returns the kind with the given name.
func ParseContents(s string) (Contents, error) {
	for c, name := range contentsNames {
		if name == s {
			return Contents(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContents, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Contents) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownContents, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Contents) UnmarshalText(text []byte) error {
	parsed, err := ParseContents(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
