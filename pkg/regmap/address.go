package regmap

import (
	"fmt"
	"strings"
)

// PageAddr is the page-select register in I2C 1B mode. Only PAGE_ADDR[15:8]
// is written: PAGE_ADDR[31:16] is hardwired and PAGE_ADDR[7:0] is sent as
// part of each transaction.
const PageAddr uint8 = 0xfd

// PageAddrWide is the first of the four page-select registers used when the
// whole of PAGE_ADDR[31:0] is written.
const PageAddrWide uint8 = 0xfc

// Upper bytes of PAGE_ADDR in wide mode. Register space sits at 0x2010xxxx.
const (
	pageAddrUpper0 uint8 = 0x10
	pageAddrUpper1 uint8 = 0x20
)

// Page returns the page-select value for addr: its high byte.
func Page(addr uint16) uint8 {
	return uint8(addr >> 8)
}

// Offset returns the in-page offset of addr: its low byte.
func Offset(addr uint16) uint8 {
	return uint8(addr & 0xff)
}

// PageMode selects how the page of a register address is written to the
// device. The mode is a property of the bus configuration.
type PageMode uint8

const (
	// PageModeSingle writes the page to the single PAGE_ADDR register (0xfd).
	// This is the I2C 1B default.
	PageModeSingle PageMode = iota

	// PageModeWide writes all four page-select registers (0xfc-0xff).
	PageModeWide
)

// String returns the mode name.
func (m PageMode) String() string {
	switch m {
	case PageModeSingle:
		return "single"
	case PageModeWide:
		return "wide"
	default:
		return "UNKNOWN"
	}
}

// ParsePageMode parses a page mode name. "single" and "1b" select
// PageModeSingle; "wide" and "4b" select PageModeWide.
func ParsePageMode(s string) (PageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "1b", "":
		return PageModeSingle, nil
	case "wide", "4b":
		return PageModeWide, nil
	default:
		return 0, fmt.Errorf("unknown page mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m PageMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PageMode) UnmarshalText(text []byte) error {
	parsed, err := ParsePageMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PageSelect is the bus write that selects the page of an address.
type PageSelect struct {
	// Register is the in-page offset the select bytes are written to.
	Register uint8

	// Data is written starting at Register.
	Data []byte
}

// Select returns the page-select write for addr.
func (m PageMode) Select(addr uint16) PageSelect {
	switch m {
	case PageModeSingle:
		return PageSelect{Register: PageAddr, Data: []byte{Page(addr)}}
	case PageModeWide:
		return PageSelect{
			Register: PageAddrWide,
			Data:     []byte{0x00, Page(addr), pageAddrUpper0, pageAddrUpper1},
		}
	default:
		panic(fmt.Sprintf("regmap: unknown page mode %d", uint8(m)))
	}
}

// String formats the write as "0xfd <- 0xc1".
func (s PageSelect) String() string {
	parts := make([]string, len(s.Data))
	for i, b := range s.Data {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}
	return fmt.Sprintf("0x%02x <- %s", s.Register, strings.Join(parts, " "))
}
