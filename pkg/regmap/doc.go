// Package regmap describes the register map of the Renesas (IDT) 8A3xxxx
// ClockMatrix family of clock generators and translates register contents
// between raw device bytes and semantic values.
//
// # Table Hierarchy
//
// The device address space is flat and 16 bits wide:
//
//	Table > Module > Register
//
// A Module is a functional unit (an input, a DPLL, a time-of-day counter)
// with one or more base addresses. A module with several base addresses is
// replicated: each base is an instance with the same register layout.
// Registers carry an offset relative to the module base and a Contents kind
// that fixes their width and format.
//
// The default table is parsed from an embedded description on first use and
// is read-only afterwards:
//
//	for _, m := range regmap.Modules() {
//	    fmt.Println(m.Name, len(m.Base))
//	}
//
// # Contents
//
// Every register is one of eight kinds. Plain integers (Byte through Word48)
// are little-endian. Frequency is a 6-byte numerator over a 2-byte
// denominator. TimeOfDay carries 5 bytes of sub-second data followed by a
// 6-byte seconds count.
//
//	p, err := regmap.FromSlice(regmap.Word24, buf)
//	if err != nil {
//	    return err // buffer too short
//	}
//	v := p.Value()
//
// # Addressing
//
// Registers are reached over a byte-addressed bus. The high byte of an
// address is written to a page-select register, the low byte travels with
// the transaction. See PageMode for the two page-select conventions.
//
// # Integrity
//
// Validate checks that no two register instances overlap and that register
// names are unique across the whole table. Tables built by NewTable and Load
// are always valid.
package regmap
