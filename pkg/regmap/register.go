package regmap

import (
	"fmt"
)

// AddressSpace is the size of the flat register address space.
const AddressSpace = 1 << 16

// Register is a named, fixed-width storage location at an offset from its
// module base.
type Register struct {
	Name     string
	Offset   uint16
	Contents Contents
}

// Size returns the register width in bytes.
func (r Register) Size() int {
	return r.Contents.Size()
}

// Span returns the absolute byte range [start, end) of the register at base.
// The range is computed without 16-bit wraparound, so end may exceed
// AddressSpace for a malformed table.
func (r Register) Span(base uint16) Span {
	start := uint32(base) + uint32(r.Offset)
	return Span{Start: start, End: start + uint32(r.Size())}
}

// Span is a half-open absolute byte range.
type Span struct {
	Start uint32
	End   uint32
}

// Contains returns true if addr lies inside the span.
func (s Span) Contains(addr uint32) bool {
	return addr >= s.Start && addr < s.End
}

// Overlaps returns true if the spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// String formats the span as an inclusive range, "0xc1b0-0xc1b7".
func (s Span) String() string {
	return fmt.Sprintf("0x%04x-0x%04x", s.Start, s.End-1)
}

// Module is a functional unit of the device. A module with more than one
// base address is replicated at each of them.
type Module struct {
	Name      string
	Base      []uint16
	Registers []Register
}

// Replicated returns true if the module has more than one instance.
func (m *Module) Replicated() bool {
	return len(m.Base) > 1
}

// LowestBase returns the smallest base address of the module. It returns 0
// for a module without bases.
func (m *Module) LowestBase() uint16 {
	if len(m.Base) == 0 {
		return 0
	}
	lowest := m.Base[0]
	for _, b := range m.Base[1:] {
		if b < lowest {
			lowest = b
		}
	}
	return lowest
}

// InstanceName returns the name of instance i: the module name for a single
// instance module, NAME_i for a replicated one.
func (m *Module) InstanceName(i int) string {
	if m.Replicated() {
		return fmt.Sprintf("%s_%d", m.Name, i)
	}
	return m.Name
}

// Register returns the register with the given name.
func (m *Module) Register(name string) (Register, bool) {
	for _, r := range m.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// clone returns a deep copy of the module.
func (m *Module) clone() Module {
	c := Module{
		Name:      m.Name,
		Base:      make([]uint16, len(m.Base)),
		Registers: make([]Register, len(m.Registers)),
	}
	copy(c.Base, m.Base)
	copy(c.Registers, m.Registers)
	return c
}

// Location is one register of one module instance.
type Location struct {
	// Module is the module name.
	Module string

	// Instance is the index of the module base address.
	Instance int

	// InstanceName is the module name, suffixed with _N when the module is
	// replicated.
	InstanceName string

	Register Register

	// Address is the absolute address of the first register byte.
	Address uint16
}

// Name returns the qualified register name, "DPLL_3.DPLL_MODE".
func (l Location) Name() string {
	return l.InstanceName + "." + l.Register.Name
}

// Span returns the absolute byte range of the location.
func (l Location) Span() Span {
	return l.Register.Span(l.Address - l.Register.Offset)
}

// String formats the location with its address range.
func (l Location) String() string {
	return fmt.Sprintf("%s - %s (%s)", l.Span(), l.Name(), l.Register.Contents)
}
