package regmap

import (
	"fmt"
	"sort"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regdesc"
)

// Table is a validated, read-only register table. It is safe for concurrent
// use.
type Table struct {
	family    string
	modules   []Module
	locations []Location // every register instance, ascending address
	modIndex  map[string]int
	regIndex  map[string]int // register name -> module index
}

// NewTable validates modules and builds a table from them. The modules are
// copied; later changes by the caller do not affect the table.
func NewTable(family string, modules []Module) (*Table, error) {
	if result := Validate(modules); !result.Valid {
		return nil, result.Err()
	}

	t := &Table{
		family:   family,
		modules:  make([]Module, len(modules)),
		modIndex: make(map[string]int, len(modules)),
		regIndex: make(map[string]int),
	}
	for i := range modules {
		t.modules[i] = modules[i].clone()
	}
	sort.SliceStable(t.modules, func(a, b int) bool {
		return t.modules[a].LowestBase() < t.modules[b].LowestBase()
	})

	for i := range t.modules {
		m := &t.modules[i]
		t.modIndex[m.Name] = i
		for _, r := range m.Registers {
			t.regIndex[r.Name] = i
		}
		for inst, base := range m.Base {
			for _, r := range m.Registers {
				t.locations = append(t.locations, Location{
					Module:       m.Name,
					Instance:     inst,
					InstanceName: m.InstanceName(inst),
					Register:     r,
					Address:      base + r.Offset,
				})
			}
		}
	}
	sort.SliceStable(t.locations, func(a, b int) bool {
		return t.locations[a].Address < t.locations[b].Address
	})

	return t, nil
}

// FromDescription converts a parsed register description into modules
// ordered by lowest base address.
func FromDescription(desc *regdesc.RawDescription) ([]Module, error) {
	modules := make([]Module, 0, len(desc.Modules))

	for name, raw := range desc.Modules {
		m := Module{
			Name:      name,
			Base:      append([]uint16(nil), raw.Base...),
			Registers: make([]Register, 0, len(raw.Registers)),
		}
		for _, rr := range raw.Registers {
			c, err := ParseContents(rr.Contents)
			if err != nil {
				return nil, fmt.Errorf("module %s register %s (line %d): %w", name, rr.Name, rr.Line, err)
			}
			m.Registers = append(m.Registers, Register{Name: rr.Name, Offset: rr.Offset, Contents: c})
		}
		modules = append(modules, m)
	}

	sort.Slice(modules, func(a, b int) bool {
		la, lb := modules[a].LowestBase(), modules[b].LowestBase()
		if la != lb {
			return la < lb
		}
		return modules[a].Name < modules[b].Name
	})
	return modules, nil
}

// Load parses a YAML register description and builds a validated table.
func Load(data []byte) (*Table, error) {
	desc, err := regdesc.Parse(data)
	if err != nil {
		return nil, err
	}
	return fromRaw(desc)
}

// LoadFile reads a YAML register description from path and builds a
// validated table.
func LoadFile(path string) (*Table, error) {
	desc, err := regdesc.Load(path)
	if err != nil {
		return nil, err
	}
	return fromRaw(desc)
}

func fromRaw(desc *regdesc.RawDescription) (*Table, error) {
	modules, err := FromDescription(desc)
	if err != nil {
		return nil, err
	}
	return NewTable(desc.Family, modules)
}

// Family returns the device family the table describes.
func (t *Table) Family() string {
	return t.family
}

// Modules returns a copy of every module, ordered by lowest base address.
func (t *Table) Modules() []Module {
	out := make([]Module, len(t.modules))
	for i := range t.modules {
		out[i] = t.modules[i].clone()
	}
	return out
}

// Module returns a copy of the module with the given name.
func (t *Table) Module(name string) (Module, bool) {
	i, ok := t.modIndex[name]
	if !ok {
		return Module{}, false
	}
	return t.modules[i].clone(), true
}

// Register returns a register by its table-wide unique name, together with
// the name of the module that defines it.
func (t *Table) Register(name string) (Register, string, bool) {
	i, ok := t.regIndex[name]
	if !ok {
		return Register{}, "", false
	}
	m := &t.modules[i]
	r, _ := m.Register(name)
	return r, m.Name, true
}

// Instances returns every register instance in ascending address order.
func (t *Table) Instances() []Location {
	out := make([]Location, len(t.locations))
	copy(out, t.locations)
	return out
}

// Len returns the number of register instances in the table.
func (t *Table) Len() int {
	return len(t.locations)
}

// At returns the register instance whose byte range contains addr.
func (t *Table) At(addr uint16) (Location, bool) {
	// First location starting above addr; the candidate is the one before.
	i := sort.Search(len(t.locations), func(i int) bool {
		return t.locations[i].Address > addr
	})
	if i == 0 {
		return Location{}, false
	}
	loc := t.locations[i-1]
	if !loc.Span().Contains(uint32(addr)) {
		return Location{}, false
	}
	return loc, true
}

// Locate returns instance inst of the named register.
func (t *Table) Locate(register string, inst int) (Location, error) {
	i, ok := t.regIndex[register]
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrNotFound, register)
	}
	m := &t.modules[i]
	if inst < 0 || inst >= len(m.Base) {
		return Location{}, fmt.Errorf("%w: %s has %d instances, no instance %d", ErrNotFound, m.Name, len(m.Base), inst)
	}
	r, _ := m.Register(register)
	return Location{
		Module:       m.Name,
		Instance:     inst,
		InstanceName: m.InstanceName(inst),
		Register:     r,
		Address:      m.Base[inst] + r.Offset,
	}, nil
}
