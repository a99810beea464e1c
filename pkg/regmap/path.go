package regmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a parsed register path.
type Path struct {
	// Module is empty when the path names only a register.
	Module string

	// Instance is -1 when the path carries no instance index.
	Instance int

	Register string
}

// ParsePath parses one of the path forms REG, MODULE.REG, MODULE[i].REG or
// MODULE_i.REG. The MODULE_i form is returned with the suffix still part of
// Module; Table.Resolve splits it against the known module names.
func ParsePath(s string) (Path, error) {
	p := Path{Instance: -1}
	if s == "" {
		return p, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		if strings.ContainsAny(s, "[]") {
			return p, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		p.Register = s
		return p, nil
	}

	mod, reg := s[:dot], s[dot+1:]
	if mod == "" || reg == "" || strings.ContainsAny(reg, "[]") {
		return p, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	p.Register = reg

	if open := strings.IndexByte(mod, '['); open >= 0 {
		if !strings.HasSuffix(mod, "]") || open == 0 {
			return p, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		i, err := strconv.Atoi(mod[open+1 : len(mod)-1])
		if err != nil || i < 0 {
			return p, fmt.Errorf("%w: bad instance index in %q", ErrInvalidPath, s)
		}
		p.Module = mod[:open]
		p.Instance = i
		return p, nil
	}
	if strings.ContainsAny(mod, "]") {
		return p, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}

	p.Module = mod
	return p, nil
}

// String formats the path in bracket form.
func (p Path) String() string {
	switch {
	case p.Module == "":
		return p.Register
	case p.Instance < 0:
		return p.Module + "." + p.Register
	default:
		return fmt.Sprintf("%s[%d].%s", p.Module, p.Instance, p.Register)
	}
}

// Resolve looks up a register path. A path into a replicated module must
// name the instance; otherwise it fails with ErrAmbiguous.
func (t *Table) Resolve(path string) (Location, error) {
	p, err := ParsePath(path)
	if err != nil {
		return Location{}, err
	}

	if p.Module != "" {
		if _, ok := t.modIndex[p.Module]; !ok && p.Instance < 0 {
			p = t.splitInstanceSuffix(p)
		}
		mi, ok := t.modIndex[p.Module]
		if !ok {
			return Location{}, fmt.Errorf("%w: module %s", ErrNotFound, p.Module)
		}
		if ri, ok := t.regIndex[p.Register]; !ok || ri != mi {
			return Location{}, fmt.Errorf("%w: register %s in module %s", ErrNotFound, p.Register, p.Module)
		}
	}

	i, ok := t.regIndex[p.Register]
	if !ok {
		return Location{}, fmt.Errorf("%w: register %s", ErrNotFound, p.Register)
	}
	m := &t.modules[i]

	inst := p.Instance
	if inst < 0 {
		if m.Replicated() {
			return Location{}, fmt.Errorf("%w: %s has %d instances; use %s[i].%s",
				ErrAmbiguous, m.Name, len(m.Base), m.Name, p.Register)
		}
		inst = 0
	}
	return t.Locate(p.Register, inst)
}

// splitInstanceSuffix rewrites MODULE_i into MODULE with instance i when
// MODULE is a known replicated module.
func (t *Table) splitInstanceSuffix(p Path) Path {
	us := strings.LastIndexByte(p.Module, '_')
	if us <= 0 {
		return p
	}
	i, err := strconv.Atoi(p.Module[us+1:])
	if err != nil || i < 0 {
		return p
	}
	name := p.Module[:us]
	mi, ok := t.modIndex[name]
	if !ok || !t.modules[mi].Replicated() {
		return p
	}
	return Path{Module: name, Instance: i, Register: p.Register}
}
