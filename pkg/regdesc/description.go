// Package regdesc provides the YAML parsing types and functions for register
// description documents. A description lists every module of a device family
// with its base addresses and registers; it is the single source of truth for
// the compiled register table and for cmx-regmapgen.
package regdesc

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/version"
)

// Description errors.
var (
	ErrMissingVersion = errors.New("description missing version")
	ErrNoModules      = errors.New("description has no modules")
	ErrEmptyBase      = errors.New("module has no base address")
	ErrBadRegister    = errors.New("malformed register entry")
)

// RawDescription represents a register description loaded from YAML.
type RawDescription struct {
	Version string                `yaml:"version"`
	Family  string                `yaml:"family"`
	Modules map[string]*RawModule `yaml:"modules"`
}

// RawModule represents one module definition. More than one base address
// means the module is replicated at each of them.
type RawModule struct {
	Base      []uint16      `yaml:"base"`
	Registers []RawRegister `yaml:"registers"`
}

// RawRegister represents a register entry. In YAML it is written either as
// an [offset, name, contents] tuple or as a mapping with the same keys.
type RawRegister struct {
	Offset   uint16 `yaml:"offset"`
	Name     string `yaml:"name"`
	Contents string `yaml:"contents"` // "Byte", "Word", ..., "TimeOfDay"
	Line     int    `yaml:"-"`
}

// UnmarshalYAML accepts both the tuple and the mapping form.
func (r *RawRegister) UnmarshalYAML(node *yaml.Node) error {
	r.Line = node.Line

	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) != 3 {
			return fmt.Errorf("line %d: %w: expected [offset, name, contents], got %d items",
				node.Line, ErrBadRegister, len(node.Content))
		}
		if err := node.Content[0].Decode(&r.Offset); err != nil {
			return fmt.Errorf("line %d: %w: offset: %v", node.Line, ErrBadRegister, err)
		}
		if err := node.Content[1].Decode(&r.Name); err != nil {
			return fmt.Errorf("line %d: %w: name: %v", node.Line, ErrBadRegister, err)
		}
		if err := node.Content[2].Decode(&r.Contents); err != nil {
			return fmt.Errorf("line %d: %w: contents: %v", node.Line, ErrBadRegister, err)
		}
	case yaml.MappingNode:
		type plain RawRegister
		var p plain
		if err := node.Decode(&p); err != nil {
			return fmt.Errorf("line %d: %w: %v", node.Line, ErrBadRegister, err)
		}
		*r = RawRegister(p)
		r.Line = node.Line
	default:
		return fmt.Errorf("line %d: %w: expected sequence or mapping", node.Line, ErrBadRegister)
	}

	if r.Name == "" {
		return fmt.Errorf("line %d: %w: missing name", node.Line, ErrBadRegister)
	}
	if r.Contents == "" {
		return fmt.Errorf("line %d: %w: register %s missing contents", node.Line, ErrBadRegister, r.Name)
	}
	return nil
}

// LowestBase returns the smallest base address of the module.
func (m *RawModule) LowestBase() uint16 {
	lowest := m.Base[0]
	for _, b := range m.Base[1:] {
		if b < lowest {
			lowest = b
		}
	}
	return lowest
}

// Parse parses a register description from YAML bytes.
func Parse(data []byte) (*RawDescription, error) {
	var desc RawDescription
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parsing register description: %w", err)
	}
	if desc.Version == "" {
		return nil, ErrMissingVersion
	}
	if _, err := version.Check(desc.Version); err != nil {
		return nil, fmt.Errorf("parsing register description: %w", err)
	}
	if len(desc.Modules) == 0 {
		return nil, ErrNoModules
	}
	for name, m := range desc.Modules {
		if m == nil || len(m.Base) == 0 {
			return nil, fmt.Errorf("module %s: %w", name, ErrEmptyBase)
		}
	}
	return &desc, nil
}

// Load loads and parses a register description from a file.
func Load(path string) (*RawDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}
