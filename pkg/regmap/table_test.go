package regmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDescription = `
version: "1.0"
family: test
modules:
  OUT:
    base: [0x0200, 0x0210]
    registers:
      - [0, OUT_DIV, Word32]
      - [4, OUT_CTRL, Byte]
  STATUS:
    base: [0x0100]
    registers:
      - [0, BOOT, Word]
      - {offset: 8, name: XO_FREQ, contents: Frequency}
`

func TestLoad(t *testing.T) {
	table, err := Load([]byte(testDescription))
	require.NoError(t, err)

	assert.Equal(t, "test", table.Family())
	assert.Equal(t, 6, table.Len())

	modules := table.Modules()
	require.Len(t, modules, 2)
	assert.Equal(t, "STATUS", modules[0].Name)
	assert.Equal(t, "OUT", modules[1].Name)
	assert.Equal(t, uint16(0x0200), modules[1].LowestBase())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{
			name: "unknown contents",
			doc:  "version: \"1.0\"\nmodules:\n  A:\n    base: [0x100]\n    registers:\n      - [0, X, Word16]\n",
			err:  ErrUnknownContents,
		},
		{
			name: "overlap",
			doc:  "version: \"1.0\"\nmodules:\n  A:\n    base: [0x100]\n    registers:\n      - [0, X, Word]\n      - [1, Y, Byte]\n",
			err:  ErrInvalidTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDescription), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, table.Len())
}

func TestNewTableCopiesModules(t *testing.T) {
	modules := []Module{
		{Name: "A", Base: []uint16{0x100}, Registers: []Register{{"X", 0, Byte}}},
	}
	table, err := NewTable("test", modules)
	require.NoError(t, err)

	modules[0].Base[0] = 0x200
	modules[0].Registers[0].Name = "Y"

	loc, err := table.Resolve("X")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x100), loc.Address)

	got := table.Modules()
	got[0].Registers[0].Contents = Word
	m, ok := table.Module("A")
	require.True(t, ok)
	assert.Equal(t, Byte, m.Registers[0].Contents)
}

func TestNewTableRejectsInvalid(t *testing.T) {
	modules := []Module{
		{Name: "A", Base: []uint16{0x100}, Registers: []Register{{"X", 0, Byte}}},
		{Name: "B", Base: []uint16{0x200}, Registers: []Register{{"X", 0, Byte}}},
	}
	_, err := NewTable("test", modules)
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestTableInstances(t *testing.T) {
	table, err := Load([]byte(testDescription))
	require.NoError(t, err)

	want := []string{
		"STATUS.BOOT", "STATUS.XO_FREQ",
		"OUT_0.OUT_DIV", "OUT_0.OUT_CTRL",
		"OUT_1.OUT_DIV", "OUT_1.OUT_CTRL",
	}
	var got []string
	for _, loc := range table.Instances() {
		got = append(got, loc.Name())
	}
	assert.Equal(t, want, got)
}

func TestTableRegister(t *testing.T) {
	table, err := Load([]byte(testDescription))
	require.NoError(t, err)

	r, module, ok := table.Register("XO_FREQ")
	require.True(t, ok)
	assert.Equal(t, "STATUS", module)
	assert.Equal(t, uint16(8), r.Offset)
	assert.Equal(t, Frequency, r.Contents)

	_, _, ok = table.Register("NOPE")
	assert.False(t, ok)
}

func TestTableAt(t *testing.T) {
	table, err := Load([]byte(testDescription))
	require.NoError(t, err)

	tests := []struct {
		addr uint16
		name string
		ok   bool
	}{
		{0x0100, "STATUS.BOOT", true},
		{0x0101, "STATUS.BOOT", true},
		{0x0102, "", false},
		{0x010f, "STATUS.XO_FREQ", true},
		{0x0110, "", false},
		{0x0203, "OUT_0.OUT_DIV", true},
		{0x0214, "OUT_1.OUT_CTRL", true},
		{0x0215, "", false},
		{0x0000, "", false},
	}

	for _, tt := range tests {
		loc, ok := table.At(tt.addr)
		if assert.Equal(t, tt.ok, ok, "At(%#04x)", tt.addr) && ok {
			assert.Equal(t, tt.name, loc.Name(), "At(%#04x)", tt.addr)
		}
	}
}

func TestTableResolve(t *testing.T) {
	table, err := Load([]byte(testDescription))
	require.NoError(t, err)

	tests := []struct {
		path string
		addr uint16
		err  error
	}{
		{path: "BOOT", addr: 0x0100},
		{path: "STATUS.XO_FREQ", addr: 0x0108},
		{path: "STATUS[0].BOOT", addr: 0x0100},
		{path: "OUT[0].OUT_CTRL", addr: 0x0204},
		{path: "OUT[1].OUT_DIV", addr: 0x0210},
		{path: "OUT_1.OUT_CTRL", addr: 0x0214},
		{path: "OUT_DIV", err: ErrAmbiguous},
		{path: "OUT.OUT_DIV", err: ErrAmbiguous},
		{path: "OUT[2].OUT_DIV", err: ErrNotFound},
		{path: "STATUS.OUT_DIV", err: ErrNotFound},
		{path: "MISSING.BOOT", err: ErrNotFound},
		{path: "NOPE", err: ErrNotFound},
		{path: "OUT[x].OUT_DIV", err: ErrInvalidPath},
		{path: "OUT.", err: ErrInvalidPath},
		{path: "", err: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, err := table.Resolve(tt.path)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "Resolve(%q) error = %v, want %v", tt.path, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, loc.Address)
		})
	}
}

func TestParsePathString(t *testing.T) {
	for _, s := range []string{"REG", "MOD.REG", "MOD[3].REG"} {
		p, err := ParsePath(s)
		require.NoError(t, err)
		assert.Equal(t, s, p.String())
	}
}

func TestDefaultTable(t *testing.T) {
	table := Default()
	assert.Same(t, table, Default())
	assert.Equal(t, "8A3xxxx", table.Family())

	loc, err := table.Resolve("DPLL[3].DPLL_MODE")
	require.NoError(t, err)
	assert.Equal(t, uint16(0xc480+0x37), loc.Address)
	assert.Equal(t, "DPLL_3.DPLL_MODE", loc.Name())

	loc, err = table.Resolve("TOD_WRITE_1.TOD_WRITE_VALUE")
	require.NoError(t, err)
	assert.Equal(t, uint16(0xcc10), loc.Address)
	assert.Equal(t, TimeOfDay, loc.Register.Contents)

	loc, err = table.Resolve("SYS_DPLL_XO_FREQ")
	require.NoError(t, err)
	assert.Equal(t, uint16(0xc194), loc.Address)

	_, err = table.Resolve("IN_FREQ")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestDefaultTableOrthogonality(t *testing.T) {
	table := Default()
	names := make(map[string]bool)

	for _, loc := range table.Instances() {
		for off := 0; off < loc.Register.Size(); off++ {
			got, ok := table.At(loc.Address + uint16(off))
			require.True(t, ok, "At(%#04x)", loc.Address+uint16(off))
			require.Equal(t, loc.Name(), got.Name())
		}
		require.False(t, names[loc.Name()], "duplicate instance %s", loc.Name())
		names[loc.Name()] = true
	}

	seen := make(map[string]string)
	for _, m := range Modules() {
		for _, r := range m.Registers {
			owner, dup := seen[r.Name]
			require.False(t, dup, "register %s in %s and %s", r.Name, owner, m.Name)
			seen[r.Name] = m.Name
		}
	}
}

func TestDefaultModulesSorted(t *testing.T) {
	modules := Modules()
	require.NotEmpty(t, modules)
	for i := 1; i < len(modules); i++ {
		assert.Less(t, modules[i-1].LowestBase(), modules[i].LowestBase())
	}
}

func TestDump(t *testing.T) {
	var lines int
	for _, m := range Modules() {
		for i, base := range m.Base {
			for _, r := range m.Registers {
				span := r.Span(base)
				assert.NotEmpty(t, m.InstanceName(i))
				assert.LessOrEqual(t, span.End, uint32(AddressSpace))
				lines++
			}
		}
	}
	assert.Equal(t, Default().Len(), lines)
}

func TestDefaultDescriptionIsCopy(t *testing.T) {
	a := DefaultDescription()
	a[0] = 'X'
	assert.NotEqual(t, a[0], DefaultDescription()[0])
}
