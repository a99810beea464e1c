package regdesc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/version"
)

const sampleDesc = `
version: "1.0"
family: 8A3xxxx
modules:
  INPUT:
    base: [0xc1c0, 0xc1b0]
    registers:
      - [0x0000, IN_FREQ, Frequency]
      - {offset: 0x0008, name: IN_DIV, contents: Word}
  SYS_DPLL_XO:
    base: [0xc194]
    registers:
      - [0x0000, SYS_DPLL_XO_FREQ, Frequency]
`

func TestParseTupleAndMappingForms(t *testing.T) {
	desc, err := Parse([]byte(sampleDesc))
	require.NoError(t, err)

	assert.Equal(t, "1.0", desc.Version)
	assert.Equal(t, "8A3xxxx", desc.Family)
	require.Len(t, desc.Modules, 2)

	input := desc.Modules["INPUT"]
	require.NotNil(t, input)
	assert.Equal(t, []uint16{0xc1c0, 0xc1b0}, input.Base)
	require.Len(t, input.Registers, 2)

	assert.Equal(t, uint16(0x0000), input.Registers[0].Offset)
	assert.Equal(t, "IN_FREQ", input.Registers[0].Name)
	assert.Equal(t, "Frequency", input.Registers[0].Contents)

	assert.Equal(t, uint16(0x0008), input.Registers[1].Offset)
	assert.Equal(t, "IN_DIV", input.Registers[1].Name)
	assert.Equal(t, "Word", input.Registers[1].Contents)
	assert.Positive(t, input.Registers[1].Line)
}

func TestLowestBase(t *testing.T) {
	m := &RawModule{Base: []uint16{0xc1c0, 0xc1b0, 0xc1d0}}
	assert.Equal(t, uint16(0xc1b0), m.LowestBase())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "missing version",
			input:   "modules:\n  A:\n    base: [0x10]\n",
			wantErr: ErrMissingVersion,
		},
		{
			name:    "incompatible version",
			input:   "version: \"2.0\"\nmodules:\n  A:\n    base: [0x10]\n",
			wantErr: version.ErrIncompatible,
		},
		{
			name:    "no modules",
			input:   "version: \"1.0\"\n",
			wantErr: ErrNoModules,
		},
		{
			name:    "empty base",
			input:   "version: \"1.0\"\nmodules:\n  A:\n    base: []\n",
			wantErr: ErrEmptyBase,
		},
		{
			name:    "short tuple",
			input:   "version: \"1.0\"\nmodules:\n  A:\n    base: [0x10]\n    registers:\n      - [0x0, ONLY_NAME]\n",
			wantErr: ErrBadRegister,
		},
		{
			name:    "missing contents",
			input:   "version: \"1.0\"\nmodules:\n  A:\n    base: [0x10]\n    registers:\n      - {offset: 0x0, name: R}\n",
			wantErr: ErrBadRegister,
		},
		{
			name:    "offset out of range",
			input:   "version: \"1.0\"\nmodules:\n  A:\n    base: [0x10]\n    registers:\n      - [0x10000, R, Byte]\n",
			wantErr: ErrBadRegister,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "error %v does not wrap %v", err, tt.wantErr)
		})
	}
}

func TestParseDuplicateModule(t *testing.T) {
	input := `
version: "1.0"
modules:
  A:
    base: [0x10]
  A:
    base: [0x20]
`
	_, err := Parse([]byte(input))
	assert.Error(t, err)
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("version: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDesc), 0o644))

	desc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, desc.Modules, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
