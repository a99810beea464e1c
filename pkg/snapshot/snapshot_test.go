package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// memReader serves reads from a flat 64 KiB image.
type memReader struct {
	mem   [regmap.AddressSpace]byte
	reads int
	fail  uint16
}

func (m *memReader) ReadRaw(_ context.Context, addr uint16, buf []byte) error {
	if m.fail != 0 && addr == m.fail {
		return errors.New("nack")
	}
	m.reads++
	copy(buf, m.mem[addr:])
	return nil
}

func TestCaptureAndDecode(t *testing.T) {
	mem := &memReader{}
	copy(mem.mem[0xc194:], []byte{10, 0, 0, 0, 0, 0, 2, 0})
	copy(mem.mem[0xcc10:], []byte{0, 0, 0, 0, 0, 0, 0x77, 0x76, 0x5d, 0, 0})

	table := regmap.Default()
	s, err := Capture(context.Background(), mem, table, MatchModules("SYS_DPLL_XO", "TOD_WRITE"))
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, s.Version)
	assert.Equal(t, "8A3xxxx", s.Family)
	// 1 + 4 instances x 4 registers
	require.Len(t, s.Entries, 17)
	assert.Equal(t, 17, mem.reads)
	assert.Equal(t, uint16(0xc194), s.Entries[0].Address)

	values, err := s.Decode(table)
	require.NoError(t, err)
	require.Len(t, values, 17)

	assert.Equal(t, "SYS_DPLL_XO.SYS_DPLL_XO_FREQ", values[0].Location.Name())
	assert.Equal(t, uint64(5), values[0].Value)

	var tod *Value
	for i := range values {
		if values[i].Location.Name() == "TOD_WRITE_1.TOD_WRITE_VALUE" {
			tod = &values[i]
		}
	}
	require.NotNil(t, tod)
	assert.Equal(t, uint64(1568044800), tod.Value)
}

func TestCaptureStopsOnError(t *testing.T) {
	mem := &memReader{fail: 0xcf54}
	_, err := Capture(context.Background(), mem, regmap.Default(), MatchModules("SCRATCH"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCRATCH.SCRATCH1")
	assert.Equal(t, 1, mem.reads)
}

func TestCaptureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Capture(ctx, &memReader{}, regmap.Default(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveLoad(t *testing.T) {
	s := New("8A3xxxx")
	s.Entries = []Entry{
		{Address: 0xcf50, Data: []byte{1, 2, 3, 4}},
		{Address: 0xc194, Data: []byte{10, 0, 0, 0, 0, 0, 2, 0}},
	}

	path := filepath.Join(t.TempDir(), "nested", "board.csnap")
	require.NoError(t, Save(path, s))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.True(t, s.Created.Equal(got.Created))
	assert.Equal(t, s.Family, got.Family)
	assert.Equal(t, s.Entries, got.Entries)
}

func TestDecodeRejectsVersion(t *testing.T) {
	s := New("8A3xxxx")
	s.Version = 99
	data, err := Encode(s)
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not cbor"))
	assert.Error(t, err)
}

func TestDecodeReportsBadEntries(t *testing.T) {
	s := New("8A3xxxx")
	s.Entries = []Entry{
		{Address: 0xcf50, Data: []byte{1, 0, 0, 0}},
		{Address: 0xcf51, Data: []byte{1}},
		{Address: 0x0000, Data: []byte{1}},
		{Address: 0xc194, Data: []byte{10, 0}},
	}

	values, err := s.Decode(regmap.Default())
	require.Len(t, values, 1)
	assert.Equal(t, uint64(1), values[0].Value)

	assert.ErrorIs(t, err, ErrUnknownAddress)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.ErrorIs(t, err, regmap.ErrShortBuffer)
}
