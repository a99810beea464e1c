// Package snapshot captures register contents of a ClockMatrix part into a
// portable CBOR file and decodes them back against a register table.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// FormatVersion is the current version of the snapshot file format.
const FormatVersion = 1

// Snapshot errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrUnknownAddress     = errors.New("no register at address")
	ErrTruncated          = errors.New("entry shorter than register")
)

// Snapshot is a set of register contents read from one device.
type Snapshot struct {
	// Version is the snapshot file format version.
	Version int `cbor:"1,keyasint"`

	// ID uniquely identifies the snapshot.
	ID uuid.UUID `cbor:"2,keyasint"`

	// Created is when the capture started.
	Created time.Time `cbor:"3,keyasint"`

	// Family is the register table family the entries were read against.
	Family string `cbor:"4,keyasint,omitempty"`

	// Entries are the captured registers in ascending address order.
	Entries []Entry `cbor:"5,keyasint"`
}

// Entry is the raw contents of one register instance.
type Entry struct {
	Address uint16 `cbor:"1,keyasint"`
	Data    []byte `cbor:"2,keyasint"`
}

// Value is a snapshot entry decoded against a register table.
type Value struct {
	Location regmap.Location
	Payload  regmap.Payload
	Value    uint64
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// New returns an empty snapshot with a fresh ID.
func New(family string) *Snapshot {
	return &Snapshot{
		Version: FormatVersion,
		ID:      uuid.New(),
		Created: time.Now().UTC(),
		Family:  family,
	}
}

// Encode encodes a snapshot to CBOR.
func Encode(s *Snapshot) ([]byte, error) {
	return encMode.Marshal(s)
}

// Decode decodes a CBOR snapshot and checks its version.
func Decode(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := decMode.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return s, nil
}

// Save writes the snapshot to path, creating parent directories.
func Save(path string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a snapshot from path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Reader reads raw register bytes. *regio.Device implements it.
type Reader interface {
	ReadRaw(ctx context.Context, addr uint16, buf []byte) error
}

// Match selects the register instances to capture.
type Match func(loc regmap.Location) bool

// MatchAll captures every register instance.
func MatchAll(regmap.Location) bool { return true }

// MatchModules captures the instances of the named modules.
func MatchModules(names ...string) Match {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(loc regmap.Location) bool {
		return set[loc.Module]
	}
}

// Capture reads every register instance of table accepted by match. A nil
// match captures everything. Capture stops at the first read error.
func Capture(ctx context.Context, r Reader, table *regmap.Table, match Match) (*Snapshot, error) {
	if match == nil {
		match = MatchAll
	}
	s := New(table.Family())

	for _, loc := range table.Instances() {
		if !match(loc) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := make([]byte, loc.Register.Size())
		if err := r.ReadRaw(ctx, loc.Address, buf); err != nil {
			return nil, fmt.Errorf("capturing %s: %w", loc.Name(), err)
		}
		s.Entries = append(s.Entries, Entry{Address: loc.Address, Data: buf})
	}
	return s, nil
}

// Decode decodes every entry against table. Entries that do not start at a
// register, or hold fewer bytes than it needs, are skipped and reported in
// the returned error; the remaining values are still returned.
func (s *Snapshot) Decode(table *regmap.Table) ([]Value, error) {
	values := make([]Value, 0, len(s.Entries))
	var errs []error

	for _, e := range s.Entries {
		loc, ok := table.At(e.Address)
		if !ok || loc.Address != e.Address {
			errs = append(errs, fmt.Errorf("%w 0x%04x", ErrUnknownAddress, e.Address))
			continue
		}
		p, err := regmap.FromSlice(loc.Register.Contents, e.Data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w: %w", loc.Name(), ErrTruncated, err))
			continue
		}
		values = append(values, Value{Location: loc, Payload: p, Value: p.Value()})
	}
	return values, errors.Join(errs...)
}
