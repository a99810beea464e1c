package regio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/log"
	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// Accessor errors.
var (
	ErrAddressRange = errors.New("transfer beyond the 16-bit address space")
	ErrEmpty        = errors.New("empty transfer")
)

// Options configures a Device.
type Options struct {
	// Mode selects the page-select convention. Defaults to PageModeSingle.
	Mode regmap.PageMode

	// Logger receives a trace event for every bus transaction.
	// Defaults to log.NoopLogger.
	Logger log.Logger

	// Table resolves register paths and names raw transfers.
	// Defaults to regmap.Default().
	Table *regmap.Table

	// SessionID tags trace events. A random UUID is used when empty.
	SessionID string
}

// Device reads and writes registers of one ClockMatrix part.
type Device struct {
	bus     Bus
	mode    regmap.PageMode
	logger  log.Logger
	table   *regmap.Table
	session string
	now     func() time.Time
}

// New creates a Device on bus.
func New(bus Bus, opts Options) *Device {
	if opts.Logger == nil {
		opts.Logger = log.NoopLogger{}
	}
	if opts.Table == nil {
		opts.Table = regmap.Default()
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	return &Device{
		bus:     bus,
		mode:    opts.Mode,
		logger:  opts.Logger,
		table:   opts.Table,
		session: opts.SessionID,
		now:     time.Now,
	}
}

// SessionID returns the ID attached to this device's trace events.
func (d *Device) SessionID() string {
	return d.session
}

// Table returns the register table used to resolve paths.
func (d *Device) Table() *regmap.Table {
	return d.table
}

// ReadRaw fills buf with the bytes starting at addr. Transfers that cross a
// page boundary are split, and the page is selected before each part.
func (d *Device) ReadRaw(ctx context.Context, addr uint16, buf []byte) error {
	return d.transfer(ctx, log.DirectionRead, addr, buf)
}

// WriteRaw writes data starting at addr, splitting at page boundaries like
// ReadRaw.
func (d *Device) WriteRaw(ctx context.Context, addr uint16, data []byte) error {
	return d.transfer(ctx, log.DirectionWrite, addr, data)
}

func (d *Device) transfer(ctx context.Context, dir log.Direction, addr uint16, data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if int(addr)+len(data) > regmap.AddressSpace {
		return fmt.Errorf("%w: 0x%04x+%d", ErrAddressRange, addr, len(data))
	}

	for len(data) > 0 {
		n := 0x100 - int(regmap.Offset(addr))
		if n > len(data) {
			n = len(data)
		}
		if err := d.chunk(ctx, dir, addr, data[:n]); err != nil {
			return err
		}
		addr += uint16(n)
		data = data[n:]
	}
	return nil
}

// chunk transfers bytes that lie within one page.
func (d *Device) chunk(ctx context.Context, dir log.Direction, addr uint16, data []byte) error {
	name := d.nameAt(addr)

	sel := d.mode.Select(addr)
	if err := d.bus.Write(ctx, sel.Register, sel.Data); err != nil {
		return d.fail(dir, addr, name, "page select", err)
	}
	d.logger.Log(log.Event{
		Timestamp: d.now(),
		SessionID: d.session,
		Direction: log.DirectionWrite,
		Category:  log.CategoryPageSelect,
		PageSelect: &log.PageSelectEvent{
			Page:     regmap.Page(addr),
			Register: sel.Register,
			Data:     sel.Data,
		},
	})

	var err error
	if dir == log.DirectionRead {
		err = d.bus.Read(ctx, regmap.Offset(addr), data)
	} else {
		err = d.bus.Write(ctx, regmap.Offset(addr), data)
	}
	if err != nil {
		return d.fail(dir, addr, name, "transfer", err)
	}

	access := &log.AccessEvent{
		Address:  addr,
		Register: name,
		Data:     append([]byte(nil), data...),
	}
	if loc, ok := d.table.At(addr); ok && loc.Address == addr && len(data) == loc.Register.Size() {
		access.Contents = loc.Register.Contents.String()
		if p, err := regmap.FromSlice(loc.Register.Contents, data); err == nil {
			v := p.Value()
			access.Value = &v
		}
	}
	d.logger.Log(log.Event{
		Timestamp: d.now(),
		SessionID: d.session,
		Direction: dir,
		Category:  log.CategoryAccess,
		Access:    access,
	})
	return nil
}

func (d *Device) fail(dir log.Direction, addr uint16, name, op string, err error) error {
	d.logger.Log(log.Event{
		Timestamp: d.now(),
		SessionID: d.session,
		Direction: dir,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Address:  addr,
			Register: name,
			Message:  err.Error(),
			Context:  op,
		},
	})
	if name == "" {
		name = fmt.Sprintf("0x%04x", addr)
	}
	return fmt.Errorf("%s %s: %s: %w", strings.ToLower(dir.String()), name, op, err)
}

// nameAt returns the qualified name of the register starting at addr.
func (d *Device) nameAt(addr uint16) string {
	if loc, ok := d.table.At(addr); ok && loc.Address == addr {
		return loc.Name()
	}
	return ""
}

// Read reads the register at loc. The payload owns a fresh buffer.
func (d *Device) Read(ctx context.Context, loc regmap.Location) (regmap.Payload, error) {
	buf := make([]byte, loc.Register.Size())
	if err := d.ReadRaw(ctx, loc.Address, buf); err != nil {
		return regmap.Payload{}, err
	}
	return regmap.FromSlice(loc.Register.Contents, buf)
}

// ReadValue reads the register at loc and returns its decoded value.
func (d *Device) ReadValue(ctx context.Context, loc regmap.Location) (uint64, error) {
	p, err := d.Read(ctx, loc)
	if err != nil {
		return 0, err
	}
	return p.Value(), nil
}

// Write encodes v for the register at loc and writes it. TimeOfDay
// registers cannot be written and return regmap.ErrDecodeOnly.
func (d *Device) Write(ctx context.Context, loc regmap.Location, v uint64) error {
	buf := make([]byte, loc.Register.Size())
	p, err := regmap.IntoSlice(loc.Register.Contents, v, buf)
	if err != nil {
		return fmt.Errorf("write %s: %w", loc.Name(), err)
	}
	return d.WriteRaw(ctx, loc.Address, p.Data)
}

// ReadPath resolves path against the device table and reads the register.
func (d *Device) ReadPath(ctx context.Context, path string) (regmap.Location, regmap.Payload, error) {
	loc, err := d.table.Resolve(path)
	if err != nil {
		return regmap.Location{}, regmap.Payload{}, err
	}
	p, err := d.Read(ctx, loc)
	return loc, p, err
}

// WritePath resolves path against the device table and writes v.
func (d *Device) WritePath(ctx context.Context, path string, v uint64) error {
	loc, err := d.table.Resolve(path)
	if err != nil {
		return err
	}
	return d.Write(ctx, loc, v)
}
