package regio

import (
	"context"

	"tinygo.org/x/drivers"
)

// Bus performs one transaction inside the currently selected page.
type Bus interface {
	// Write writes data starting at the in-page offset.
	Write(ctx context.Context, offset uint8, data []byte) error

	// Read fills buf starting at the in-page offset.
	Read(ctx context.Context, offset uint8, buf []byte) error
}

// I2CBus adapts an I2C controller to Bus. The offset is sent as the first
// byte of each transaction.
type I2CBus struct {
	i2c  drivers.I2C
	addr uint16
	w    []byte
}

// NewI2CBus returns a Bus for the device at the 7-bit address addr.
func NewI2CBus(i2c drivers.I2C, addr uint16) *I2CBus {
	return &I2CBus{i2c: i2c, addr: addr}
}

// Write sends the offset followed by data in a single transaction.
func (b *I2CBus) Write(ctx context.Context, offset uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.w = append(b.w[:0], offset)
	b.w = append(b.w, data...)
	return b.i2c.Tx(b.addr, b.w, nil)
}

// Read sends the offset and reads len(buf) bytes with a repeated start.
func (b *I2CBus) Read(ctx context.Context, offset uint8, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.w = append(b.w[:0], offset)
	return b.i2c.Tx(b.addr, b.w, buf)
}

// Compile-time interface satisfaction check.
var _ Bus = (*I2CBus)(nil)
