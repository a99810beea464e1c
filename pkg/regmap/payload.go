package regmap

import (
	"fmt"
	"time"
)

// Payload is a view of register bytes tagged with their contents kind.
// Data always holds exactly Contents.Size() bytes and aliases the buffer it
// was built from; it is never copied.
type Payload struct {
	Contents Contents
	Data     []byte
}

// FromSlice returns a payload viewing the first c.Size() bytes of buf.
// It fails with ErrShortBuffer if buf holds fewer bytes than c requires.
func FromSlice(c Contents, buf []byte) (Payload, error) {
	n := c.Size()
	if len(buf) < n {
		return Payload{}, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrShortBuffer, c, n, len(buf))
	}
	return Payload{Contents: c, Data: buf[:n:n]}, nil
}

// IntoSlice writes the little-endian representation of v into the first
// c.Size() bytes of buf and returns a payload viewing them. Frequency is
// written as v over a denominator of 1. TimeOfDay cannot be encoded and
// returns ErrDecodeOnly without touching buf.
//
// buf must hold at least c.Size() bytes; a shorter buffer is a caller bug
// and panics.
func IntoSlice(c Contents, v uint64, buf []byte) (Payload, error) {
	n := c.Size()
	if c == TimeOfDay {
		return Payload{}, fmt.Errorf("%w: %s", ErrDecodeOnly, c)
	}
	if len(buf) < n {
		panic(fmt.Sprintf("regmap: IntoSlice %s needs %d bytes, have %d", c, n, len(buf)))
	}

	switch c {
	case Byte, Word, Word24, Word32, Word40, Word48:
		putLittleEndian(buf[:n], v)
	case Frequency:
		putLittleEndian(buf[0:6], v)
		putLittleEndian(buf[6:8], 1)
	default:
		panic(fmt.Sprintf("regmap: unknown contents kind %d", uint8(c)))
	}

	return Payload{Contents: c, Data: buf[:n:n]}, nil
}

// Value returns the semantic value of the payload.
//
// Plain integer kinds decode as little-endian. Frequency decodes to the
// numerator divided by the denominator, or the numerator alone when the
// denominator is zero. TimeOfDay decodes to whole seconds since the epoch;
// the sub-second bytes are ignored.
func (p Payload) Value() uint64 {
	switch p.Contents {
	case Byte, Word, Word24, Word32, Word40, Word48:
		return littleEndian(p.Data)
	case Frequency:
		m, n := p.ratio()
		if n == 0 {
			return m
		}
		return m / n
	case TimeOfDay:
		return littleEndian(p.Data[5:11])
	default:
		panic(fmt.Sprintf("regmap: unknown contents kind %d", uint8(p.Contents)))
	}
}

// Ratio returns the numerator and denominator of a Frequency payload.
// ok is false for any other kind.
func (p Payload) Ratio() (m, n uint64, ok bool) {
	if p.Contents != Frequency {
		return 0, 0, false
	}
	m, n = p.ratio()
	return m, n, true
}

func (p Payload) ratio() (m, n uint64) {
	return littleEndian(p.Data[0:6]), littleEndian(p.Data[6:8])
}

// Time returns the timestamp held by a TimeOfDay payload in UTC. Bytes 1-4
// carry nanoseconds and are applied when they are below one second; byte 0
// is sub-nanosecond and dropped. ok is false for any other kind.
func (p Payload) Time() (t time.Time, ok bool) {
	if p.Contents != TimeOfDay {
		return time.Time{}, false
	}
	secs := int64(p.Value())
	nanos := int64(littleEndian(p.Data[1:5]))
	if nanos >= int64(time.Second) {
		nanos = 0
	}
	return time.Unix(secs, nanos).UTC(), true
}

// String returns the kind and value, e.g. "Word24(0xce01de)".
func (p Payload) String() string {
	if p.Contents == TimeOfDay {
		t, _ := p.Time()
		return fmt.Sprintf("%s(%s)", p.Contents, t.Format(time.RFC3339Nano))
	}
	return fmt.Sprintf("%s(%#x)", p.Contents, p.Value())
}

// littleEndian accumulates b into a 64-bit value, least significant byte
// first. It panics if a byte would be shifted beyond the accumulator.
func littleEndian(b []byte) uint64 {
	var v uint64
	for i, x := range b {
		shift := uint(i) * 8
		if shift >= 64 {
			panic(fmt.Sprintf("regmap: %d-byte field overflows 64-bit accumulator", len(b)))
		}
		v |= uint64(x) << shift
	}
	return v
}

// putLittleEndian stores the low len(b) bytes of v into b. Bits above
// len(b)*8 are dropped.
func putLittleEndian(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v >> (uint(i) * 8))
	}
}
