package log

import (
	"time"
)

// Event represents one register access captured by a device accessor.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the accessor that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates whether the device was read or written.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Access     *AccessEvent     `cbor:"5,keyasint,omitempty"`
	PageSelect *PageSelectEvent `cbor:"6,keyasint,omitempty"`
	Error      *ErrorEventData  `cbor:"7,keyasint,omitempty"`
}

// Direction indicates the direction of a register transfer.
type Direction uint8

const (
	// DirectionRead indicates bytes read from the device.
	DirectionRead Direction = 0
	// DirectionWrite indicates bytes written to the device.
	DirectionWrite Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "READ"
	case DirectionWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection returns the direction with the given name.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "READ", "read", "r":
		return DirectionRead, true
	case "WRITE", "write", "w":
		return DirectionWrite, true
	default:
		return 0, false
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryAccess indicates a register data transfer.
	CategoryAccess Category = 0
	// CategoryPageSelect indicates a write to the page-select registers.
	CategoryPageSelect Category = 1
	// CategoryError indicates a failed transfer.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAccess:
		return "ACCESS"
	case CategoryPageSelect:
		return "PAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "ACCESS", "access":
		return CategoryAccess, true
	case "PAGE", "page":
		return CategoryPageSelect, true
	case "ERROR", "error":
		return CategoryError, true
	default:
		return 0, false
	}
}

// AccessEvent captures the bytes of one register transfer.
type AccessEvent struct {
	// Address is the absolute address of the first byte.
	Address uint16 `cbor:"1,keyasint"`

	// Register is the qualified register name, e.g. "DPLL_3.DPLL_MODE".
	// Empty for raw transfers that do not start at a known register.
	Register string `cbor:"2,keyasint,omitempty"`

	// Contents is the register contents kind name.
	Contents string `cbor:"3,keyasint,omitempty"`

	// Data is the bytes transferred.
	Data []byte `cbor:"4,keyasint,omitempty"`

	// Value is the decoded register value, when the transfer covered a
	// whole register.
	Value *uint64 `cbor:"5,keyasint,omitempty"`
}

// PageSelectEvent captures the page-select write preceding a transfer.
type PageSelectEvent struct {
	// Page is the selected page, the high byte of the address.
	Page uint8 `cbor:"1,keyasint"`

	// Register is the in-page offset the select bytes were written to.
	Register uint8 `cbor:"2,keyasint"`

	// Data is the select bytes.
	Data []byte `cbor:"3,keyasint"`
}

// ErrorEventData captures a failed transfer.
type ErrorEventData struct {
	// Address is the absolute address of the transfer.
	Address uint16 `cbor:"1,keyasint"`

	// Register is the qualified register name, if known.
	Register string `cbor:"2,keyasint,omitempty"`

	// Message is the error message.
	Message string `cbor:"3,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}

// RegisterName returns the register named by the event payload, if any.
func (e *Event) RegisterName() string {
	switch {
	case e.Access != nil:
		return e.Access.Register
	case e.Error != nil:
		return e.Error.Register
	default:
		return ""
	}
}
