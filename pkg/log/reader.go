package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for selecting trace events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// SessionID filters by exact session ID.
	SessionID string

	// Direction filters by transfer direction.
	Direction *Direction

	// Category filters by event category.
	Category *Category

	// Register filters by qualified register name ("DPLL_3.DPLL_MODE") or
	// bare register name ("DPLL_MODE").
	Register string

	// Page filters by the page of the transfer address.
	Page *uint8

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.SessionID != "" && event.SessionID != f.SessionID {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.Register != "" && !matchRegister(event.RegisterName(), f.Register) {
		return false
	}
	if f.Page != nil {
		page, ok := eventPage(event)
		if !ok || page != *f.Page {
			return false
		}
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

func matchRegister(name, want string) bool {
	if name == want {
		return true
	}
	// "MODULE_i.REG" matches a bare "REG".
	n := len(name) - len(want)
	return n > 0 && name[n-1] == '.' && name[n:] == want
}

func eventPage(event Event) (uint8, bool) {
	switch {
	case event.Access != nil:
		return uint8(event.Access.Address >> 8), true
	case event.PageSelect != nil:
		return event.PageSelect.Page, true
	case event.Error != nil:
		return uint8(event.Error.Address >> 8), true
	default:
		return 0, false
	}
}

// Reader reads trace events from a CBOR stream, one at a time.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader over every event in the trace file at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader over the events in the trace file at
// path that match filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader creates a Reader over the events in r that match filter.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{
		decoder: NewDecoder(r),
		filter:  filter,
	}
}

// Next returns the next event that matches the filter.
// Returns io.EOF when no more events are available.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// ReadAll returns every remaining matching event.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

// Close closes the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
