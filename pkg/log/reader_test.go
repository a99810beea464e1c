package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestTraceFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ctrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func testEvents(base time.Time) []Event {
	return []Event{
		{
			Timestamp:  base,
			SessionID:  "a",
			Direction:  DirectionWrite,
			Category:   CategoryPageSelect,
			PageSelect: &PageSelectEvent{Page: 0xc4, Register: 0xfd, Data: []byte{0xc4}},
		},
		{
			Timestamp: base.Add(time.Millisecond),
			SessionID: "a",
			Direction: DirectionRead,
			Category:  CategoryAccess,
			Access:    &AccessEvent{Address: 0xc4b7, Register: "DPLL_3.DPLL_MODE", Data: []byte{0x01}},
		},
		{
			Timestamp: base.Add(2 * time.Millisecond),
			SessionID: "b",
			Direction: DirectionWrite,
			Category:  CategoryAccess,
			Access:    &AccessEvent{Address: 0xcf50, Register: "SCRATCH.SCRATCH0", Data: []byte{1, 2, 3, 4}},
		},
		{
			Timestamp: base.Add(3 * time.Millisecond),
			SessionID: "b",
			Direction: DirectionRead,
			Category:  CategoryError,
			Error:     &ErrorEventData{Address: 0xcf50, Register: "SCRATCH.SCRATCH0", Message: "nack"},
		},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	path := createTestTraceFile(t, testEvents(base))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 4 {
		t.Fatalf("got %d events, want 4", len(read))
	}
	if read[1].Access == nil || read[1].Access.Register != "DPLL_3.DPLL_MODE" {
		t.Errorf("event 1 = %+v", read[1])
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	path := createTestTraceFile(t, testEvents(base))

	read := DirectionRead
	access := CategoryAccess
	page := uint8(0xcf)
	start := base.Add(time.Millisecond)
	end := base.Add(3 * time.Millisecond)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"none", Filter{}, 4},
		{"session", Filter{SessionID: "b"}, 2},
		{"direction", Filter{Direction: &read}, 2},
		{"category", Filter{Category: &access}, 2},
		{"qualified register", Filter{Register: "SCRATCH.SCRATCH0"}, 2},
		{"bare register", Filter{Register: "DPLL_MODE"}, 1},
		{"partial register name", Filter{Register: "MODE"}, 0},
		{"page", Filter{Page: &page}, 2},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{Direction: &read, Category: &access}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			events, err := reader.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.ctrace")); err == nil {
		t.Error("NewReader succeeded on a missing file")
	}
}
