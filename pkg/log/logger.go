package log

// Logger receives register access events.
// Pass nil or NoopLogger to disable tracing.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and should
	// return quickly; Log runs inline with the bus transfer.
	Log(event Event)
}

// NoopLogger discards all events. It is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
