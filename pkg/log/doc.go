// Package log provides register access tracing.
//
// A device accessor reports every page-select write, register transfer and
// failed transfer as an Event. Tracing is separate from operational logging
// (slog): it is a complete, machine-readable record of what was sent to and
// read from the part.
//
// # Basic Usage
//
// Accessors take a Logger:
//
//	// Console
//	opts.Logger = log.NewSlogAdapter(slog.Default())
//
//	// Binary trace file
//	opts.Logger, _ = log.NewFileLogger("/var/tmp/cmx.ctrace")
//
//	// Both
//	opts.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys,
// conventionally with a .ctrace extension. Use Reader with a Filter to
// read them back, or the cmx-regs trace command.
package log
