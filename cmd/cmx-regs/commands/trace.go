package commands

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/log"
)

// TraceOptions configures the trace command.
type TraceOptions struct {
	Direction string
	Category  string
	Register  string
	Session   string
	Page      string
	TimeStart string
	TimeEnd   string
	File      string
}

// RunTrace prints the events of a register trace file.
func RunTrace(args []string, stdout, stderr io.Writer) int {
	opts, err := parseTraceArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.File == "" {
		fmt.Fprintln(stderr, "Error: trace file path required")
		return exitCommandError
	}

	filter, err := opts.filter()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	reader, err := log.NewFilteredReader(opts.File, filter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: reading event %d: %v\n", count+1, err)
			return exitCommandError
		}
		formatEvent(stdout, event)
		count++
	}
	fmt.Fprintf(stdout, "%d events\n", count)
	return exitSuccess
}

func (o TraceOptions) filter() (log.Filter, error) {
	f := log.Filter{
		SessionID: o.Session,
		Register:  o.Register,
	}
	if o.Direction != "" {
		d, ok := log.ParseDirection(o.Direction)
		if !ok {
			return f, fmt.Errorf("invalid direction %q (use read or write)", o.Direction)
		}
		f.Direction = &d
	}
	if o.Category != "" {
		c, ok := log.ParseCategory(o.Category)
		if !ok {
			return f, fmt.Errorf("invalid category %q (use access, page or error)", o.Category)
		}
		f.Category = &c
	}
	if o.Page != "" {
		p, err := parseAddress(o.Page)
		if err != nil || p > 0xff {
			return f, fmt.Errorf("invalid page %q", o.Page)
		}
		page := uint8(p)
		f.Page = &page
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return f, fmt.Errorf("invalid time-start: %w", err)
		}
		f.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return f, fmt.Errorf("invalid time-end: %w", err)
		}
		f.TimeEnd = &t
	}
	return f, nil
}

// formatEvent writes one event as a single line.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [%s] %-5s %-6s ", ts, shortenSessionID(event.SessionID),
		event.Direction, event.Category)

	switch {
	case event.Access != nil:
		a := event.Access
		name := a.Register
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "0x%04x %s [% x]", a.Address, name, a.Data)
		if a.Value != nil {
			fmt.Fprintf(w, " = %#x (%s)", *a.Value, a.Contents)
		}
	case event.PageSelect != nil:
		fmt.Fprintf(w, "page 0x%02x: 0x%02x <- [% x]", event.PageSelect.Page,
			event.PageSelect.Register, event.PageSelect.Data)
	case event.Error != nil:
		fmt.Fprintf(w, "0x%04x %s: %s: %s", event.Error.Address, event.Error.Register,
			event.Error.Context, event.Error.Message)
	}
	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func parseTraceArgs(args []string) (TraceOptions, error) {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	opts := TraceOptions{}

	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (read, write)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (access, page, error)")
	fs.StringVar(&opts.Register, "register", "", "Filter by register name")
	fs.StringVar(&opts.Session, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Page, "page", "", "Filter by page (e.g. 0xc1)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.File = fs.Arg(0)
	return opts, nil
}
