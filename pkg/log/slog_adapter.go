package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.Access != nil:
		attrs = append(attrs,
			slog.String("addr", fmt.Sprintf("0x%04x", event.Access.Address)),
			slog.String("data", fmt.Sprintf("% x", event.Access.Data)),
		)
		if event.Access.Register != "" {
			attrs = append(attrs, slog.String("register", event.Access.Register))
		}
		if event.Access.Contents != "" {
			attrs = append(attrs, slog.String("contents", event.Access.Contents))
		}
		if event.Access.Value != nil {
			attrs = append(attrs, slog.Uint64("value", *event.Access.Value))
		}
	case event.PageSelect != nil:
		attrs = append(attrs,
			slog.String("page", fmt.Sprintf("0x%02x", event.PageSelect.Page)),
			slog.String("select", fmt.Sprintf("0x%02x", event.PageSelect.Register)),
			slog.String("data", fmt.Sprintf("% x", event.PageSelect.Data)),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("addr", fmt.Sprintf("0x%04x", event.Error.Address)),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Register != "" {
			attrs = append(attrs, slog.String("register", event.Error.Register))
		}
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "register", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
