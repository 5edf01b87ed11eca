package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxAttrLen is the maximum length of a string attribute value
// before truncation. Slide fragments and injected CSS blocks exceed
// this easily; everything we actually want to read in a log line fits.
const DefaultMaxAttrLen = 256

// TruncationMarker is appended to truncated attribute values so a
// reader can tell a shortened fragment from a complete one.
const TruncationMarker = "...[truncated]"

// TruncateHandler is a slog.Handler wrapper that caps the length of
// string attribute values before delegating to the underlying handler.
//
// Design decision: we wrap an existing handler rather than implement
// formatting ourselves. This works with any output format (text, JSON)
// and keeps the truncation policy in one place instead of scattering
// string caps across every call site that logs markup.
type TruncateHandler struct {
	handler slog.Handler
	maxLen  int
}

// NewTruncateHandler creates a handler that truncates string attributes
// longer than maxLen runes. A maxLen of zero or less uses
// DefaultMaxAttrLen.
func NewTruncateHandler(handler slog.Handler, maxLen int) *TruncateHandler {
	if maxLen <= 0 {
		maxLen = DefaultMaxAttrLen
	}
	return &TruncateHandler{
		handler: handler,
		maxLen:  maxLen,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle truncates oversized attribute values and passes the record on.
func (h *TruncateHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(h.truncateAttr(attr))
		return true
	})

	return h.handler.Handle(ctx, newRecord)
}

// WithAttrs returns a new handler with the given attributes truncated
// and added.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	truncated := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		truncated = append(truncated, h.truncateAttr(attr))
	}

	return &TruncateHandler{
		handler: h.handler.WithAttrs(truncated),
		maxLen:  h.maxLen,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{
		handler: h.handler.WithGroup(name),
		maxLen:  h.maxLen,
	}
}

// truncateAttr caps string attribute values, recursing into groups.
func (h *TruncateHandler) truncateAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		value := attr.Value.String()
		if utf8.RuneCountInString(value) > h.maxLen {
			return slog.String(attr.Key, h.truncateString(value))
		}
	case slog.KindGroup:
		groupAttrs := attr.Value.Group()
		truncated := make([]any, 0, len(groupAttrs))
		for _, groupAttr := range groupAttrs {
			truncated = append(truncated, h.truncateAttr(groupAttr))
		}
		return slog.Group(attr.Key, truncated...)
	}
	return attr
}

// truncateString cuts value to maxLen runes and appends the marker with
// the original length, so a reader knows how much was dropped.
func (h *TruncateHandler) truncateString(value string) string {
	runes := []rune(value)
	return fmt.Sprintf("%s%s(%d chars)", string(runes[:h.maxLen]), TruncationMarker, len(runes))
}

// NewLogger creates a text logger with attribute truncation.
// When verbose is true, debug-level messages are included.
// Otherwise, only warnings and errors are logged.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTruncateHandler(handler, DefaultMaxAttrLen))
}

// NewJSONLogger creates a JSON logger with attribute truncation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTruncateHandler(handler, DefaultMaxAttrLen))
}
