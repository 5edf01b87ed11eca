// Package log provides structured logging for deck audits.
//
// The package wraps log/slog with a handler that truncates oversized
// attribute values. Audit code routinely logs slide HTML fragments and
// CSS literals for context; without a cap a single debug line can carry
// tens of kilobytes of markup and make log output unusable.
package log
