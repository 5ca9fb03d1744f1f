package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSubject is the standardized structured logging key for subject identifiers.
	FieldSubject = "subject"
	// FieldPerformance is the standardized structured logging key for performance names.
	FieldPerformance = "performance"
	// FieldCamera is the standardized structured logging key for camera identifiers.
	FieldCamera = "camera"
	// FieldModality is the standardized structured logging key for stream modality names.
	FieldModality = "modality"
	// FieldRunID is the standardized structured logging key for run correlation identifiers.
	FieldRunID = "run_id"
)

// Error wraps an error for structured logging, tolerating nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// WithComponent creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

// WithUnit augments a logger with the identity of a capture unit.
func WithUnit(logger *slog.Logger, subject, performance string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(
		slog.String(FieldSubject, subject),
		slog.String(FieldPerformance, performance),
	)
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }
