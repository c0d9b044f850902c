package slog

import (
	"log/slog"

	"github.com/ehviewer/ehparse"
)

// Ensure LoggingRegistry implements ehparse.ExtractorRegistry.
var _ ehparse.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry so every extractor it hands out
// logs its calls.
type LoggingRegistry struct {
	next   ehparse.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next ehparse.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Get returns the wrapped registry's extractor for kind, decorated with
// logging. Returns nil if the wrapped registry has none.
func (r *LoggingRegistry) Get(kind ehparse.Kind) ehparse.Extractor {
	ex := r.next.Get(kind)
	if ex == nil {
		return nil
	}
	return NewLoggingExtractor(ex, kind, r.logger)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(kind ehparse.Kind, extractor ehparse.Extractor) {
	r.next.Register(kind, extractor)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []ehparse.Kind {
	return r.next.List()
}
