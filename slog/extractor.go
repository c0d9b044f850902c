package slog

import (
	"log/slog"
	"time"

	"github.com/ehviewer/ehparse"
)

// Ensure LoggingExtractor implements ehparse.Extractor.
var _ ehparse.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   ehparse.Extractor
	kind   ehparse.Kind
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next ehparse.Extractor, kind ehparse.Kind, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, kind: kind, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(doc *ehparse.Document) (v any, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"kind", e.kind,
			"code", ehparse.ErrorCode(err),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(doc)
}
