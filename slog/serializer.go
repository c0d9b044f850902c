package slog

import (
	"log/slog"
	"time"

	"github.com/ehviewer/ehparse"
)

// Ensure LoggingSerializer implements ehparse.Serializer.
var _ ehparse.Serializer = (*LoggingSerializer)(nil)

// LoggingSerializer wraps a Serializer with debug logging.
type LoggingSerializer struct {
	next   ehparse.Serializer
	logger *slog.Logger
}

// NewLoggingSerializer creates a new LoggingSerializer.
func NewLoggingSerializer(next ehparse.Serializer, logger *slog.Logger) *LoggingSerializer {
	return &LoggingSerializer{next: next, logger: logger}
}

// Serialize delegates to the wrapped serializer and logs the written size
// against the capacity.
func (s *LoggingSerializer) Serialize(v any, dst []byte) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("serialize",
			"bytes", n,
			"capacity", len(dst),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Serialize(v, dst)
}
