package slog

import (
	"log/slog"
	"time"

	"github.com/ehviewer/ehparse"
)

// Ensure LoggingDecoder implements ehparse.Decoder.
var _ ehparse.Decoder = (*LoggingDecoder)(nil)

// LoggingDecoder wraps a Decoder with debug logging.
type LoggingDecoder struct {
	next   ehparse.Decoder
	logger *slog.Logger
}

// NewLoggingDecoder creates a new LoggingDecoder.
func NewLoggingDecoder(next ehparse.Decoder, logger *slog.Logger) *LoggingDecoder {
	return &LoggingDecoder{next: next, logger: logger}
}

// Decode delegates to the wrapped decoder and logs the input size and node count.
func (d *LoggingDecoder) Decode(input []byte) (doc *ehparse.Document, err error) {
	defer func(begin time.Time) {
		nodes := 0
		if doc != nil {
			nodes = doc.Tree.Len()
		}
		d.logger.Debug("decode",
			"bytes", len(input),
			"nodes", nodes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Decode(input)
}
