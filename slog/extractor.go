package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
)

// Ensure LoggingIPOExtractor implements offerdoc.IPOExtractor.
var _ offerdoc.IPOExtractor = (*LoggingIPOExtractor)(nil)

// LoggingIPOExtractor wraps an IPOExtractor with logging.
type LoggingIPOExtractor struct {
	next   offerdoc.IPOExtractor
	logger *slog.Logger
}

// NewLoggingIPOExtractor creates a new LoggingIPOExtractor.
func NewLoggingIPOExtractor(next offerdoc.IPOExtractor, logger *slog.Logger) *LoggingIPOExtractor {
	return &LoggingIPOExtractor{next: next, logger: logger}
}

// ExtractIPO delegates to the wrapped extractor and logs the record name.
func (e *LoggingIPOExtractor) ExtractIPO(html, sourceURL string) (ipo *offerdoc.IPO, err error) {
	defer func(begin time.Time) {
		var name string
		if ipo != nil {
			name = ipo.Name
		}
		e.logger.Log(context.Background(), level(err), "extract ipo",
			"url", sourceURL,
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractIPO(html, sourceURL)
}

// Ensure LoggingNCDExtractor implements offerdoc.NCDExtractor.
var _ offerdoc.NCDExtractor = (*LoggingNCDExtractor)(nil)

// LoggingNCDExtractor wraps an NCDExtractor with logging.
type LoggingNCDExtractor struct {
	next   offerdoc.NCDExtractor
	logger *slog.Logger
}

// NewLoggingNCDExtractor creates a new LoggingNCDExtractor.
func NewLoggingNCDExtractor(next offerdoc.NCDExtractor, logger *slog.Logger) *LoggingNCDExtractor {
	return &LoggingNCDExtractor{next: next, logger: logger}
}

// ExtractNCD delegates to the wrapped extractor and logs the issue name.
func (e *LoggingNCDExtractor) ExtractNCD(html, sourceURL string) (ncd *offerdoc.NCD, err error) {
	defer func(begin time.Time) {
		var name string
		if ncd != nil {
			name = ncd.IssueName
		}
		e.logger.Log(context.Background(), level(err), "extract ncd",
			"url", sourceURL,
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractNCD(html, sourceURL)
}
