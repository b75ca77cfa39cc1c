// FILE: compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/arkelic/dlog"
)

// FastHTTPAdapter wraps a dlog.Logger to implement fasthttp's Logger interface
type FastHTTPAdapter struct {
	logger        *dlog.Logger
	defaultLevel  int64
	levelDetector func(string) int64 // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *dlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  dlog.LevelInfo,
		levelDetector: DetectLogLevel, // Default level detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the default log level for Printf calls
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	// Detect log level from message content
	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != 0 {
			level = detected
		}
	}

	switch level {
	case dlog.LevelDebug:
		a.logger.Debug(msg)
	case dlog.LevelWarn:
		a.logger.Warn(msg)
	case dlog.LevelError:
		a.logger.Error(msg)
	default:
		a.logger.Info(msg)
	}
}

// DetectLogLevel inspects a message for conventional level markers.
// Returns 0 when nothing is recognized, which maps to the default level.
func DetectLogLevel(msg string) int64 {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "fail"):
		return dlog.LevelError
	case strings.Contains(lower, "warn"):
		return dlog.LevelWarn
	case strings.Contains(lower, "debug"):
		return dlog.LevelDebug
	default:
		return 0
	}
}
