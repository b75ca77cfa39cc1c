// FILE: default.go
package dlog

import (
	"time"
)

// Global instance for package-level functions
var defaultLogger = NewLogger()

// Default package-level functions that delegate to the default logger

// Init applies the configuration to the default logger and starts it.
// This is the one guarded entry point for processes that want a single
// process-wide instance instead of passing a Logger around.
func Init(cfg *Config) error {
	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// InitWithDefaults initializes the default logger with built-in defaults
// and optional "key=value" overrides, then starts it
func InitWithDefaults(overrides ...string) error {
	if err := defaultLogger.ApplyOverride(overrides...); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// Shutdown gracefully closes the default logger, draining pending records
func Shutdown(timeout ...time.Duration) error {
	return defaultLogger.Shutdown(timeout...)
}

// Flush synchronously drains the default logger's queue
func Flush(timeout time.Duration) error {
	return defaultLogger.Flush(timeout)
}

// Debug logs a message at debug level
func Debug(text string) {
	defaultLogger.Debug(text)
}

// Info logs a message at info level
func Info(text string) {
	defaultLogger.Info(text)
}

// Warn logs a message at warning level
func Warn(text string) {
	defaultLogger.Warn(text)
}

// Error logs a message at error level
func Error(text string, detail ...any) {
	defaultLogger.Error(text, detail...)
}

// Fatal logs a message at the highest severity
func Fatal(text string, detail ...any) {
	defaultLogger.Fatal(text, detail...)
}

// DebugEvery logs at debug level at most once per holdoff window
func DebugEvery(holdoff time.Duration, text string) {
	defaultLogger.DebugEvery(holdoff, text)
}

// InfoEvery logs at info level at most once per holdoff window
func InfoEvery(holdoff time.Duration, text string) {
	defaultLogger.InfoEvery(holdoff, text)
}

// WarnEvery logs at warning level at most once per holdoff window
func WarnEvery(holdoff time.Duration, text string) {
	defaultLogger.WarnEvery(holdoff, text)
}

// ErrorEvery logs at error level at most once per holdoff window
func ErrorEvery(holdoff time.Duration, text string) {
	defaultLogger.ErrorEvery(holdoff, text)
}
