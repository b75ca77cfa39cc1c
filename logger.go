// FILE: logger.go
package dlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the core struct that encapsulates the queue, the flush
// scheduler, and every configured sink. Construct one explicitly and pass
// it by reference; a guarded process-wide instance lives in default.go.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	queue *messageQueue

	// serializer and dedupe are only touched by the thread holding the
	// drain guard.
	serializer *serializer
	dedupe     *dedupeCache
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{
		queue: newMessageQueue(),
	}

	// Set default configuration
	l.currentConfig.Store(DefaultConfig())

	// Initialize the state
	l.state.IsInitialized.Store(false)
	l.state.Started.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.FileDisabled.Store(false)
	l.state.FileFaultLogged.Store(false)
	l.state.ProcessorExited.Store(true)
	l.state.CurrentDay.Store(time.Time{})
	l.state.LastArchiveScan.Store(time.Time{})
	l.state.StartTime.Store(time.Now())

	l.serializer = newSerializer(defaultConfig.TimestampFormat)
	l.dedupe = newDedupeCache(int(defaultConfig.DedupeCacheSize))

	return l
}

// ApplyConfig applies a validated configuration to the logger
// This is the primary way applications should configure the logger
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg)
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()

	// Ensure log directory exists if file output is enabled
	if cfg.EnableFile {
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
		}
	}

	wasInitialized := l.state.IsInitialized.Load()
	wasStarted := l.state.Started.Load()

	needsRestart := wasStarted && wasInitialized && configRequiresRestart(oldCfg, cfg)
	if needsRestart {
		if err := l.stop(); err != nil {
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	// The config swap and the sink transitions happen together under the
	// drain guard so an in-flight drain never pairs the new directory or
	// name with the old open file.
	l.state.drainMu.Lock()
	l.currentConfig.Store(cfg)
	l.serializer = newSerializer(cfg.TimestampFormat)
	l.dedupe = newDedupeCache(int(cfg.DedupeCacheSize))

	needsNewFile := !wasInitialized ||
		oldCfg.Directory != cfg.Directory ||
		oldCfg.Name != cfg.Name ||
		oldCfg.Extension != cfg.Extension ||
		oldCfg.RolloverMode != cfg.RolloverMode

	var sinkErr error
	if !cfg.EnableFile {
		l.closeCurrentFile()
	} else if needsNewFile || l.loadCurrentFile() == nil {
		l.closeCurrentFile()
		l.state.FileDisabled.Store(false)
		l.state.FileFaultLogged.Store(false)
		sinkErr = l.openLogFile(dayOf(time.Now()))
	}

	if sinkErr != nil && cfg.StrictInit {
		// Rollback
		l.currentConfig.Store(oldCfg)
		l.serializer = newSerializer(oldCfg.TimestampFormat)
		l.dedupe = newDedupeCache(int(oldCfg.DedupeCacheSize))
		l.state.drainMu.Unlock()
		return fmtErrorf("failed to open log file: %w", sinkErr)
	}
	l.state.drainMu.Unlock()

	if sinkErr != nil {
		// Degrade: file logging stays off for the process, one notification.
		l.disableFileLogging(sinkErr)
	}

	// Setup console writer based on config
	if cfg.EnableConsole {
		var writer io.Writer
		if cfg.ConsoleTarget == "stderr" {
			writer = os.Stderr
		} else {
			writer = os.Stdout
		}
		l.state.ConsoleWriter.Store(&sink{w: writer})
	} else {
		l.state.ConsoleWriter.Store(&sink{w: io.Discard})
	}

	// Mark as initialized
	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)

	if needsRestart {
		return l.start()
	}

	return nil
}

// Start begins log processing. Safe to call multiple times
// Returns error if logger is not initialized
func (l *Logger) Start() error {
	l.initMu.Lock()
	defer l.initMu.Unlock()
	return l.start()
}

// start is the internal implementation, assuming initMu is held. The lock
// makes the Started transition and the stop channel handoff one unit.
func (l *Logger) start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	// Check if processor didn't exit cleanly last time
	if l.state.Started.Load() && !l.state.ProcessorExited.Load() {
		// Force stop to clean up
		l.internalLog("warning - processor still running from previous start, forcing stop\n")
		if err := l.stop(); err != nil {
			return fmtErrorf("failed to stop hung processor: %w", err)
		}
	}

	// Only start if not already started
	if l.state.Started.CompareAndSwap(false, true) {
		stopChan := make(chan struct{})
		l.state.stopChan = stopChan

		l.state.ProcessorExited.Store(false)
		go l.processLogs(stopChan)
	}

	return nil
}

// Stop halts log processing. Can be restarted with Start()
// Returns nil if already stopped
func (l *Logger) Stop(timeout ...time.Duration) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()
	return l.stop(timeout...)
}

// stop is the internal implementation, assuming initMu is held.
func (l *Logger) stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	// Calculate effective timeout
	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = 2 * l.getConfig().flushInterval()
	}

	if l.state.stopChan != nil {
		close(l.state.stopChan)
		l.state.stopChan = nil
	}

	// Wait for processor to exit (with timeout)
	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			break
		}
		time.Sleep(minWaitTime)
	}

	if !l.state.ProcessorExited.Load() {
		return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}

	return nil
}

// Shutdown gracefully closes the logger, draining pending records first.
// If no timeout is provided, Config.FlushMaxWaitMs bounds the final flush.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	if !l.state.IsInitialized.Load() {
		l.state.ShutdownCalled.Store(false)
		l.state.ProcessorExited.Store(true)
		return nil
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = l.getConfig().flushMaxWait()
	}

	// Drain whatever is queued before the processor goes away. Enqueues are
	// already rejected because ShutdownCalled is set.
	flushErr := l.flush(effectiveTimeout)

	var stopErr error
	if l.state.Started.Load() {
		stopErr = l.Stop(effectiveTimeout)
	}

	l.state.IsInitialized.Store(false)

	l.state.drainMu.Lock()
	closeErr := l.closeCurrentFile()
	l.state.drainMu.Unlock()

	return combineErrors(combineErrors(flushErr, stopErr), closeErr)
}

// Flush synchronously drains the queue from the calling thread. It keeps
// attempting drains until the queue is empty or the timeout elapses; a
// concurrent drain holding the guard counts as progress.
func (l *Logger) Flush(timeout time.Duration) error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}
	return l.flush(timeout)
}

func (l *Logger) flush(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		l.tryDrain()
		if l.queue.depth() == 0 {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmtErrorf("timeout waiting for flush (%v), %d records still queued",
				timeout, l.queue.depth())
		}
		time.Sleep(minWaitTime)
	}
}

// SetListener registers an in-process callback fired for every accepted
// record during a drain cycle, including records the dedupe cache keeps out
// of the file. A nil fn removes the listener.
func (l *Logger) SetListener(fn func(Record)) {
	l.state.Listener.Store(fn)
}

// Debug logs a message at debug level
func (l *Logger) Debug(text string) {
	l.log(LevelDebug, 0, false, text)
}

// Info logs a message at info level
func (l *Logger) Info(text string) {
	l.log(LevelInfo, 0, false, text)
}

// Warn logs a message at warning level
func (l *Logger) Warn(text string) {
	l.log(LevelWarn, 0, false, text)
}

// Error logs a message at error level with optional detail values appended
// below the record's line
func (l *Logger) Error(text string, detail ...any) {
	l.log(LevelError, 0, false, text, detail...)
}

// Fatal logs a message at the highest severity. It does not terminate the
// process; callers decide what a fatal condition means for them.
func (l *Logger) Fatal(text string, detail ...any) {
	l.log(LevelFatal, 0, false, text, detail...)
}

// DebugEvery logs at debug level at most once per holdoff window for a
// given message text
func (l *Logger) DebugEvery(holdoff time.Duration, text string) {
	l.log(LevelDebug, holdoff, false, text)
}

// InfoEvery logs at info level at most once per holdoff window
func (l *Logger) InfoEvery(holdoff time.Duration, text string) {
	l.log(LevelInfo, holdoff, false, text)
}

// WarnEvery logs at warning level at most once per holdoff window
func (l *Logger) WarnEvery(holdoff time.Duration, text string) {
	l.log(LevelWarn, holdoff, false, text)
}

// ErrorEvery logs at error level at most once per holdoff window
func (l *Logger) ErrorEvery(holdoff time.Duration, text string) {
	l.log(LevelError, holdoff, false, text)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// loadCurrentFile returns the open file handle, or nil.
func (l *Logger) loadCurrentFile() *os.File {
	cfPtr := l.state.CurrentFile.Load()
	if cfPtr == nil {
		return nil
	}
	f, _ := cfPtr.(*os.File)
	return f
}

// closeCurrentFile syncs and closes the open log file, if any.
// Caller must hold the drain guard.
func (l *Logger) closeCurrentFile() error {
	f := l.loadCurrentFile()
	if f == nil {
		return nil
	}
	var finalErr error
	if err := f.Sync(); err != nil {
		finalErr = fmtErrorf("failed to sync log file '%s': %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s': %w", f.Name(), err))
	}
	l.state.CurrentFile.Store((*os.File)(nil))
	l.state.CurrentDay.Store(time.Time{})
	return finalErr
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "dlog: " prefix
	if !hasPrefixDlog(format) {
		format = "dlog: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}

func hasPrefixDlog(s string) bool {
	return len(s) >= 6 && s[:6] == "dlog: "
}
