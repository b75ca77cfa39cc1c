// FILE: builder.go
package dlog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	// Create a new logger.
	logger := NewLogger()

	// Apply the built configuration. ApplyConfig handles all initialization and validation.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Level sets the log level threshold.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level threshold from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Name sets the base file name.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// RolloverMode selects dated or fixed file rollover.
func (b *Builder) RolloverMode(mode string) *Builder {
	b.cfg.RolloverMode = mode
	return b
}

// RetentionCount sets how many rolled files fixed mode keeps.
func (b *Builder) RetentionCount(n int64) *Builder {
	b.cfg.RetentionCount = n
	return b
}

// FlushIntervalMs sets the drain attempt interval.
func (b *Builder) FlushIntervalMs(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// ArchiveAfterDays sets the age at which dated files are archived.
func (b *Builder) ArchiveAfterDays(days int64) *Builder {
	b.cfg.ArchiveAfterDays = days
	return b
}

// EnableConsole enables mirroring records to stdout/stderr.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// EnableFile toggles file output.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// StrictInit makes Build fail when the sink cannot be opened instead of
// degrading to console-only operation.
func (b *Builder) StrictInit(strict bool) *Builder {
	b.cfg.StrictInit = strict
	return b
}

// HeartbeatIntervalS sets the stats heartbeat interval.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Example usage:
// logger, err := dlog.NewBuilder().
//
//	Directory("/var/log/app").
//	LevelString("debug").
//	RolloverMode("fixed").
//	RetentionCount(3).
//	EnableConsole(true).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
