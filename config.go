// FILE: config.go
package dlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level     int64  `toml:"level"`
	Name      string `toml:"name"` // Base name for log files
	Directory string `toml:"directory"`
	Extension string `toml:"extension"`

	// File sink behavior
	RolloverMode    string `toml:"rollover_mode"`    // "dated" or "fixed"
	RetentionCount  int64  `toml:"retention_count"`  // Rolled .1..N files kept in fixed mode
	TimestampFormat string `toml:"timestamp_format"` // Time format for the Date column

	// Queue and flush timing
	FlushIntervalMs int64 `toml:"flush_interval_ms"` // Drain attempt interval
	FlushMaxWaitMs  int64 `toml:"flush_max_wait_ms"` // Bound on the shutdown flush

	// De-duplication
	DedupeCacheSize int64 `toml:"dedupe_cache_size"` // Max (level, text) entries tracked

	// Archival
	ArchiveAfterDays int64   `toml:"archive_after_days"` // Age before a dated file is archived
	ArchiveCheckHrs  float64 `toml:"archive_check_hrs"`  // Min hours between directory scans

	// Heartbeat
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // 0 disables the stats heartbeat

	// Output targets
	EnableFile    bool   `toml:"enable_file"`
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// Failure handling
	StrictInit             bool `toml:"strict_init"`               // Fail ApplyConfig when the sink cannot be opened
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:     LevelInfo,
	Name:      "app",
	Directory: "./logs",
	Extension: "txt",

	// File sink behavior
	RolloverMode:    RolloverDated,
	RetentionCount:  5,
	TimestampFormat: "2006-01-02 15:04:05.000",

	// Queue and flush timing
	FlushIntervalMs: 300,
	FlushMaxWaitMs:  5000,

	// De-duplication
	DedupeCacheSize: 4096,

	// Archival
	ArchiveAfterDays: 30,
	ArchiveCheckHrs:  24.0,

	// Heartbeat
	HeartbeatIntervalS: 0,

	// Output targets
	EnableFile:    true,
	EnableConsole: false,
	ConsoleTarget: "stdout",

	// Failure handling
	StrictInit:             false,
	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	// Validate the loaded configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	// Apply overrides using reflection
	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	// Validate the configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		// Get value from loader
		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		// Set the field value with type conversion
		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	// Create a map of field names to field values for efficient lookup
	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		floatVal, ok := value.(float64)
		if !ok {
			return fmt.Errorf("expected float64, got %T", value)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// String validations
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if c.RolloverMode != RolloverDated && c.RolloverMode != RolloverFixed {
		return fmtErrorf("invalid rollover_mode: '%s' (use dated or fixed)", c.RolloverMode)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	// Numeric validations
	if c.RetentionCount < 1 {
		return fmtErrorf("retention_count must be at least 1: %d", c.RetentionCount)
	}

	if c.FlushIntervalMs <= 0 || c.FlushMaxWaitMs <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	if c.DedupeCacheSize <= 0 {
		return fmtErrorf("dedupe_cache_size must be positive: %d", c.DedupeCacheSize)
	}

	if c.ArchiveAfterDays < 0 || c.ArchiveCheckHrs < 0 {
		return fmtErrorf("archive settings cannot be negative")
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// flushInterval returns the drain attempt interval as a duration.
func (c *Config) flushInterval() time.Duration {
	ms := c.FlushIntervalMs
	if ms <= 0 {
		ms = defaultConfig.FlushIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// flushMaxWait returns the bound on the shutdown flush as a duration.
func (c *Config) flushMaxWait() time.Duration {
	ms := c.FlushMaxWaitMs
	if ms <= 0 {
		ms = defaultConfig.FlushMaxWaitMs
	}
	return time.Duration(ms) * time.Millisecond
}
