// FILE: override.go
package dlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := dlog.NewLogger()
//	err := logger.ApplyOverride(
//	    "directory=/var/log/app",
//	    "level=-4",
//	    "rollover_mode=fixed",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return l.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("dlog: multiple configuration errors:")
	for i, err := range errs {
		errMsg := err.Error()
		// Remove "dlog: " prefix from individual errors to avoid duplication
		if strings.HasPrefix(errMsg, "dlog: ") {
			errMsg = errMsg[6:]
		}
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		// Special handling: accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Level = numVal
		} else {
			// Try parsing as named level
			levelVal, err := Level(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = levelVal
		}
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "extension":
		cfg.Extension = value
	case "rollover_mode":
		cfg.RolloverMode = value
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "console_target":
		cfg.ConsoleTarget = value

	// Integer settings
	case "retention_count":
		return setInt64Field(&cfg.RetentionCount, key, value)
	case "flush_interval_ms":
		return setInt64Field(&cfg.FlushIntervalMs, key, value)
	case "flush_max_wait_ms":
		return setInt64Field(&cfg.FlushMaxWaitMs, key, value)
	case "dedupe_cache_size":
		return setInt64Field(&cfg.DedupeCacheSize, key, value)
	case "archive_after_days":
		return setInt64Field(&cfg.ArchiveAfterDays, key, value)
	case "heartbeat_interval_s":
		return setInt64Field(&cfg.HeartbeatIntervalS, key, value)

	// Float settings
	case "archive_check_hrs":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("invalid float value for %s '%s': %w", key, value, err)
		}
		cfg.ArchiveCheckHrs = floatVal

	// Boolean settings
	case "enable_file":
		return setBoolField(&cfg.EnableFile, key, value)
	case "enable_console":
		return setBoolField(&cfg.EnableConsole, key, value)
	case "strict_init":
		return setBoolField(&cfg.StrictInit, key, value)
	case "internal_errors_to_stderr":
		return setBoolField(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown config key: %s", key)
	}
	return nil
}

func setInt64Field(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

func setBoolField(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}

// configRequiresRestart reports whether a config change needs the processor
// goroutine to be restarted to take effect.
func configRequiresRestart(oldCfg, newCfg *Config) bool {
	return oldCfg.FlushIntervalMs != newCfg.FlushIntervalMs ||
		oldCfg.HeartbeatIntervalS != newCfg.HeartbeatIntervalS ||
		oldCfg.ArchiveCheckHrs != newCfg.ArchiveCheckHrs
}
