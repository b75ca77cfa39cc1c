// FILE: constant.go
package dlog

import (
	"time"
)

// Severity level constants, ordered by importance.
const (
	// LevelSuppress is a threshold sentinel only: setting Config.Level to it
	// disables filtering so every record is emitted. It is never a record level.
	LevelSuppress int64 = -8

	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
	LevelFatal int64 = 12
)

// Rollover modes for the file sink.
const (
	// RolloverDated writes to <name>_<MM-dd-yyyy>.<ext>; a new calendar day
	// starts a new file with no cap on the number of dated files.
	RolloverDated = "dated"
	// RolloverFixed writes to a constant <name>.<ext>; a file left over from a
	// prior day is shifted through numeric suffixes .1 .. .N before reopening.
	RolloverFixed = "fixed"
)

// File format
const (
	// datedFileLayout is the date stamp carried in dated-mode file names.
	datedFileLayout = "01-02-2006"
	// fileHeader is written once when a log file is created.
	fileHeader = "Date\tType\tMessage\n"
	// detailIndent prefixes every line of a record's detail block.
	detailIndent = "\t"
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// archiveTickInterval is how often the processor re-evaluates whether a
	// directory archive scan is due; the scan itself runs at most once per
	// Config.ArchiveCheckHrs.
	archiveTickInterval = time.Hour
)

// Dedupe cache eviction target: on overflow the cache is trimmed back to
// this many tenths of its configured capacity.
const dedupeEvictTenths = 9
