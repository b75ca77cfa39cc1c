// FILE: type.go
package dlog

import (
	"io"
	"time"
)

// Record is a single log entry. It is created at the call site, enqueued
// once, consumed by exactly one drain cycle, then discarded.
type Record struct {
	Level   int64
	Local   time.Time
	UTC     time.Time
	Text    string
	Detail  string        // optional multi-line detail, already rendered
	Holdoff time.Duration // dedupe window; 0 disables deduplication

	// skipRemote marks the engine's own fault reports so they never re-enter
	// the remote sink and amplify a failing database.
	skipRemote bool
}

// TimerSet holds all timers used in processLogs
type TimerSet struct {
	flushTicker     *time.Ticker
	archiveTicker   *time.Ticker
	heartbeatTicker *time.Ticker
	heartbeatChan   <-chan time.Time
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}
