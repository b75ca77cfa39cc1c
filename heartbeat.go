// FILE: heartbeat.go
package dlog

import (
	"fmt"
	"time"
)

// logHeartbeat enqueues a periodic engine statistics record. Heartbeats are
// flagged to skip the remote sink so a failing database cannot feed on its
// own status reports.
func (l *Logger) logHeartbeat() {
	if l.state.ShutdownCalled.Load() {
		return
	}

	var uptimeHours float64
	if startTime, ok := l.state.StartTime.Load().(time.Time); ok && !startTime.IsZero() {
		uptimeHours = time.Since(startTime).Hours()
	}

	text := fmt.Sprintf(
		"heartbeat uptime_hrs=%.2f queued=%d enqueued=%d written=%d deduplicated=%d rotations=%d archived=%d remote_writes=%d remote_failures=%d dropped=%d",
		uptimeHours,
		l.queue.depth(),
		l.state.TotalEnqueued.Load(),
		l.state.TotalWritten.Load(),
		l.state.TotalDeduped.Load(),
		l.state.TotalRotations.Load(),
		l.state.TotalArchived.Load(),
		l.state.TotalRemoteWrites.Load(),
		l.state.RemoteFailures.Load(),
		l.state.DroppedRecords.Load(),
	)

	l.log(LevelInfo, 0, true, text)
}
