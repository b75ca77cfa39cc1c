// FILE: processor.go
package dlog

import (
	"time"
)

// processLogs is the flush scheduler loop running in a separate goroutine.
// Each tick is a drain attempt; the non-blocking drain guard coalesces
// bursts into whichever drain is already in flight.
func (l *Logger) processLogs(stopChan <-chan struct{}) {
	l.state.ProcessorExited.Store(false)      // Mark processor as running
	defer l.state.ProcessorExited.Store(true) // Ensure flag is set on exit

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	// Archive anything left over from previous runs before regular ticking.
	l.maybeArchive()

	for {
		select {
		case <-stopChan:
			// Final pass so records enqueued just before Stop still land.
			l.tryDrain()
			return

		case <-timers.flushTicker.C:
			l.tryDrain()

		case <-timers.archiveTicker.C:
			l.maybeArchive()

		case <-timers.heartbeatChan:
			l.logHeartbeat()
		}
	}
}

// setupProcessingTimers creates and configures all necessary timers for the processor
func (l *Logger) setupProcessingTimers() *TimerSet {
	timers := &TimerSet{}

	c := l.getConfig()

	timers.flushTicker = time.NewTicker(c.flushInterval())
	timers.archiveTicker = time.NewTicker(archiveTickInterval)
	timers.heartbeatChan = l.setupHeartbeatTimer(timers)

	return timers
}

// closeProcessingTimers stops all active timers
func (l *Logger) closeProcessingTimers(timers *TimerSet) {
	timers.flushTicker.Stop()
	if timers.archiveTicker != nil {
		timers.archiveTicker.Stop()
	}
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// setupHeartbeatTimer configures the heartbeat timer if enabled
func (l *Logger) setupHeartbeatTimer(timers *TimerSet) <-chan time.Time {
	c := l.getConfig()
	if c.HeartbeatIntervalS > 0 {
		timers.heartbeatTicker = time.NewTicker(time.Duration(c.HeartbeatIntervalS) * time.Second)
		return timers.heartbeatTicker.C
	}
	return nil
}

// tryDrain attempts to become the sole drainer. If another drain is in
// flight the attempt is a no-op and tryDrain returns false; that drain will
// pick up anything queued in the meantime. On success the queue is drained
// to empty, each record fully delivered before the next is touched.
func (l *Logger) tryDrain() bool {
	if !l.state.drainMu.TryLock() {
		return false
	}
	defer l.state.drainMu.Unlock()

	for {
		batch := l.queue.drainBatch()
		if len(batch) == 0 {
			return true
		}
		for _, record := range batch {
			l.deliver(record)
		}
	}
}

// deliver routes one dequeued record to every configured sink. Delivery is
// at-most-once: a failing sink does not put the record back on the queue.
// Caller must hold the drain guard.
func (l *Logger) deliver(r Record) {
	// The listener fires for every accepted record, including ones the
	// dedupe cache keeps out of the file.
	l.notifyListener(r)

	line := l.serializer.line(r)

	if cw, ok := l.state.ConsoleWriter.Load().(*sink); ok && cw != nil {
		_, _ = cw.w.Write(line)
	}

	l.writeFileRecord(r, line)
	l.writeRemoteRecord(r)
}
