// FILE: record.go
package dlog

import (
	"time"
)

// log builds a record at the call site and enqueues it. The severity
// threshold is applied here so suppressed levels never reach the queue.
// Enqueue never blocks the producer.
func (l *Logger) log(level int64, holdoff time.Duration, skipRemote bool, text string, detail ...any) {
	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		l.state.DroppedRecords.Add(1)
		return
	}

	cfg := l.getConfig()
	if level < cfg.Level {
		return
	}

	now := time.Now()
	record := Record{
		Level:      level,
		Local:      now,
		UTC:        now.UTC(),
		Text:       text,
		Detail:     renderDetail(cfg.TimestampFormat, detail),
		Holdoff:    holdoff,
		skipRemote: skipRemote,
	}

	l.queue.push(record)
	l.state.TotalEnqueued.Add(1)
}

// notifyListener fires the in-process listener callback for a record.
// Listener panics are swallowed so a faulty callback cannot take the drain
// cycle down with it.
func (l *Logger) notifyListener(r Record) {
	fnVal := l.state.Listener.Load()
	if fnVal == nil {
		return
	}
	fn, ok := fnVal.(func(Record))
	if !ok || fn == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			l.internalLog("listener panicked: %v\n", rec)
		}
	}()
	fn(r)
}
