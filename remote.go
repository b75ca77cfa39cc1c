// FILE: remote.go
package dlog

import (
	"strings"
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/arkelic/dlog/retry"
)

// procCaller is the slice of the retry executor the remote sink drives.
// Satisfied by *retry.Executor.
type procCaller interface {
	CallProc(db *gorm.DB, procedure string, args ...any) retry.Result
	Policy() retry.Policy
}

// remoteSink delivers drained records to a stored procedure through the
// retry executor. The procedure takes (date, type, message, detail) plus
// the reserved trailing status output parameter.
type remoteSink struct {
	db       *gorm.DB
	proc     string
	exec     procCaller
	disabled atomic.Bool
}

// AttachRemote enables remote delivery of every drained record to the
// named stored procedure. Can be called before or after Start, from any
// thread. The file sink keeps functioning independently of remote health.
func (l *Logger) AttachRemote(db *gorm.DB, procedure string, policy retry.Policy) error {
	if db == nil {
		return fmtErrorf("remote sink requires a database handle")
	}
	if strings.TrimSpace(procedure) == "" {
		return fmtErrorf("remote sink requires a procedure name")
	}

	exec := retry.New(policy, retry.WithLogger(remoteFaultLogger{l: l}))
	l.state.Remote.Store(&remoteSink{db: db, proc: procedure, exec: exec})
	return nil
}

// DetachRemote stops remote delivery. Records already dequeued may still
// complete their in-flight call.
func (l *Logger) DetachRemote() {
	l.state.Remote.Store((*remoteSink)(nil))
}

// writeRemoteRecord sends one record to the stored procedure. A fatal
// classification (procedure missing) latches the remote sink off for the
// process; transient exhaustion only counts a failure, the next record
// gets a fresh retry sequence. Caller must hold the drain guard.
func (l *Logger) writeRemoteRecord(r Record) {
	rs, _ := l.state.Remote.Load().(*remoteSink)
	if rs == nil || rs.disabled.Load() || r.skipRemote {
		return
	}

	cfg := l.getConfig()
	res := rs.exec.CallProc(rs.db, rs.proc,
		r.Local.Format(cfg.TimestampFormat),
		levelToString(r.Level),
		r.Text,
		r.Detail,
	)

	switch res.Outcome {
	case retry.OutcomeSuccess:
		l.state.TotalRemoteWrites.Add(1)
	case retry.OutcomeFatal:
		rs.disabled.Store(true)
		l.state.RemoteFailures.Add(1)
		l.internalLog("remote logging disabled, procedure '%s' unavailable: %v\n", rs.proc, res.Err)
	default:
		l.state.RemoteFailures.Add(1)
	}
}

// remoteFaultLogger routes the executor's final-failure reports back into
// the logging core, flagged to stay out of the remote sink.
type remoteFaultLogger struct {
	l *Logger
}

func (r remoteFaultLogger) Error(text string, detail ...any) {
	r.l.log(LevelError, 0, true, text, detail...)
}
