// FILE: state.go
package dlog

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	Started         atomic.Bool
	ShutdownCalled  atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the processor goroutine is running or has exited

	// FileDisabled is latched when the file cannot be opened or written;
	// file logging stays off for the remainder of the process.
	FileDisabled    atomic.Bool
	FileFaultLogged atomic.Bool

	// drainMu is the non-blocking drain guard. Whichever thread holds it owns
	// every piece of sink state below until it releases the guard.
	drainMu sync.Mutex

	CurrentFile atomic.Value // stores *os.File
	CurrentDay  atomic.Value // stores time.Time, local midnight of the open file's day

	LastArchiveScan atomic.Value // stores time.Time

	ConsoleWriter atomic.Value // stores *sink
	Listener      atomic.Value // stores func(Record)
	Remote        atomic.Value // stores *remoteSink

	stopChan chan struct{} // closed by Stop to end the processor; guarded by initMu

	// Counters reported by the heartbeat and the metrics collector
	StartTime         atomic.Value // stores time.Time
	TotalEnqueued     atomic.Uint64
	TotalWritten      atomic.Uint64
	TotalDeduped      atomic.Uint64
	TotalRotations    atomic.Uint64
	TotalArchived     atomic.Uint64
	TotalRemoteWrites atomic.Uint64
	RemoteFailures    atomic.Uint64
	DroppedRecords    atomic.Uint64
}
