// FILE: queue.go
package dlog

import (
	"sync"
)

// messageQueue is the unbounded multi-producer record queue shared by every
// caller in the process. push never blocks; records are removed in batches
// by whichever thread holds the drain guard.
type messageQueue struct {
	mu      sync.Mutex
	records []Record
}

func newMessageQueue() *messageQueue {
	return &messageQueue{
		records: make([]Record, 0, 64),
	}
}

// push appends a record. O(1) amortized, safe from any number of producers.
func (q *messageQueue) push(r Record) {
	q.mu.Lock()
	q.records = append(q.records, r)
	q.mu.Unlock()
}

// drainBatch removes and returns every queued record. Records pushed by one
// producer keep their enqueue order inside the returned batch.
func (q *messageQueue) drainBatch() []Record {
	q.mu.Lock()
	if len(q.records) == 0 {
		q.mu.Unlock()
		return nil
	}
	batch := q.records
	q.records = make([]Record, 0, 64)
	q.mu.Unlock()
	return batch
}

// depth returns the number of queued records.
func (q *messageQueue) depth() int {
	q.mu.Lock()
	n := len(q.records)
	q.mu.Unlock()
	return n
}
