// FILE: metrics.go
package dlog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// collector exposes the engine's counters to Prometheus without requiring
// the engine itself to know about registration.
type collector struct {
	l *Logger

	enqueued     *prometheus.Desc
	written      *prometheus.Desc
	deduped      *prometheus.Desc
	rotations    *prometheus.Desc
	archived     *prometheus.Desc
	remoteWrites *prometheus.Desc
	remoteFailed *prometheus.Desc
	dropped      *prometheus.Desc
	queueDepth   *prometheus.Desc
	fileDisabled *prometheus.Desc
}

// Collector returns a prometheus.Collector over the logger's counters.
// Register it with any registry; it reads the live atomics on scrape.
func (l *Logger) Collector() prometheus.Collector {
	return &collector{
		l: l,
		enqueued: prometheus.NewDesc("dlog_records_enqueued_total",
			"Records accepted onto the message queue.", nil, nil),
		written: prometheus.NewDesc("dlog_records_written_total",
			"Records written to the log file.", nil, nil),
		deduped: prometheus.NewDesc("dlog_records_deduplicated_total",
			"Records suppressed by the holdoff window.", nil, nil),
		rotations: prometheus.NewDesc("dlog_file_rotations_total",
			"Log file rollovers performed.", nil, nil),
		archived: prometheus.NewDesc("dlog_files_archived_total",
			"Dated files moved into year directories.", nil, nil),
		remoteWrites: prometheus.NewDesc("dlog_remote_writes_total",
			"Records delivered to the stored procedure.", nil, nil),
		remoteFailed: prometheus.NewDesc("dlog_remote_failures_total",
			"Remote deliveries that exhausted retries or failed fatally.", nil, nil),
		dropped: prometheus.NewDesc("dlog_records_dropped_total",
			"Records dropped before or after the logger lifecycle.", nil, nil),
		queueDepth: prometheus.NewDesc("dlog_queue_depth",
			"Records currently waiting in the message queue.", nil, nil),
		fileDisabled: prometheus.NewDesc("dlog_file_logging_disabled",
			"1 when file logging has been latched off for the process.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.enqueued
	ch <- c.written
	ch <- c.deduped
	ch <- c.rotations
	ch <- c.archived
	ch <- c.remoteWrites
	ch <- c.remoteFailed
	ch <- c.dropped
	ch <- c.queueDepth
	ch <- c.fileDisabled
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := &c.l.state

	ch <- prometheus.MustNewConstMetric(c.enqueued, prometheus.CounterValue, float64(s.TotalEnqueued.Load()))
	ch <- prometheus.MustNewConstMetric(c.written, prometheus.CounterValue, float64(s.TotalWritten.Load()))
	ch <- prometheus.MustNewConstMetric(c.deduped, prometheus.CounterValue, float64(s.TotalDeduped.Load()))
	ch <- prometheus.MustNewConstMetric(c.rotations, prometheus.CounterValue, float64(s.TotalRotations.Load()))
	ch <- prometheus.MustNewConstMetric(c.archived, prometheus.CounterValue, float64(s.TotalArchived.Load()))
	ch <- prometheus.MustNewConstMetric(c.remoteWrites, prometheus.CounterValue, float64(s.TotalRemoteWrites.Load()))
	ch <- prometheus.MustNewConstMetric(c.remoteFailed, prometheus.CounterValue, float64(s.RemoteFailures.Load()))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.DroppedRecords.Load()))
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(c.l.queue.depth()))

	disabled := 0.0
	if s.FileDisabled.Load() {
		disabled = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.fileDisabled, prometheus.GaugeValue, disabled)
}
