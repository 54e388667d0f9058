package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts what the engine did with utterances.
type Metrics struct {
	utterances atomic.Uint64
	executed   atomic.Uint64
	noActions  atomic.Uint64
	failures   atomic.Uint64
	reloads    atomic.Uint64

	execCount   atomic.Uint64
	execTotalNs atomic.Int64
	execMaxNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordUtterance counts a received utterance.
func (m *Metrics) RecordUtterance() {
	m.utterances.Add(1)
}

// RecordNoAction counts an utterance that compiled to no key-steps.
func (m *Metrics) RecordNoAction() {
	m.noActions.Add(1)
}

// RecordFailure counts an utterance whose execution failed.
func (m *Metrics) RecordFailure() {
	m.failures.Add(1)
}

// RecordReload counts a keyword reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// RecordExecution counts an executed sequence and how long pressing it took.
func (m *Metrics) RecordExecution(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.executed.Add(1)
	m.execCount.Add(1)
	m.execTotalNs.Add(ns)

	for {
		old := m.execMaxNs.Load()
		if ns <= old {
			break
		}
		if m.execMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.execCount.Load()
	var avg time.Duration
	if count > 0 {
		avg = time.Duration(m.execTotalNs.Load() / int64(count))
	}

	return MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		Utterances:  m.utterances.Load(),
		Executed:    m.executed.Load(),
		NoActions:   m.noActions.Load(),
		Failures:    m.failures.Load(),
		Reloads:     m.reloads.Load(),
		AvgExecTime: avg,
		MaxExecTime: time.Duration(m.execMaxNs.Load()),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	Utterances  uint64
	Executed    uint64
	NoActions   uint64
	Failures    uint64
	Reloads     uint64
	AvgExecTime time.Duration
	MaxExecTime time.Duration
}

// String renders the snapshot on one line for the shutdown log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("uptime=%s utterances=%d executed=%d no_action=%d failed=%d reloads=%d avg_exec=%s max_exec=%s",
		s.Uptime.Round(time.Second), s.Utterances, s.Executed, s.NoActions, s.Failures, s.Reloads,
		s.AvgExecTime.Round(time.Millisecond), s.MaxExecTime.Round(time.Millisecond))
}
