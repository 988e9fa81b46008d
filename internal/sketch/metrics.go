package sketch

import (
	"sync/atomic"
	"time"
)

// Metrics tracks tick and event counters for a sketch.
type Metrics struct {
	tickCount   atomic.Uint64
	tickTotalNs atomic.Int64
	tickMinNs   atomic.Int64
	tickMaxNs   atomic.Int64
	lastTickNs  atomic.Int64

	eventCount   atomic.Uint64
	droppedCount atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.tickMinNs.Store(1<<63 - 1)
	return m
}

// RecordTick records the duration of one tick.
func (m *Metrics) RecordTick(d time.Duration) {
	ns := d.Nanoseconds()

	m.tickCount.Add(1)
	m.tickTotalNs.Add(ns)
	m.lastTickNs.Store(ns)

	for {
		old := m.tickMinNs.Load()
		if ns >= old || m.tickMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.tickMaxNs.Load()
		if ns <= old || m.tickMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent records one drained event.
func (m *Metrics) RecordEvent() {
	m.eventCount.Add(1)
}

// RecordDropped records an event discarded after exit or as a key repeat.
func (m *Metrics) RecordDropped() {
	m.droppedCount.Add(1)
}

// Snapshot returns a point-in-time copy.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.tickCount.Load()

	var avg int64
	if count > 0 {
		avg = m.tickTotalNs.Load() / int64(count)
	}
	minNs := m.tickMinNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		TickCount:     count,
		AvgTickNs:     avg,
		MinTickNs:     minNs,
		MaxTickNs:     m.tickMaxNs.Load(),
		LastTickNs:    m.lastTickNs.Load(),
		EventCount:    m.eventCount.Load(),
		DroppedEvents: m.droppedCount.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of Metrics. HookFailures and
// FrameRate are filled in by Sketch.Metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	TickCount     uint64
	AvgTickNs     int64
	MinTickNs     int64
	MaxTickNs     int64
	LastTickNs    int64
	EventCount    uint64
	DroppedEvents uint64
	HookFailures  uint64
	FrameRate     float64
}

// Busy returns the share of wall time spent inside ticks, assuming ticks
// were evenly spread over the uptime.
func (s MetricsSnapshot) Busy() float64 {
	if s.Uptime <= 0 {
		return 0
	}
	return float64(s.AvgTickNs) * float64(s.TickCount) / float64(s.Uptime.Nanoseconds())
}
