package observability

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names recorded by perfboard.
const (
	MetricOperationTotal    = "perfboard.operation.total"
	MetricOperationDuration = "perfboard.operation.duration"
	MetricOperationErrors   = "perfboard.operation.errors"

	MetricTasksCreated       = "perfboard.tasks.created"
	MetricTasksStatusChanged = "perfboard.tasks.status_changed"
	MetricTasksReassigned    = "perfboard.tasks.reassigned"

	MetricUsersCreated           = "perfboard.users.created"
	MetricUsersActivationChanged = "perfboard.users.activation_changed"

	MetricScoringRuns     = "perfboard.scoring.runs"
	MetricScoringDuration = "perfboard.scoring.duration"
	MetricSubjectsRanked  = "perfboard.scoring.subjects_ranked"

	MetricOutboxPublished    = "perfboard.outbox.published"
	MetricOutboxFailed       = "perfboard.outbox.failed"
	MetricOutboxDeadLettered = "perfboard.outbox.dead_lettered"
	MetricOutboxLagSeconds   = "perfboard.outbox.lag_seconds"

	MetricEventsPublished = "perfboard.events.published"
	MetricBreakerState    = "perfboard.publisher.breaker_state"
)

// Metrics is the sink command handlers, scoring queries and the outbox relay
// report to.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric series.
type Tag struct {
	Key   string
	Value string
}

// T is shorthand for Tag{Key: key, Value: value}.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Histogram(string, float64, ...Tag)    {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps every series in memory. Tests use it to assert on
// what a handler recorded; tag order does not matter for lookups.
type InMemoryMetrics struct {
	mu         sync.RWMutex
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
	timings    map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	m := &InMemoryMetrics{}
	m.Reset()
	return m
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	m.counters[seriesKey(name, tags)] += value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	m.gauges[seriesKey(name, tags)] = value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	k := seriesKey(name, tags)
	m.mu.Lock()
	m.histograms[k] = append(m.histograms[k], value)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	k := seriesKey(name, tags)
	m.mu.Lock()
	m.timings[k] = append(m.timings[k], duration)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.histograms[seriesKey(name, tags)]...)
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Duration(nil), m.timings[seriesKey(name, tags)]...)
}

// Reset drops all recorded series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = map[string]int64{}
	m.gauges = map[string]float64{}
	m.histograms = map[string][]float64{}
	m.timings = map[string][]time.Duration{}
}

// seriesKey renders name{k1=v1,k2=v2} with tags sorted by key.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}
