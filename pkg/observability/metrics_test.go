package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.Counter(MetricTasksCreated, 1)
		m.Gauge(MetricOutboxLagSeconds, 2.5)
		m.Histogram(MetricSubjectsRanked, 17)
		m.Timing(MetricScoringDuration, time.Millisecond)
	})
}

func TestInMemoryMetrics_Counter(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricTasksCreated, 1, T("severity", "High"))
	m.Counter(MetricTasksCreated, 2, T("severity", "High"))
	m.Counter(MetricTasksCreated, 1, T("severity", "Low"))

	assert.Equal(t, int64(3), m.GetCounter(MetricTasksCreated, T("severity", "High")))
	assert.Equal(t, int64(1), m.GetCounter(MetricTasksCreated, T("severity", "Low")))
	assert.Zero(t, m.GetCounter(MetricTasksCreated))
}

func TestInMemoryMetrics_TagOrderIgnored(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricScoringRuns, 1, T("kind", "employee"), T("department", "Sales"))

	assert.Equal(t, int64(1), m.GetCounter(MetricScoringRuns, T("department", "Sales"), T("kind", "employee")))
}

func TestInMemoryMetrics_GaugeHistogramTiming(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Gauge(MetricOutboxLagSeconds, 1.5)
	m.Gauge(MetricOutboxLagSeconds, 0.5)
	m.Histogram(MetricSubjectsRanked, 17)
	m.Histogram(MetricSubjectsRanked, 8)
	m.Timing(MetricScoringDuration, 3*time.Millisecond)

	assert.Equal(t, 0.5, m.GetGauge(MetricOutboxLagSeconds))
	assert.Equal(t, []float64{17, 8}, m.GetHistogram(MetricSubjectsRanked))
	assert.Equal(t, []time.Duration{3 * time.Millisecond}, m.GetTimings(MetricScoringDuration))
}

func TestInMemoryMetrics_Reset(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Counter(MetricUsersCreated, 1)
	m.Histogram(MetricSubjectsRanked, 3)

	m.Reset()

	assert.Zero(t, m.GetCounter(MetricUsersCreated))
	assert.Empty(t, m.GetHistogram(MetricSubjectsRanked))
}

func TestInMemoryMetrics_Concurrent(t *testing.T) {
	m := NewInMemoryMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Counter(MetricOutboxPublished, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.GetCounter(MetricOutboxPublished))
}

func TestSeriesKey(t *testing.T) {
	assert.Equal(t, "perfboard.scoring.runs", seriesKey(MetricScoringRuns, nil))
	assert.Equal(t,
		"perfboard.scoring.runs{department=Sales,kind=employee}",
		seriesKey(MetricScoringRuns, []Tag{T("kind", "employee"), T("department", "Sales")}),
	)
}
