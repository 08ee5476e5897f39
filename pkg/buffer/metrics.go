package buffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/limitedqueue/metric"
)

// bufferMetrics holds Prometheus metrics for buffer operations.
type bufferMetrics struct {
	registry *metric.MetricsRegistry
	prefix   string
	keys     []string // registry keys in registration order, for unregister

	pushes    prometheus.Counter
	pops      prometheus.Counter
	peeks     prometheus.Counter
	overflows prometheus.Counter
	evictions prometheus.Counter

	size        prometheus.Gauge
	utilization prometheus.Gauge
}

func newBufferCounter(prefix, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "limitedqueue",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	})
}

func newBufferGauge(prefix, name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "limitedqueue",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	})
}

// newBufferMetrics creates and registers buffer metrics with the provided registry.
// On failure every metric registered so far is removed again.
func newBufferMetrics(registry *metric.MetricsRegistry, prefix string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		registry:    registry,
		prefix:      prefix,
		pushes:      newBufferCounter(prefix, "pushes_total", "Total number of successful buffer pushes"),
		pops:        newBufferCounter(prefix, "pops_total", "Total number of items popped from the buffer"),
		peeks:       newBufferCounter(prefix, "peeks_total", "Total number of buffer front accesses"),
		overflows:   newBufferCounter(prefix, "overflows_total", "Total number of pushes that found the buffer full"),
		evictions:   newBufferCounter(prefix, "evictions_total", "Total number of items evicted by the EvictOldest policy"),
		size:        newBufferGauge(prefix, "size", "Current number of items in buffer"),
		utilization: newBufferGauge(prefix, "utilization", "Buffer utilization as a fraction (0.0 to 1.0)"),
	}

	counters := []struct {
		key string
		c   prometheus.Counter
	}{
		{"buffer_pushes", m.pushes},
		{"buffer_pops", m.pops},
		{"buffer_peeks", m.peeks},
		{"buffer_overflows", m.overflows},
		{"buffer_evictions", m.evictions},
	}
	for _, c := range counters {
		if err := registry.RegisterCounter(prefix, c.key, c.c); err != nil {
			m.unregister()
			return nil, err
		}
		m.keys = append(m.keys, c.key)
	}

	gauges := []struct {
		key string
		g   prometheus.Gauge
	}{
		{"buffer_size", m.size},
		{"buffer_utilization", m.utilization},
	}
	for _, g := range gauges {
		if err := registry.RegisterGauge(prefix, g.key, g.g); err != nil {
			m.unregister()
			return nil, err
		}
		m.keys = append(m.keys, g.key)
	}

	return m, nil
}

// unregister removes every metric this instance registered.
func (m *bufferMetrics) unregister() {
	for _, key := range m.keys {
		m.registry.Unregister(m.prefix, key)
	}
	m.keys = nil
}

// recordPush increments the push counter and updates size/utilization.
func (m *bufferMetrics) recordPush(size, capacity int) {
	m.pushes.Inc()
	m.updateSize(size, capacity)
}

// recordPop increments the pop counter and updates size/utilization.
func (m *bufferMetrics) recordPop(size, capacity int) {
	m.recordPops(1, size, capacity)
}

// recordPops adds n popped items and updates size/utilization.
func (m *bufferMetrics) recordPops(n, size, capacity int) {
	m.pops.Add(float64(n))
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordPeek() {
	m.peeks.Inc()
}

func (m *bufferMetrics) recordOverflow() {
	m.overflows.Inc()
}

func (m *bufferMetrics) recordEviction() {
	m.evictions.Inc()
}

// updateSize sets the current buffer size and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
}
