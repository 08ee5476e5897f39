// Package metric wraps a private Prometheus registry with per-component bookkeeping.
//
// Components register their collectors under a "component.metric" key so that the
// same component can later remove exactly what it added:
//
//	registry := metric.NewMetricsRegistry()
//	q, err := buffer.NewRingBuffer[int](64,
//		buffer.WithMetrics[int](registry, "ingest"),
//	)
//	// ...
//	_ = q.Close() // unregisters the ingest buffer metrics
//
// Registering the same key twice returns an invalid-class error wrapping
// errors.ErrAlreadyRegistered. WriteText dumps all gathered families in the
// Prometheus text exposition format.
package metric
