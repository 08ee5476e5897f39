// Package health turns queue statistics into a three-state health report.
//
// The states are:
//   - Healthy: the queue has headroom and has never overflowed
//   - Degraded: the queue is nearly full or has lost items to its overflow policy
//   - Unhealthy: a large share of pushes keep finding the queue full
//
// CheckQueue evaluates one queue against Thresholds and attaches the numbers
// it used as Metrics. Aggregate rolls several statuses into one.
//
//	st := health.CheckQueue("ingest", q, health.DefaultThresholds())
//	if !st.IsHealthy() {
//		logger.Warn("Queue health", "status", st.Status, "message", st.Message)
//	}
package health
