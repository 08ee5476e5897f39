package health

import (
	"fmt"

	"github.com/c360/limitedqueue/pkg/buffer"
)

// Thresholds decide when a queue stops being healthy.
type Thresholds struct {
	// DegradedUtilization is the fill fraction at or above which a queue is degraded.
	DegradedUtilization float64
	// UnhealthyOverflowRate is the share of push attempts finding the queue
	// full at or above which it is unhealthy.
	UnhealthyOverflowRate float64
}

// DefaultThresholds returns 90% utilization for degraded and a 50% overflow
// rate for unhealthy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DegradedUtilization:   0.9,
		UnhealthyOverflowRate: 0.5,
	}
}

// QueueView is the part of a queue CheckQueue reads.
type QueueView interface {
	Size() int
	Capacity() int
	Stats() *buffer.Statistics
}

// CheckQueue derives a Status from the queue's fill level and overflow history.
// A queue whose producers keep hitting the capacity is unhealthy. One that is
// nearly full, or has lost items to overflow, is degraded.
func CheckQueue(name string, q QueueView, th Thresholds) Status {
	stats := q.Stats()
	capacity := q.Capacity()
	size := q.Size()

	metrics := &Metrics{
		Uptime:       stats.Uptime(),
		Size:         int64(size),
		Capacity:     capacity,
		Pushes:       stats.Pushes(),
		Rejections:   stats.Rejections(),
		Evictions:    stats.Evictions(),
		OverflowRate: stats.OverflowRate(),
	}
	if capacity > 0 {
		metrics.Utilization = float64(size) / float64(capacity)
	}

	var status Status
	switch {
	case metrics.OverflowRate >= th.UnhealthyOverflowRate && metrics.OverflowRate > 0:
		status = NewUnhealthy(name, fmt.Sprintf("%.0f%% of pushes found the queue full", metrics.OverflowRate*100))
	case metrics.Utilization >= th.DegradedUtilization:
		status = NewDegraded(name, fmt.Sprintf("queue at %d of %d items", size, capacity))
	case metrics.Rejections > 0 || metrics.Evictions > 0:
		status = NewDegraded(name, fmt.Sprintf("%d items rejected, %d evicted", metrics.Rejections, metrics.Evictions))
	default:
		status = NewHealthy(name, "queue has headroom")
	}
	return status.WithMetrics(metrics)
}
