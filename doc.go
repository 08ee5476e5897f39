// Package limitedqueue provides a fixed-capacity FIFO queue with a
// configurable overflow policy, plus the plumbing to run it as an
// instrumented component.
//
// # Layout
//
//	pkg/buffer    ring buffer, overflow policies, statistics, metrics hooks
//	errors        classified errors (transient, invalid, fatal)
//	metric        Prometheus registry wrapper with duplicate detection
//	config        JSON configuration loading and validation
//	health        queue health derived from utilization and overflow history
//	cmd/limitedqueue  demonstration driver
//
// # Overflow
//
// A queue of capacity N holds at most N items. Pushing into a full queue
// either fails with buffer.ErrOverflow (Reject) or drops the oldest item
// and returns it to the caller (EvictOldest). Popping or peeking an empty
// queue fails with buffer.ErrUnderflow. Neither failure changes the queue.
//
// # Quick Start
//
//	q, err := buffer.NewRingBufferFrom(3, []int{1, 2, 3},
//		buffer.WithOverflowPolicy[int](buffer.EvictOldest),
//	)
//	if err != nil {
//		return err
//	}
//	evicted, ok, _ := q.PushBack(4) // evicted == 1, ok == true
//
// Queues are not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
package limitedqueue
