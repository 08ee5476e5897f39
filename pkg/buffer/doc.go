// Package buffer provides a fixed-capacity FIFO ring buffer with a configurable
// overflow policy, always-on statistics, and optional Prometheus metrics.
//
// # Quick Start
//
//	q, err := buffer.NewRingBuffer[int](3)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, _, err = q.PushBack(1)
//	v, err := q.PopFront()
//
// Pre-filled, evicting, with metrics:
//
//	q, err := buffer.NewRingBufferFrom[string](3, []string{"a", "b", "c"},
//		buffer.WithOverflowPolicy[string](buffer.EvictOldest),
//		buffer.WithMetrics[string](registry, "ingest"),
//	)
//	old, evicted, err := q.PushBack("d") // old == "a", evicted == true
//
// # Overflow Policies
//
//   - Reject: PushBack on a full buffer returns an error wrapping ErrOverflow and
//     leaves the buffer untouched (default).
//   - EvictOldest: PushBack on a full buffer removes the oldest item, returns it
//     to the caller, and then inserts. The eviction is never silent: it is in the
//     return values, in Statistics, in the metrics, and in the drop callback.
//
// # Storage Layout
//
// A buffer of capacity N owns N+1 slots and two cursors. start is the oldest live
// item and end is the next free slot. One slot always stays unused, so
//
//	empty  <=>  start == end
//	full   <=>  (end+1) mod (N+1) == start
//	size    =   (end-start) mod (N+1)
//
// Every push, pop and peek is O(1). PopFront and evictions zero the vacated slot,
// so the buffer keeps no reference to an item it handed out.
//
// # Errors
//
// ErrOverflow and ErrUnderflow are wrapped as transient: the same call can succeed
// after the buffer changes. ErrInvalidCapacity, ErrInvalidInitializer and
// ErrStaleReference are wrapped as invalid. Match them with errors.Is:
//
//	if _, _, err := q.PushBack(v); errors.Is(err, buffer.ErrOverflow) {
//		// drop v, or pop and retry
//	}
//
// # Front Access
//
// Front returns a copy. FrontRef returns a Ref for in-place access to the front slot.
// A Ref is only valid until the next PushBack, PopFront, PopBatch or Clear; after
// that its methods return ErrStaleReference instead of touching storage that may
// now hold a different item.
//
// # Concurrency
//
// RingBuffer does no locking. It is meant to have exactly one owner at a time;
// wrap it in a mutex or hand it through a channel if several goroutines need it.
package buffer
