package buffer

import (
	"fmt"
	"log/slog"

	"github.com/c360/limitedqueue/errors"
)

// RingBuffer is a bounded FIFO over capacity+1 slots. One slot is always left
// unused so that start == end means empty and end+1 == start (mod slots) means
// full, without a separate counter.
//
// RingBuffer is not safe for concurrent use. Callers sharing it across
// goroutines must provide their own mutual exclusion.
type RingBuffer[T any] struct {
	slots    []T
	start    int // oldest live item, meaningful only when non-empty
	end      int // next insertion slot
	capacity int

	// generation changes on every mutation; Ref uses it to detect staleness
	generation uint64

	stats   *Statistics    // ALWAYS initialized for observability
	metrics *bufferMetrics // Optional Prometheus metrics
	opts    *bufferOptions[T]
}

func newRingBuffer[T any](method string, capacity int, initial []T, opts *bufferOptions[T]) (*RingBuffer[T], error) {
	if capacity < 1 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("capacity %d: %w", capacity, ErrInvalidCapacity),
			"RingBuffer", method, "validate capacity")
	}

	// Checked before any allocation or registration so a failure leaves nothing behind
	if len(initial) > capacity {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%d items for capacity %d: %w", len(initial), capacity, ErrInvalidInitializer),
			"RingBuffer", method, "validate initializer")
	}

	var metrics *bufferMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.Wrap(err, "RingBuffer", method, "metrics registration")
		}
	}

	rb := &RingBuffer[T]{
		slots:    make([]T, capacity+1),
		capacity: capacity,
		stats:    NewStatistics(),
		metrics:  metrics,
		opts:     opts,
	}

	rb.end = copy(rb.slots, initial)
	rb.stats.UpdateSize(int64(rb.end))
	if rb.metrics != nil {
		rb.metrics.updateSize(rb.end, rb.capacity)
	}

	return rb, nil
}

// next advances a cursor by one slot, wrapping past the last slot to zero.
func (rb *RingBuffer[T]) next(i int) int {
	i++
	if i == len(rb.slots) {
		return 0
	}
	return i
}

// PushBack appends value at the back of the buffer.
//
// On a full buffer the overflow policy applies. Reject returns an error wrapping
// ErrOverflow and leaves the buffer unchanged. EvictOldest removes the oldest item,
// returns it with wasEvicted set, then inserts value; the eviction is also passed to
// the drop callback after the push completes.
func (rb *RingBuffer[T]) PushBack(value T) (evicted T, wasEvicted bool, err error) {
	if rb.Full() {
		rb.stats.Overflow()
		if rb.metrics != nil {
			rb.metrics.recordOverflow()
		}

		if rb.opts.overflowPolicy != EvictOldest {
			if rb.opts.logger != nil {
				rb.opts.logger.Debug("push rejected on full buffer",
					slog.Int("capacity", rb.capacity))
			}
			return evicted, false, errors.WrapTransient(ErrOverflow, "RingBuffer", "PushBack", "insert")
		}

		evicted = rb.takeFront()
		wasEvicted = true

		rb.stats.Evict()
		if rb.metrics != nil {
			rb.metrics.recordEviction()
		}
		if rb.opts.logger != nil {
			rb.opts.logger.Debug("evicted oldest item on full buffer",
				slog.Int("capacity", rb.capacity))
		}
	}

	rb.slots[rb.end] = value
	rb.end = rb.next(rb.end)
	rb.generation++

	size := rb.Size()
	rb.stats.Push()
	rb.stats.UpdateSize(int64(size))
	if rb.metrics != nil {
		rb.metrics.recordPush(size, rb.capacity)
	}

	if wasEvicted && rb.opts.dropCallback != nil {
		rb.opts.dropCallback(evicted, DropEvicted)
	}

	return evicted, wasEvicted, nil
}

// takeFront moves the oldest item out of its slot. The buffer must not be empty.
func (rb *RingBuffer[T]) takeFront() T {
	var zero T
	item := rb.slots[rb.start]
	rb.slots[rb.start] = zero // Clear for GC
	rb.start = rb.next(rb.start)
	return item
}

// PopFront removes and returns the oldest item. The buffer keeps no reference to it.
// On an empty buffer it returns an error wrapping ErrUnderflow and changes nothing.
func (rb *RingBuffer[T]) PopFront() (T, error) {
	if rb.Empty() {
		var zero T
		return zero, errors.WrapTransient(ErrUnderflow, "RingBuffer", "PopFront", "remove")
	}

	item := rb.takeFront()
	rb.generation++

	size := rb.Size()
	rb.stats.Pop()
	rb.stats.UpdateSize(int64(size))
	if rb.metrics != nil {
		rb.metrics.recordPop(size, rb.capacity)
	}

	return item, nil
}

// PopBatch removes and returns up to max items, oldest first.
// It returns nil when max is not positive or the buffer is empty.
func (rb *RingBuffer[T]) PopBatch(max int) []T {
	if max <= 0 || rb.Empty() {
		return nil
	}

	count := rb.Size()
	if count > max {
		count = max
	}

	result := make([]T, count)
	for i := range result {
		result[i] = rb.takeFront()
		rb.stats.Pop()
	}
	rb.generation++

	size := rb.Size()
	rb.stats.UpdateSize(int64(size))
	if rb.metrics != nil {
		rb.metrics.recordPops(count, size, rb.capacity)
	}

	return result
}

// Front returns a copy of the oldest item without removing it.
// On an empty buffer it returns an error wrapping ErrUnderflow.
func (rb *RingBuffer[T]) Front() (T, error) {
	if rb.Empty() {
		var zero T
		return zero, errors.WrapTransient(ErrUnderflow, "RingBuffer", "Front", "peek")
	}

	rb.recordPeek()
	return rb.slots[rb.start], nil
}

// FrontRef returns scoped access to the oldest slot for in-place reads and updates.
// The Ref is valid until the next mutating call on the buffer (PushBack, PopFront,
// PopBatch, Clear); after that every Ref method returns ErrStaleReference.
func (rb *RingBuffer[T]) FrontRef() (*Ref[T], error) {
	if rb.Empty() {
		return nil, errors.WrapTransient(ErrUnderflow, "RingBuffer", "FrontRef", "peek")
	}

	rb.recordPeek()
	return &Ref[T]{rb: rb, index: rb.start, generation: rb.generation}, nil
}

func (rb *RingBuffer[T]) recordPeek() {
	rb.stats.Peek()
	if rb.metrics != nil {
		rb.metrics.recordPeek()
	}
}

// Empty reports whether the buffer holds no items.
func (rb *RingBuffer[T]) Empty() bool {
	return rb.start == rb.end
}

// Full reports whether the buffer holds Capacity() items.
func (rb *RingBuffer[T]) Full() bool {
	return rb.next(rb.end) == rb.start
}

// Size returns the number of items held, in [0, Capacity()].
func (rb *RingBuffer[T]) Size() int {
	if rb.end >= rb.start {
		return rb.end - rb.start
	}
	return len(rb.slots) - rb.start + rb.end
}

// Capacity returns the maximum number of items the buffer can hold.
func (rb *RingBuffer[T]) Capacity() int {
	return rb.capacity
}

// Policy returns the overflow policy fixed at construction.
func (rb *RingBuffer[T]) Policy() OverflowPolicy {
	return rb.opts.overflowPolicy
}

// Values returns a copy of the live items, oldest first, without removing them.
func (rb *RingBuffer[T]) Values() []T {
	values := make([]T, 0, rb.Size())
	for i := rb.start; i != rb.end; i = rb.next(i) {
		values = append(values, rb.slots[i])
	}
	return values
}

// Clear discards every item and resets both cursors to slot zero.
// Discarded items are passed to the drop callback, oldest first. Clear is idempotent.
func (rb *RingBuffer[T]) Clear() {
	var zero T
	var dropped []T

	for i := rb.start; i != rb.end; i = rb.next(i) {
		if rb.opts.dropCallback != nil {
			dropped = append(dropped, rb.slots[i])
		}
		rb.slots[i] = zero
	}

	rb.stats.Discard(int64(rb.Size()))
	rb.start = 0
	rb.end = 0
	rb.generation++

	rb.stats.UpdateSize(0)
	if rb.metrics != nil {
		rb.metrics.updateSize(0, rb.capacity)
	}

	for _, item := range dropped {
		rb.opts.dropCallback(item, DropCleared)
	}
}

// Stats returns buffer statistics (always available for observability).
func (rb *RingBuffer[T]) Stats() *Statistics {
	return rb.stats
}

// Close unregisters the buffer's Prometheus metrics, if any. The buffer stays
// usable afterwards without metrics. Close is idempotent.
func (rb *RingBuffer[T]) Close() error {
	if rb.metrics != nil {
		rb.metrics.unregister()
		rb.metrics = nil
	}
	return nil
}
