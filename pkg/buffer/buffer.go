// Package buffer provides a generic fixed-capacity FIFO ring buffer with a
// reject-on-full or evict-oldest-on-full overflow policy.
//
// The buffer is single-owner: it does no locking. Statistics are always collected
// and Prometheus metrics can be enabled with WithMetrics().
package buffer

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/c360/limitedqueue/errors"
)

// Queue is the bounded FIFO surface implemented by RingBuffer.
type Queue[T any] interface {
	// PushBack appends value. When the queue is full the overflow policy decides:
	// Reject returns ErrOverflow, EvictOldest removes and returns the oldest item.
	PushBack(value T) (evicted T, wasEvicted bool, err error)

	// PopFront removes and returns the oldest item, or ErrUnderflow when empty.
	PopFront() (T, error)

	// Front returns a copy of the oldest item, or ErrUnderflow when empty.
	Front() (T, error)

	// Empty reports whether the queue holds no items.
	Empty() bool

	// Full reports whether the queue holds Capacity() items.
	Full() bool

	// Size returns the number of items held.
	Size() int

	// Capacity returns the maximum number of items the queue can hold.
	Capacity() int

	// Clear discards every item.
	Clear()
}

var _ Queue[int] = (*RingBuffer[int])(nil)

// Errors returned by RingBuffer operations. They are always wrapped with a
// classification; match them with errors.Is.
var (
	// ErrOverflow is returned by PushBack on a full buffer under the Reject policy.
	ErrOverflow = stderrors.New("queue overflow")

	// ErrUnderflow is returned by PopFront, Front and FrontRef on an empty buffer.
	ErrUnderflow = stderrors.New("queue underflow")

	// ErrInvalidInitializer is returned when the initial items exceed the capacity.
	ErrInvalidInitializer = stderrors.New("initializer exceeds capacity")

	// ErrInvalidCapacity is returned for a capacity below one.
	ErrInvalidCapacity = stderrors.New("capacity must be at least 1")

	// ErrStaleReference is returned by a Ref used after the buffer was mutated.
	ErrStaleReference = stderrors.New("front reference invalidated by mutation")
)

// OverflowPolicy defines how the buffer behaves when it reaches capacity.
type OverflowPolicy int

const (
	// Reject fails the push with ErrOverflow and leaves the buffer unchanged.
	Reject OverflowPolicy = iota

	// EvictOldest removes the oldest item to make room and reports it to the caller.
	EvictOldest
)

// String returns a human-readable representation of the overflow policy.
func (p OverflowPolicy) String() string {
	switch p {
	case Reject:
		return "Reject"
	case EvictOldest:
		return "EvictOldest"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy accepts "reject" and "evict_oldest" (or "evict-oldest"),
// case-insensitively.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject":
		return Reject, nil
	case "evict_oldest", "evict-oldest", "evictoldest":
		return EvictOldest, nil
	default:
		return Reject, errors.WrapInvalid(
			fmt.Errorf("unknown overflow policy %q: %w", s, errors.ErrInvalidData),
			"OverflowPolicy", "Parse", "policy lookup")
	}
}

// MarshalText encodes the policy in its configuration form.
func (p OverflowPolicy) MarshalText() ([]byte, error) {
	switch p {
	case Reject:
		return []byte("reject"), nil
	case EvictOldest:
		return []byte("evict_oldest"), nil
	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("overflow policy %d: %w", int(p), errors.ErrInvalidData),
			"OverflowPolicy", "MarshalText", "policy encoding")
	}
}

// UnmarshalText decodes a policy written by MarshalText.
func (p *OverflowPolicy) UnmarshalText(text []byte) error {
	policy, err := ParseOverflowPolicy(string(text))
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// DropReason tells a DropCallback why an item left the buffer without being popped.
type DropReason int

const (
	// DropEvicted means a push under EvictOldest pushed the item out.
	DropEvicted DropReason = iota

	// DropCleared means Clear discarded the item.
	DropCleared
)

// String returns a human-readable representation of the drop reason.
func (r DropReason) String() string {
	switch r {
	case DropEvicted:
		return "evicted"
	case DropCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// DropCallback is called for every item that leaves the buffer without a PopFront.
type DropCallback[T any] func(item T, reason DropReason)

// NewRingBuffer creates an empty ring buffer holding at most capacity items.
// Stats are ALWAYS collected. Metrics are optional via WithMetrics().
// Returns an error for a capacity below one or when metrics registration fails.
func NewRingBuffer[T any](capacity int, options ...Option[T]) (*RingBuffer[T], error) {
	return newRingBuffer("NewRingBuffer", capacity, nil, applyOptions(options...))
}

// NewRingBufferFrom creates a ring buffer pre-filled with initial, oldest first.
// It fails with ErrInvalidInitializer when len(initial) exceeds capacity; no buffer
// is returned and no metrics are registered in that case. The items are copied.
func NewRingBufferFrom[T any](capacity int, initial []T, options ...Option[T]) (*RingBuffer[T], error) {
	return newRingBuffer("NewRingBufferFrom", capacity, initial, applyOptions(options...))
}
