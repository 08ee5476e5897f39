package buffer

import (
	"github.com/c360/limitedqueue/errors"
)

// Ref is scoped access to the item that was at the front of a RingBuffer when
// FrontRef was called. It never hands out a pointer into the buffer's storage;
// reads and writes go through methods that first check the buffer has not been
// mutated since the Ref was taken.
type Ref[T any] struct {
	rb         *RingBuffer[T]
	index      int
	generation uint64
}

// Valid reports whether the Ref can still be used.
func (r *Ref[T]) Valid() bool {
	return r.rb != nil && r.rb.generation == r.generation
}

func (r *Ref[T]) check(method string) error {
	if !r.Valid() {
		return errors.WrapInvalid(ErrStaleReference, "Ref", method, "access front slot")
	}
	return nil
}

// Value returns a copy of the referenced item.
func (r *Ref[T]) Value() (T, error) {
	if err := r.check("Value"); err != nil {
		var zero T
		return zero, err
	}
	return r.rb.slots[r.index], nil
}

// Set replaces the referenced item in place.
func (r *Ref[T]) Set(value T) error {
	if err := r.check("Set"); err != nil {
		return err
	}
	r.rb.slots[r.index] = value
	return nil
}

// Update calls fn with a pointer to the referenced slot. The pointer must not be
// retained after fn returns.
func (r *Ref[T]) Update(fn func(item *T)) error {
	if err := r.check("Update"); err != nil {
		return err
	}
	fn(&r.rb.slots[r.index])
	return nil
}
