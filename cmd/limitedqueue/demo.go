package main

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/c360/limitedqueue/errors"
	"github.com/c360/limitedqueue/pkg/buffer"
)

// runDemo walks q through fill, peek, pop, size and clear, printing each
// observation to w. An empty queue is first filled with 1..capacity. With
// overflow set, one extra item is pushed into the full queue.
func runDemo(q buffer.Queue[int], overflow bool, w io.Writer) error {
	if q.Empty() {
		for i := 1; i <= q.Capacity(); i++ {
			if _, _, err := q.PushBack(i); err != nil {
				return errors.Wrap(err, "demo", "runDemo", "fill queue")
			}
		}
	}

	if overflow {
		extra := q.Capacity() + 1
		evicted, wasEvicted, err := q.PushBack(extra)
		switch {
		case stderrors.Is(err, buffer.ErrOverflow):
			fmt.Fprintf(w, "Push %d rejected: queue is full\n", extra)
		case err != nil:
			return errors.Wrap(err, "demo", "runDemo", "overflow push")
		case wasEvicted:
			fmt.Fprintf(w, "Push %d evicted: %d\n", extra, evicted)
		default:
			fmt.Fprintf(w, "Push %d accepted\n", extra)
		}
	}

	front, err := q.Front()
	if err != nil {
		return errors.Wrap(err, "demo", "runDemo", "peek front")
	}
	fmt.Fprintf(w, "First: %d\n", front)

	if _, err := q.PopFront(); err != nil {
		return errors.Wrap(err, "demo", "runDemo", "pop front")
	}
	if front, err = q.Front(); err == nil {
		fmt.Fprintf(w, "First after pop: %d\n", front)
	} else if stderrors.Is(err, buffer.ErrUnderflow) {
		fmt.Fprintln(w, "Queue is empty after pop!")
	} else {
		return errors.Wrap(err, "demo", "runDemo", "peek front")
	}

	if !q.Empty() {
		fmt.Fprintln(w, "Queue is not empty!")
	}
	fmt.Fprintf(w, "Size: %d\n", q.Size())

	q.Clear()
	if q.Empty() {
		fmt.Fprintln(w, "Queue is empty after clear!")
	}
	return nil
}
