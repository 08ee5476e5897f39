package buffer

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

// queueModel is the reference behavior: a plain slice with the same overflow rules.
type queueModel struct {
	items    []int
	capacity int
	policy   OverflowPolicy
}

func (m *queueModel) push(v int) (evicted int, wasEvicted bool, overflow bool) {
	if len(m.items) == m.capacity {
		if m.policy == Reject {
			return 0, false, true
		}
		evicted, wasEvicted = m.items[0], true
		m.items = m.items[1:]
	}
	m.items = append(m.items, v)
	return evicted, wasEvicted, false
}

// TestRingBufferMatchesModel drives random operation sequences against both the
// ring buffer and the slice model and checks they never disagree.
func TestRingBufferMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		policy := rapid.SampledFrom([]OverflowPolicy{Reject, EvictOldest}).Draw(t, "policy")
		initial := rapid.SliceOfN(rapid.Int(), 0, capacity).Draw(t, "initial")

		rb, err := NewRingBufferFrom(capacity, initial, WithOverflowPolicy[int](policy))
		if err != nil {
			t.Fatalf("NewRingBufferFrom: %v", err)
		}
		model := &queueModel{
			items:    append([]int(nil), initial...),
			capacity: capacity,
			policy:   policy,
		}

		t.Repeat(map[string]func(*rapid.T){
			"push": func(t *rapid.T) {
				v := rapid.Int().Draw(t, "value")
				wantEvicted, wantWasEvicted, wantOverflow := model.push(v)

				evicted, wasEvicted, err := rb.PushBack(v)
				if wantOverflow {
					if !errors.Is(err, ErrOverflow) {
						t.Fatalf("PushBack(%d) err=%v, want ErrOverflow", v, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("PushBack(%d) err=%v", v, err)
				}
				if wasEvicted != wantWasEvicted || evicted != wantEvicted {
					t.Fatalf("PushBack(%d)=(%d,%v), want (%d,%v)", v, evicted, wasEvicted, wantEvicted, wantWasEvicted)
				}
			},
			"pop": func(t *rapid.T) {
				got, err := rb.PopFront()
				if len(model.items) == 0 {
					if !errors.Is(err, ErrUnderflow) {
						t.Fatalf("PopFront() err=%v, want ErrUnderflow", err)
					}
					return
				}
				want := model.items[0]
				model.items = model.items[1:]
				if err != nil || got != want {
					t.Fatalf("PopFront()=(%d,%v), want %d", got, err, want)
				}
			},
			"front": func(t *rapid.T) {
				got, err := rb.Front()
				if len(model.items) == 0 {
					if !errors.Is(err, ErrUnderflow) {
						t.Fatalf("Front() err=%v, want ErrUnderflow", err)
					}
					return
				}
				if err != nil || got != model.items[0] {
					t.Fatalf("Front()=(%d,%v), want %d", got, err, model.items[0])
				}
			},
			"clear": func(t *rapid.T) {
				rb.Clear()
				model.items = nil
			},
			"": func(t *rapid.T) {
				size := rb.Size()
				if size != len(model.items) {
					t.Fatalf("Size()=%d, want %d", size, len(model.items))
				}
				if size < 0 || size > capacity {
					t.Fatalf("Size()=%d outside [0,%d]", size, capacity)
				}
				if rb.Empty() != (size == 0) {
					t.Fatalf("Empty()=%v with size %d", rb.Empty(), size)
				}
				if rb.Full() != (size == capacity) {
					t.Fatalf("Full()=%v with size %d of %d", rb.Full(), size, capacity)
				}
				if rb.start < 0 || rb.start > capacity || rb.end < 0 || rb.end > capacity {
					t.Fatalf("cursors out of range: start=%d end=%d", rb.start, rb.end)
				}
				values := rb.Values()
				for i := range values {
					if values[i] != model.items[i] {
						t.Fatalf("Values()=%v, want %v", values, model.items)
					}
				}
			},
		})
	})
}

// TestRingBufferEvictionDrain checks that pushing v into a full evicting buffer
// reports the oldest item and leaves the other N-1 initial items followed by v.
func TestRingBufferEvictionDrain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 16).Draw(t, "capacity")
		initial := rapid.SliceOfN(rapid.Int(), capacity, capacity).Draw(t, "initial")
		v := rapid.Int().Draw(t, "value")

		rb, err := NewRingBufferFrom(capacity, initial, WithOverflowPolicy[int](EvictOldest))
		if err != nil {
			t.Fatalf("NewRingBufferFrom: %v", err)
		}

		evicted, wasEvicted, err := rb.PushBack(v)
		if err != nil || !wasEvicted || evicted != initial[0] {
			t.Fatalf("PushBack(%d)=(%d,%v,%v), want (%d,true,nil)", v, evicted, wasEvicted, err, initial[0])
		}

		want := append(append([]int(nil), initial[1:]...), v)
		got := rb.PopBatch(capacity)
		if len(got) != len(want) {
			t.Fatalf("drained %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("drained %v, want %v", got, want)
			}
		}
	})
}

// TestRingBufferOversizedInitializer checks every initializer longer than the
// capacity is refused.
func TestRingBufferOversizedInitializer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		extra := rapid.IntRange(1, 8).Draw(t, "extra")
		initial := rapid.SliceOfN(rapid.Int(), capacity+extra, capacity+extra).Draw(t, "initial")

		rb, err := NewRingBufferFrom(capacity, initial)
		if rb != nil || !errors.Is(err, ErrInvalidInitializer) {
			t.Fatalf("NewRingBufferFrom(%d, len %d)=(%v,%v), want ErrInvalidInitializer", capacity, len(initial), rb, err)
		}
	})
}
